package rest

import (
	_ "ieltsprep/docs"
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/handler"
	"ieltsprep/internal/transport/rest/middleware"
	"ieltsprep/internal/transport/ws"
	"ieltsprep/pkg/monitoring"
	"ieltsprep/pkg/tracing"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ClassService      *service.ClassService
	FolderService     *service.FolderService
	DraftService      *service.DraftService
	AssignmentService *service.AssignmentService
	SubmissionService *service.SubmissionService
	AnalyticsService  *service.AnalyticsService
	MediaService      *service.MediaService
	WSHub             *ws.Hub
	AllowedOrigins    []string
	// DevTokens routes POST /v1/auth/dev-token; only for debug mode
	DevTokens bool
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	classHandler := handler.NewClassHandler(c.ClassService, c.FolderService)
	draftHandler := handler.NewDraftHandler(c.DraftService)
	assignmentHandler := handler.NewAssignmentHandler(c.AssignmentService, c.AnalyticsService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)
	mediaHandler := handler.NewMediaHandler(c.MediaService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.AssignmentService, strings.Join(c.AllowedOrigins, ","))

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(monitoring.MetricsMiddleware)
	r.Use(tracing.Middleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", monitoring.PrometheusHandler()).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	if c.DevTokens {
		v1.HandleFunc("/auth/dev-token", authHandler.DevToken).Methods("POST", "OPTIONS")
	}

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/classes/{classId}", wsHandler.ClassWS).Methods("GET")

	// Routes for any signed-in user; services check class membership
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireAuth)

	// Teacher routes
	teacher := authed.NewRoute().Subrouter()
	teacher.Use(authMW.RequireTeacher)

	teacher.HandleFunc("/classes", classHandler.Create).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/classes/{classId}/students", classHandler.SetRoster).Methods("PUT", "OPTIONS")
	teacher.HandleFunc("/classes/{classId}/folders", classHandler.CreateFolder).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/classes/{classId}/folders/order", classHandler.ReorderFolders).Methods("PUT", "OPTIONS")
	teacher.HandleFunc("/folders/{folderId}", classHandler.RenameFolder).Methods("PUT", "OPTIONS")
	teacher.HandleFunc("/folders/{folderId}", classHandler.DeleteFolder).Methods("DELETE", "OPTIONS")

	teacher.HandleFunc("/drafts", draftHandler.Start).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts", draftHandler.List).Methods("GET", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}", draftHandler.Get).Methods("GET", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}", draftHandler.UpdateDetails).Methods("PATCH", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}", draftHandler.Discard).Methods("DELETE", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups", draftHandler.AddGroup).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}", draftHandler.UpdateGroup).Methods("PATCH", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}", draftHandler.RemoveGroup).Methods("DELETE", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}/move", draftHandler.MoveGroup).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}/preview", draftHandler.Preview).Methods("GET", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}/questions", draftHandler.AddQuestion).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}/questions/{questionId}", draftHandler.UpdateQuestion).Methods("PATCH", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/groups/{groupId}/questions/{questionId}", draftHandler.RemoveQuestion).Methods("DELETE", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/import", draftHandler.Import).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/extract", draftHandler.Extract).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/drafts/{draftId}/save", draftHandler.Save).Methods("POST", "OPTIONS")

	teacher.HandleFunc("/assignments/{assignmentId}/draft", draftHandler.Edit).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/assignments/{assignmentId}/folder", assignmentHandler.Move).Methods("PUT", "OPTIONS")
	teacher.HandleFunc("/assignments/{assignmentId}", assignmentHandler.Delete).Methods("DELETE", "OPTIONS")
	teacher.HandleFunc("/assignments/{assignmentId}/analytics", assignmentHandler.Analytics).Methods("GET", "OPTIONS")
	teacher.HandleFunc("/assignments/{assignmentId}/ranking", assignmentHandler.Ranking).Methods("GET", "OPTIONS")
	teacher.HandleFunc("/assignments/{assignmentId}/submissions", submissionHandler.ListForAssignment).Methods("GET", "OPTIONS")

	teacher.HandleFunc("/submissions/{submissionId}/grade", submissionHandler.Grade).Methods("PUT", "OPTIONS")
	teacher.HandleFunc("/submissions/{submissionId}/ai-grade", submissionHandler.AIGrade).Methods("POST", "OPTIONS")
	teacher.HandleFunc("/submissions/{submissionId}/transcribe", submissionHandler.Transcribe).Methods("POST", "OPTIONS")

	teacher.HandleFunc("/media", mediaHandler.Upload).Methods("POST", "OPTIONS")

	// Shared routes
	authed.HandleFunc("/classes", classHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/classes/{classId}", classHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/classes/{classId}/folders", classHandler.ListFolders).Methods("GET", "OPTIONS")
	authed.HandleFunc("/classes/{classId}/assignments", assignmentHandler.ListForClass).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assignments/{assignmentId}", assignmentHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/submissions/{submissionId}", submissionHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/media/{key:.+}", mediaHandler.Get).Methods("GET", "OPTIONS")

	// Student routes; the service rejects other roles
	authed.HandleFunc("/assignments/{assignmentId}/submissions", submissionHandler.Submit).Methods("POST", "OPTIONS")
	authed.HandleFunc("/assignments/{assignmentId}/submissions/me", submissionHandler.Mine).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assignments/{assignmentId}/ranking/me", assignmentHandler.MyRank).Methods("GET", "OPTIONS")
	authed.HandleFunc("/assignments/{assignmentId}/attempt-events", submissionHandler.RecordEvent).Methods("POST", "OPTIONS")
	authed.HandleFunc("/submissions", submissionHandler.ListMine).Methods("GET", "OPTIONS")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
