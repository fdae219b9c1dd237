package handler

import (
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/middleware"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// AssignmentHandler handles stored assignment endpoints
type AssignmentHandler struct {
	assignmentSvc *service.AssignmentService
	analyticsSvc  *service.AnalyticsService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentSvc *service.AssignmentService, analyticsSvc *service.AnalyticsService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc, analyticsSvc: analyticsSvc}
}

// ListForClass handles GET /v1/classes/{classId}/assignments
// @Summary List a class's folders and assignments
// @Description Students receive assignments without answers
// @Tags assignments
// @Produce json
// @Param classId path string true "class id"
// @Success 200 {object} model.ClassSnapshot
// @Security BearerAuth
// @Router /classes/{classId}/assignments [get]
func (h *AssignmentHandler) ListForClass(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	snap, err := h.assignmentSvc.ListForClass(r.Context(), middleware.GetPrincipal(r.Context()), classID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Get handles GET /v1/assignments/{assignmentId}
// @Summary Get an assignment
// @Description Students receive the assignment without answers
// @Tags assignments
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 200 {object} model.Assignment
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentId} [get]
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	assignment, err := h.assignmentSvc.GetAssignment(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// Move handles PUT /v1/assignments/{assignmentId}/folder
// @Summary File an assignment under a folder
// @Description An empty folderId ungroups the assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Param body body service.MoveRequest true "target folder"
// @Success 200 {object} model.Assignment
// @Security BearerAuth
// @Router /assignments/{assignmentId}/folder [put]
func (h *AssignmentHandler) Move(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	var req service.MoveRequest
	if !decode(w, r, &req) {
		return
	}

	assignment, err := h.assignmentSvc.MoveToFolder(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// Delete handles DELETE /v1/assignments/{assignmentId}
// @Summary Delete an assignment and its submissions
// @Tags assignments
// @Param assignmentId path string true "assignment id"
// @Success 204
// @Security BearerAuth
// @Router /assignments/{assignmentId} [delete]
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	if err := h.assignmentSvc.DeleteAssignment(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analytics handles GET /v1/assignments/{assignmentId}/analytics
// @Summary Class performance on an assignment
// @Tags analytics
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 200 {object} model.AssignmentAnalytics
// @Security BearerAuth
// @Router /assignments/{assignmentId}/analytics [get]
func (h *AssignmentHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	analytics, err := h.analyticsSvc.GetAssignmentAnalytics(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// Ranking handles GET /v1/assignments/{assignmentId}/ranking
// @Summary Best graded scores on an assignment
// @Tags analytics
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Param limit query int false "number of students, default 10"
// @Success 200 {array} model.RankEntry
// @Security BearerAuth
// @Router /assignments/{assignmentId}/ranking [get]
func (h *AssignmentHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.analyticsSvc.Ranking(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// MyRank handles GET /v1/assignments/{assignmentId}/ranking/me
// @Summary The calling student's place in the ranking
// @Tags analytics
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 200 {object} model.RankEntry
// @Security BearerAuth
// @Router /assignments/{assignmentId}/ranking/me [get]
func (h *AssignmentHandler) MyRank(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	entry, err := h.analyticsSvc.MyRank(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
