package app

import (
	"bytes"
	"context"
	"encoding/json"
	"ieltsprep/internal/config"
	"ieltsprep/internal/model"
	"ieltsprep/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

// do sends a JSON request and decodes a JSON reply into out when given
func (c *apiClient) do(method, path, token string, body, out interface{}) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func newTestApp(t *testing.T, mode string) (*App, *apiClient) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: mode, Store: "memory"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	ai := service.NewAIService(config.AIConfig{})
	media := service.NewMediaService(&service.LocalStorageProvider{Root: t.TempDir()})

	a := New(cfg, MemoryStores(), ai, media)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a, &apiClient{t: t, handler: a.Router}
}

func token(t *testing.T, a *App, userID string, role model.Role) string {
	t.Helper()
	tok, err := a.Auth.IssueToken(userID, role)
	require.NoError(t, err)
	return tok
}

func TestHealthAndAuth(t *testing.T) {
	a, api := newTestApp(t, "release")

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/v1/classes", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/v1/classes", "garbage", nil, nil))

	studentTok := token(t, a, "s1", model.RoleStudent)
	assert.Equal(t, http.StatusForbidden,
		api.do(http.MethodPost, "/v1/classes", studentTok, service.CreateClassRequest{Name: "x"}, nil),
		"students cannot reach teacher routes")

	assert.Equal(t, http.StatusNotFound,
		api.do(http.MethodPost, "/v1/auth/dev-token", "", map[string]string{"userId": "t1", "role": "teacher"}, nil),
		"dev tokens are off outside debug mode")
}

func TestDevToken(t *testing.T) {
	_, api := newTestApp(t, "debug")

	var out struct {
		Token string `json:"token"`
	}
	code := api.do(http.MethodPost, "/v1/auth/dev-token", "", map[string]string{"userId": "t1", "role": "teacher"}, &out)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, out.Token)

	var classes []model.Class
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/classes", out.Token, nil, &classes))

	code = api.do(http.MethodPost, "/v1/auth/dev-token", "", map[string]string{"userId": "x", "role": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	a, api := newTestApp(t, "release")
	teacherTok := token(t, a, "t1", model.RoleTeacher)
	studentTok := token(t, a, "s1", model.RoleStudent)

	var class model.Class
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/v1/classes", teacherTok,
		service.CreateClassRequest{Name: "Band 7", StudentIDs: []string{"s1"}}, &class))

	var draft model.Draft
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/v1/drafts", teacherTok,
		service.StartDraftRequest{ClassID: class.ID, Type: model.SkillReading}, &draft))

	doc := map[string]interface{}{
		"passageContent": "<p>Bees</p>",
		"questionGroups": []map[string]interface{}{{
			"type":    "TRUE_FALSE_NG",
			"content": "",
			"questions": []map[string]string{
				{"text": "Bees dance.", "correctAnswer": "TRUE"},
				{"text": "Bees sleep.", "correctAnswer": "FALSE"},
			},
		}},
	}
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/v1/drafts/"+draft.ID+"/import", teacherTok, doc, &draft))
	require.Len(t, draft.Assignment.QuestionGroups, 1)

	var invalid struct {
		Error  string               `json:"error"`
		Fields []service.FieldError `json:"fields"`
	}
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodPost, "/v1/drafts/"+draft.ID+"/save", teacherTok, nil, &invalid),
		"title and due date are still missing")
	assert.NotEmpty(t, invalid.Fields)

	due := time.Now().Add(48 * time.Hour).UTC()
	title := "Bees"
	require.Equal(t, http.StatusOK, api.do(http.MethodPatch, "/v1/drafts/"+draft.ID, teacherTok,
		service.DraftDetailsRequest{Title: &title, DueDate: &due}, nil))

	var saved service.SaveResult
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/v1/drafts/"+draft.ID+"/save", teacherTok, nil, &saved))
	require.NotNil(t, saved.Assignment)
	assignmentID := saved.Assignment.ID
	questions := saved.Assignment.FlattenQuestions()
	require.Len(t, questions, 2)

	var view model.Assignment
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/assignments/"+assignmentID, studentTok, nil, &view))
	for _, q := range view.FlattenQuestions() {
		assert.Empty(t, q.CorrectAnswer)
	}

	submit := service.SubmitRequest{Answers: map[string]string{questions[0].ID: "TRUE", questions[1].ID: "TRUE"}}
	var sub model.Submission
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/v1/assignments/"+assignmentID+"/submissions", studentTok, submit, &sub))
	assert.Equal(t, "1/2", sub.Grade)
	assert.Equal(t, model.SubmissionGraded, sub.Status)

	assert.Equal(t, http.StatusConflict,
		api.do(http.MethodPost, "/v1/assignments/"+assignmentID+"/submissions", studentTok, submit, nil))

	var subs []model.Submission
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/submissions", teacherTok, nil, &subs))
	assert.Len(t, subs, 1)
	assert.Equal(t, http.StatusForbidden,
		api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/submissions", studentTok, nil, nil))

	var analytics model.AssignmentAnalytics
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/analytics", teacherTok, nil, &analytics))
	assert.Equal(t, 1, analytics.SubmissionCount)
	assert.Equal(t, 100, analytics.CompletionRate)

	var ranking []model.RankEntry
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/ranking?limit=5", teacherTok, nil, &ranking))
	require.Len(t, ranking, 1)
	assert.Equal(t, 50, ranking[0].Score)
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/ranking?limit=zero", teacherTok, nil, nil))

	var mine model.RankEntry
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/assignments/"+assignmentID+"/ranking/me", studentTok, nil, &mine))
	assert.Equal(t, 1, mine.Rank)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/v1/assignments/missing", teacherTok, nil, nil))
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/v1/assignments/"+assignmentID, teacherTok, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/v1/assignments/"+assignmentID, studentTok, nil, nil))
}

func TestCORSPreflight(t *testing.T) {
	_, api := newTestApp(t, "release")

	req := httptest.NewRequest(http.MethodOptions, "/v1/classes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
