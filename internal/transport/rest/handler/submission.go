package handler

import (
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// SubmissionHandler handles student work and teacher review endpoints
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// TranscribeRequest names the recorded answer to transcribe
type TranscribeRequest struct {
	AnswerKey string `json:"answerKey"`
}

// Submit handles POST /v1/assignments/{assignmentId}/submissions
// @Summary Submit answers
// @Description Objective skills are graded immediately; writing and speaking wait for review
// @Tags submissions
// @Accept json
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Param body body service.SubmitRequest true "answers"
// @Success 201 {object} model.Submission
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentId}/submissions [post]
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	var req service.SubmitRequest
	if !decode(w, r, &req) {
		return
	}

	sub, err := h.submissionSvc.Submit(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// RecordEvent handles POST /v1/assignments/{assignmentId}/attempt-events
// @Summary Count a tab switch or paste during an attempt
// @Tags submissions
// @Accept json
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Param body body service.AttemptEventRequest true "event"
// @Success 200 {object} model.IntegrityMetadata
// @Security BearerAuth
// @Router /assignments/{assignmentId}/attempt-events [post]
func (h *SubmissionHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	var req service.AttemptEventRequest
	if !decode(w, r, &req) {
		return
	}

	meta, err := h.submissionSvc.RecordAttemptEvent(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Mine handles GET /v1/assignments/{assignmentId}/submissions/me
// @Summary Get the caller's submission for an assignment
// @Tags submissions
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 200 {object} model.Submission
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/{assignmentId}/submissions/me [get]
func (h *SubmissionHandler) Mine(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	sub, err := h.submissionSvc.MySubmission(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ListMine handles GET /v1/submissions
// @Summary List the calling student's submissions
// @Tags submissions
// @Produce json
// @Success 200 {array} model.Submission
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissionSvc.ListMine(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// ListForAssignment handles GET /v1/assignments/{assignmentId}/submissions
// @Summary List all submissions of an assignment
// @Tags submissions
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 200 {array} model.Submission
// @Security BearerAuth
// @Router /assignments/{assignmentId}/submissions [get]
func (h *SubmissionHandler) ListForAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	subs, err := h.submissionSvc.ListForAssignment(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// Get handles GET /v1/submissions/{submissionId}
// @Summary Get a submission
// @Tags submissions
// @Produce json
// @Param submissionId path string true "submission id"
// @Success 200 {object} model.Submission
// @Security BearerAuth
// @Router /submissions/{submissionId} [get]
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	sub, err := h.submissionSvc.GetSubmission(r.Context(), middleware.GetPrincipal(r.Context()), submissionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Grade handles PUT /v1/submissions/{submissionId}/grade
// @Summary Grade a submission
// @Description Writing and speaking take a band 0-9 in half steps; other skills take a band or a score like 31/40
// @Tags submissions
// @Accept json
// @Produce json
// @Param submissionId path string true "submission id"
// @Param body body service.GradeRequest true "grade"
// @Success 200 {object} model.Submission
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{submissionId}/grade [put]
func (h *SubmissionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	var req service.GradeRequest
	if !decode(w, r, &req) {
		return
	}

	sub, err := h.submissionSvc.Grade(r.Context(), middleware.GetPrincipal(r.Context()), submissionID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// AIGrade handles POST /v1/submissions/{submissionId}/ai-grade
// @Summary Request AI feedback on a writing submission
// @Tags submissions
// @Produce json
// @Param submissionId path string true "submission id"
// @Success 200 {object} model.Submission
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{submissionId}/ai-grade [post]
func (h *SubmissionHandler) AIGrade(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	sub, err := h.submissionSvc.AIGradeWriting(r.Context(), middleware.GetPrincipal(r.Context()), submissionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Transcribe handles POST /v1/submissions/{submissionId}/transcribe
// @Summary Transcribe a recorded speaking answer
// @Tags submissions
// @Accept json
// @Produce json
// @Param submissionId path string true "submission id"
// @Param body body TranscribeRequest true "answer key"
// @Success 200 {object} service.Transcription
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /submissions/{submissionId}/transcribe [post]
func (h *SubmissionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	submissionID := mux.Vars(r)["submissionId"]

	var req TranscribeRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.submissionSvc.Transcribe(r.Context(), middleware.GetPrincipal(r.Context()), submissionID, req.AnswerKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
