package handler

import (
	"encoding/base64"
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/middleware"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// DraftHandler handles the assignment editor endpoints
type DraftHandler struct {
	draftSvc *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftSvc *service.DraftService) *DraftHandler {
	return &DraftHandler{draftSvc: draftSvc}
}

// MoveGroupRequest is the body of a group move
type MoveGroupRequest struct {
	To int `json:"to"`
}

// Start handles POST /v1/drafts
// @Summary Start a new assignment draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param body body service.StartDraftRequest true "draft"
// @Success 201 {object} model.Draft
// @Security BearerAuth
// @Router /drafts [post]
func (h *DraftHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req service.StartDraftRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.StartDraft(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// Edit handles POST /v1/assignments/{assignmentId}/draft
// @Summary Open a saved assignment in the editor
// @Tags drafts
// @Produce json
// @Param assignmentId path string true "assignment id"
// @Success 201 {object} model.Draft
// @Security BearerAuth
// @Router /assignments/{assignmentId}/draft [post]
func (h *DraftHandler) Edit(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["assignmentId"]

	draft, err := h.draftSvc.EditAssignment(r.Context(), middleware.GetPrincipal(r.Context()), assignmentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// List handles GET /v1/drafts
// @Summary List the caller's open drafts
// @Tags drafts
// @Produce json
// @Success 200 {array} model.Draft
// @Security BearerAuth
// @Router /drafts [get]
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.draftSvc.ListDrafts(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

// Get handles GET /v1/drafts/{draftId}
// @Summary Get a draft
// @Tags drafts
// @Produce json
// @Param draftId path string true "draft id"
// @Success 200 {object} model.Draft
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftId} [get]
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	draft, err := h.draftSvc.GetDraft(r.Context(), middleware.GetPrincipal(r.Context()), draftID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Discard handles DELETE /v1/drafts/{draftId}
// @Summary Discard a draft
// @Tags drafts
// @Param draftId path string true "draft id"
// @Success 204
// @Security BearerAuth
// @Router /drafts/{draftId} [delete]
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	if err := h.draftSvc.DiscardDraft(r.Context(), middleware.GetPrincipal(r.Context()), draftID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDetails handles PATCH /v1/drafts/{draftId}
// @Summary Update assignment details
// @Description Only the fields present in the body are changed
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param body body service.DraftDetailsRequest true "details"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId} [patch]
func (h *DraftHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	var req service.DraftDetailsRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.UpdateDetails(r.Context(), middleware.GetPrincipal(r.Context()), draftID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// AddGroup handles POST /v1/drafts/{draftId}/groups
// @Summary Append a question group
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param body body service.AddGroupRequest true "group"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups [post]
func (h *DraftHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	var req service.AddGroupRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.AddGroup(r.Context(), middleware.GetPrincipal(r.Context()), draftID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// UpdateGroup handles PATCH /v1/drafts/{draftId}/groups/{groupId}
// @Summary Update a question group
// @Description Changing the type of a notes group recompiles its questions
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Param body body service.UpdateGroupRequest true "group fields"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId} [patch]
func (h *DraftHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req service.UpdateGroupRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.UpdateGroup(r.Context(), middleware.GetPrincipal(r.Context()), vars["draftId"], vars["groupId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// RemoveGroup handles DELETE /v1/drafts/{draftId}/groups/{groupId}
// @Summary Remove a question group
// @Tags drafts
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId} [delete]
func (h *DraftHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	draft, err := h.draftSvc.RemoveGroup(r.Context(), middleware.GetPrincipal(r.Context()), vars["draftId"], vars["groupId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// MoveGroup handles POST /v1/drafts/{draftId}/groups/{groupId}/move
// @Summary Move a question group to another position
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Param body body MoveGroupRequest true "target index"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId}/move [post]
func (h *DraftHandler) MoveGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req MoveGroupRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.MoveGroup(r.Context(), middleware.GetPrincipal(r.Context()), vars["draftId"], vars["groupId"], req.To)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// AddQuestion handles POST /v1/drafts/{draftId}/groups/{groupId}/questions
// @Summary Add a question to a group
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Param body body service.QuestionRequest true "question"
// @Success 200 {object} model.Draft
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId}/questions [post]
func (h *DraftHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req service.QuestionRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.AddQuestion(r.Context(), middleware.GetPrincipal(r.Context()), vars["draftId"], vars["groupId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// UpdateQuestion handles PATCH /v1/drafts/{draftId}/groups/{groupId}/questions/{questionId}
// @Summary Update a question
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Param questionId path string true "question id"
// @Param body body service.QuestionRequest true "question fields"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId}/questions/{questionId} [patch]
func (h *DraftHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req service.QuestionRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := h.draftSvc.UpdateQuestion(r.Context(), middleware.GetPrincipal(r.Context()),
		vars["draftId"], vars["groupId"], vars["questionId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// RemoveQuestion handles DELETE /v1/drafts/{draftId}/groups/{groupId}/questions/{questionId}
// @Summary Remove a question
// @Tags drafts
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Param questionId path string true "question id"
// @Success 200 {object} model.Draft
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId}/questions/{questionId} [delete]
func (h *DraftHandler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	draft, err := h.draftSvc.RemoveQuestion(r.Context(), middleware.GetPrincipal(r.Context()),
		vars["draftId"], vars["groupId"], vars["questionId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Preview handles GET /v1/drafts/{draftId}/groups/{groupId}/preview
// @Summary Preview a notes group as compiled and as a student sees it
// @Tags drafts
// @Produce json
// @Param draftId path string true "draft id"
// @Param groupId path string true "group id"
// @Success 200 {object} service.NotesPreview
// @Security BearerAuth
// @Router /drafts/{draftId}/groups/{groupId}/preview [get]
func (h *DraftHandler) Preview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	preview, err := h.draftSvc.PreviewNotes(r.Context(), middleware.GetPrincipal(r.Context()), vars["draftId"], vars["groupId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// Import handles POST /v1/drafts/{draftId}/import
// @Summary Import quiz JSON into a draft
// @Description Replaces the passage and question groups; title, type and schedule are kept
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftId path string true "draft id"
// @Success 200 {object} model.Draft
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftId}/import [post]
func (h *DraftHandler) Import(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	raw, err := io.ReadAll(io.LimitReader(r.Body, service.MaxMediaSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.draftSvc.ImportJSON(r.Context(), middleware.GetPrincipal(r.Context()), draftID, raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// Extract handles POST /v1/drafts/{draftId}/extract
// @Summary Extract a quiz from an uploaded document with AI
// @Tags drafts
// @Accept multipart/form-data
// @Produce json
// @Param draftId path string true "draft id"
// @Param file formData file true "PDF or image"
// @Success 200 {object} service.ExtractResult
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftId}/extract [post]
func (h *DraftHandler) Extract(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxMediaSize+(1<<20))
	if err := r.ParseMultipartForm(service.MaxMediaSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart upload under 10 MB")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	result, err := h.draftSvc.ExtractFromFile(r.Context(), middleware.GetPrincipal(r.Context()),
		draftID, base64.StdEncoding.EncodeToString(data), header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Save handles POST /v1/drafts/{draftId}/save
// @Summary Validate and persist a draft as an assignment
// @Tags drafts
// @Produce json
// @Param draftId path string true "draft id"
// @Success 200 {object} service.SaveResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftId}/save [post]
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	draftID := mux.Vars(r)["draftId"]

	result, err := h.draftSvc.Save(r.Context(), middleware.GetPrincipal(r.Context()), draftID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
