package handler

import (
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// ClassHandler handles class and folder endpoints
type ClassHandler struct {
	classSvc  *service.ClassService
	folderSvc *service.FolderService
}

// NewClassHandler creates a new class handler
func NewClassHandler(classSvc *service.ClassService, folderSvc *service.FolderService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc, folderSvc: folderSvc}
}

// RosterRequest replaces a class roster
type RosterRequest struct {
	StudentIDs []string `json:"studentIds"`
}

// Create handles POST /v1/classes
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Param body body service.CreateClassRequest true "class"
// @Success 201 {object} model.Class
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /classes [post]
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateClassRequest
	if !decode(w, r, &req) {
		return
	}

	class, err := h.classSvc.CreateClass(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

// List handles GET /v1/classes
// @Summary List the caller's classes
// @Description Teachers see classes they own, students see classes they are enrolled in
// @Tags classes
// @Produce json
// @Success 200 {array} model.Class
// @Security BearerAuth
// @Router /classes [get]
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classSvc.ListClasses(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

// Get handles GET /v1/classes/{classId}
// @Summary Get a class
// @Tags classes
// @Produce json
// @Param classId path string true "class id"
// @Success 200 {object} model.Class
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /classes/{classId} [get]
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	class, err := h.classSvc.GetClass(r.Context(), middleware.GetPrincipal(r.Context()), classID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

// SetRoster handles PUT /v1/classes/{classId}/students
// @Summary Replace the class roster
// @Tags classes
// @Accept json
// @Produce json
// @Param classId path string true "class id"
// @Param body body RosterRequest true "student ids"
// @Success 200 {object} model.Class
// @Security BearerAuth
// @Router /classes/{classId}/students [put]
func (h *ClassHandler) SetRoster(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	var req RosterRequest
	if !decode(w, r, &req) {
		return
	}

	class, err := h.classSvc.SetRoster(r.Context(), middleware.GetPrincipal(r.Context()), classID, req.StudentIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

// CreateFolder handles POST /v1/classes/{classId}/folders
// @Summary Create an assignment folder
// @Tags folders
// @Accept json
// @Produce json
// @Param classId path string true "class id"
// @Param body body service.FolderRequest true "folder"
// @Success 201 {object} model.AssignmentGroup
// @Security BearerAuth
// @Router /classes/{classId}/folders [post]
func (h *ClassHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	var req service.FolderRequest
	if !decode(w, r, &req) {
		return
	}

	folder, err := h.folderSvc.CreateFolder(r.Context(), middleware.GetPrincipal(r.Context()), classID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// ListFolders handles GET /v1/classes/{classId}/folders
// @Summary List a class's folders in display order
// @Tags folders
// @Produce json
// @Param classId path string true "class id"
// @Success 200 {array} model.AssignmentGroup
// @Security BearerAuth
// @Router /classes/{classId}/folders [get]
func (h *ClassHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	folders, err := h.folderSvc.ListFolders(r.Context(), middleware.GetPrincipal(r.Context()), classID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// ReorderFolders handles PUT /v1/classes/{classId}/folders/order
// @Summary Reorder folders
// @Description The list must name every folder of the class exactly once
// @Tags folders
// @Accept json
// @Produce json
// @Param classId path string true "class id"
// @Param body body service.ReorderRequest true "folder ids in display order"
// @Success 200 {array} model.AssignmentGroup
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /classes/{classId}/folders/order [put]
func (h *ClassHandler) ReorderFolders(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["classId"]

	var req service.ReorderRequest
	if !decode(w, r, &req) {
		return
	}

	folders, err := h.folderSvc.ReorderFolders(r.Context(), middleware.GetPrincipal(r.Context()), classID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// RenameFolder handles PUT /v1/folders/{folderId}
// @Summary Rename a folder
// @Tags folders
// @Accept json
// @Produce json
// @Param folderId path string true "folder id"
// @Param body body service.FolderRequest true "folder"
// @Success 200 {object} model.AssignmentGroup
// @Security BearerAuth
// @Router /folders/{folderId} [put]
func (h *ClassHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	folderID := mux.Vars(r)["folderId"]

	var req service.FolderRequest
	if !decode(w, r, &req) {
		return
	}

	folder, err := h.folderSvc.RenameFolder(r.Context(), middleware.GetPrincipal(r.Context()), folderID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /v1/folders/{folderId}
// @Summary Delete a folder
// @Description Assignments in the folder are kept and flagged folderMissing in listings
// @Tags folders
// @Param folderId path string true "folder id"
// @Success 204
// @Security BearerAuth
// @Router /folders/{folderId} [delete]
func (h *ClassHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID := mux.Vars(r)["folderId"]

	if err := h.folderSvc.DeleteFolder(r.Context(), middleware.GetPrincipal(r.Context()), folderID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
