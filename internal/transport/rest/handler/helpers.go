package handler

import (
	"encoding/json"
	"ieltsprep/internal/model"
	"ieltsprep/internal/service"
	"ieltsprep/pkg/logger"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: vErr.Error(), Fields: vErr.Fields})
	case isNotFound(err):
		writeError(w, http.StatusNotFound, errors.Cause(err).Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrSubmissionExists):
		writeError(w, http.StatusConflict, service.ErrSubmissionExists.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		writeError(w, http.StatusBadGateway, service.ErrAIUnavailable.Error())
	default:
		logger.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		service.ErrClassNotFound,
		service.ErrFolderNotFound,
		service.ErrAssignmentNotFound,
		service.ErrSubmissionNotFound,
		service.ErrDraftNotFound,
		service.ErrMediaNotFound,
		model.ErrGroupNotFound,
		model.ErrQuestionNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decode reads a JSON body, writing 400 on failure
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
