package handler

import (
	"ieltsprep/internal/model"
	"ieltsprep/internal/service"
	"net/http"
	"strings"
)

// AuthHandler issues development tokens. Production identities come from the
// external identity provider, which signs tokens with the same secret.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// DevTokenRequest names the identity to sign
type DevTokenRequest struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
}

// TokenResponse carries a signed bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// DevToken handles POST /v1/auth/dev-token
// @Summary Issue a development token
// @Description Only routed when the server runs in debug mode
// @Tags auth
// @Accept json
// @Produce json
// @Param body body DevTokenRequest true "identity"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/dev-token [post]
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	var req DevTokenRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	token, err := h.authSvc.IssueToken(req.UserID, req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}
