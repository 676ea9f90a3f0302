package handler

import (
	"net/http"

	"workforce-api/internal/middleware"
	"workforce-api/internal/model"
	"workforce-api/internal/service"
	"workforce-api/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tokens, nil)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	writeError(w, h.service.Refresh(r.Context()))
}

func (h *AuthHandler) TokenValid(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	valid, err := h.service.IsValid(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.TokenValidity{Valid: valid}, nil)
}

// Logout revokes the token presented with the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), claims); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "token revoked"}, nil)
}

func (h *AuthHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListTokens(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, records, &model.Meta{Total: len(records)})
}

func (h *AuthHandler) ModifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ModifyTokenRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ModifyToken(r.Context(), claims, id, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"message": "token updated"}, nil)
}

func (h *AuthHandler) PruneExpired(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PruneExpired(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func requireClaims(w http.ResponseWriter, r *http.Request) (model.AuthClaims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Authentication("authentication required"))
		return model.AuthClaims{}, false
	}
	return claims, true
}
