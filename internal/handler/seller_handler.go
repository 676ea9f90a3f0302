package handler

import (
	"net/http"

	"workforce-api/internal/model"
	"workforce-api/internal/service"
)

type SellerHandler struct {
	service *service.WorkforceService
}

func NewSellerHandler(service *service.WorkforceService) *SellerHandler {
	return &SellerHandler{service: service}
}

func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var payload model.CreateSellerRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	seller, err := h.service.CreateSeller(r.Context(), claims.Subject, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, seller, nil)
}

func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	seller, err := h.service.GetSeller(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, seller, nil)
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	seller, err := h.service.DeleteSeller(r.Context(), claims.Subject, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, seller, nil)
}
