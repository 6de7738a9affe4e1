package handler

import (
	"net/http"

	"go-wishlist/internal/model"
	"go-wishlist/internal/service"
)

type PresentHandler struct {
	service *service.PresentService
}

func NewPresentHandler(service *service.PresentService) *PresentHandler {
	return &PresentHandler{service: service}
}

func (h *PresentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	presents, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, presents)
}

func (h *PresentHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.CreatePresentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	present, err := h.service.Create(r.Context(), userID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, present)
}

func (h *PresentHandler) Get(w http.ResponseWriter, r *http.Request) {
	presentID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	present, err := h.service.Get(r.Context(), presentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, present)
}

func (h *PresentHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	presentID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdatePresentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	present, err := h.service.Update(r.Context(), userID, presentID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, present)
}

func (h *PresentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	presentID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, presentID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}
