package managefavorites

import (
	"context"
	"net/http"

	"livest/internal/common/auth"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Add handles POST /users/favorites.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Add)
}

// Remove handles DELETE /users/favorites.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Remove)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request,
	op func(context.Context, *auth.Principal, string) (*Output, error)) {
	principal := auth.FromContext(r.Context())
	if err := auth.RequireAny(principal); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	var input Input
	if err := validation.DecodeJSON(r.Body, inputSchema, &input); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	output, err := op(r.Context(), principal, input.PropertyID)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}
