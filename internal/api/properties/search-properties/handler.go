package searchproperties

import (
	"net/http"

	apperrors "livest/internal/common/errors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ServeHTTP handles GET /search. No session is required.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilters(r.URL.Query())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}

	output, err := h.service.Execute(r.Context(), filters)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}
