package listproperties

import (
	"net/http"

	"livest/internal/common/auth"
	apperrors "livest/internal/common/errors"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mine handles GET /properties/me.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.Mine(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}

// ForManager handles GET /properties/manager/{managerId}.
func (h *Handler) ForManager(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.ForManager(r.Context(), mux.Vars(r)["managerId"])
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}

// ForTenant handles GET /properties/tenant/{tenantId}.
func (h *Handler) ForTenant(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.ForTenant(r.Context(), mux.Vars(r)["tenantId"])
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}
