package listpayments

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

// ServeHTTP handles GET /leases/{leaseId}/payments.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	output, err := h.service.Execute(r.Context(), auth.FromContext(r.Context()), mux.Vars(r)["leaseId"])
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	apperrors.WriteJSON(w, http.StatusOK, output)
}
