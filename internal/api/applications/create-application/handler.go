package createapplication

import (
	"net/http"

	"livest/internal/common/auth"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/common/validation"
)

type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"operation": OperationName}),
	}
}

// ServeHTTP handles POST /applications.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	if err := auth.RequireRole(principal, auth.RoleTenant); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	var input Input
	if err := validation.DecodeJSON(r.Body, inputSchema, &input); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	output, err := h.service.Execute(r.Context(), principal, &input)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Warn("create application rejected", map[string]interface{}{
			"propertyId": input.PropertyID,
			"code":       apperrors.CodeOf(err),
		})
		apperrors.WriteError(w, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, output)
}
