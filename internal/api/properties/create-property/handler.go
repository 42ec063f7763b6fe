package createproperty

import (
	"encoding/json"
	"net/http"

	"livest/internal/common/auth"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
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

// ServeHTTP handles POST /properties.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal := auth.FromContext(r.Context())
	if err := auth.RequireRole(principal, auth.RoleManager); err != nil {
		apperrors.WriteError(w, err)
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperrors.WriteError(w, apperrors.NewInvalidInputError("Request body must be valid JSON"))
		return
	}

	output, err := h.service.Execute(r.Context(), principal, &input)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Warn("create property rejected", map[string]interface{}{
			"code": apperrors.CodeOf(err),
		})
		apperrors.WriteError(w, err)
		return
	}

	apperrors.WriteJSON(w, http.StatusCreated, output)
}
