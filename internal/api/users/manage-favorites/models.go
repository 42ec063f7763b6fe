package managefavorites

import (
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/common/validation"
)

type Input struct {
	PropertyID string `json:"propertyId"`
}

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ServiceDependencies struct {
	DB     *database.PostgresClient
	Logger logger.Logger
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["propertyId"],
	"properties": {
		"propertyId": {"type": "string", "minLength": 1}
	}
}`).WithMessages(map[string]string{
	"propertyId": "Property ID is required",
})
