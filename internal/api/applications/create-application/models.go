package createapplication

import (
	"time"

	"livest/internal/common/camunda"
	"livest/internal/common/database"
	"livest/internal/common/logger"
	"livest/internal/common/observability"
	"livest/internal/models"
)

type Input struct {
	ApplicationDate time.Time `json:"applicationDate"`
	PropertyID      string    `json:"propertyId"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	Message         *string   `json:"message,omitempty"`
}

type Output struct {
	Success     bool                `json:"success"`
	Application *models.Application `json:"application"`
	Message     string              `json:"message"`
}

type ServiceDependencies struct {
	DB            *database.PostgresClient
	Publisher     camunda.Publisher
	Observability *observability.Observability
	Logger        logger.Logger
}
