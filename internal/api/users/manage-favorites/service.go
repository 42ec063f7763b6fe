// Package managefavorites adds and removes properties from the caller's
// favorites set.
package managefavorites

import (
	"context"

	"livest/internal/common/auth"
	"livest/internal/common/database"
	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
	"livest/internal/queries"
)

const OperationName = "manage-favorites"

type Service struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		db:     deps.DB,
		logger: deps.Logger.WithFields(map[string]interface{}{"operation": OperationName}),
	}
}

// Add favorites propertyID. Adding it twice is INVALID_INPUT.
func (s *Service) Add(ctx context.Context, principal *auth.Principal, propertyID string) (*Output, error) {
	if err := s.checkProperty(ctx, principal, propertyID); err != nil {
		return nil, err
	}

	res, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, principal.UserID, propertyID)
	if err != nil {
		return nil, s.internal(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, s.internal(err)
	} else if n == 0 {
		return nil, apperrors.NewInvalidInputError("Property already added as favorite")
	}

	s.logger.Debug("favorite added", map[string]interface{}{"userId": principal.UserID, "propertyId": propertyID})
	return &Output{Success: true, Message: "Property added to favorites"}, nil
}

// Remove drops propertyID from the favorites. Removing a property that is
// not a favorite is INVALID_INPUT.
func (s *Service) Remove(ctx context.Context, principal *auth.Principal, propertyID string) (*Output, error) {
	if err := s.checkProperty(ctx, principal, propertyID); err != nil {
		return nil, err
	}

	res, err := s.db.DB.ExecContext(ctx, `
		DELETE FROM user_favorites
		WHERE user_id = $1 AND property_id = $2`, principal.UserID, propertyID)
	if err != nil {
		return nil, s.internal(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, s.internal(err)
	} else if n == 0 {
		return nil, apperrors.NewInvalidInputError("Property is not in favorites")
	}

	s.logger.Debug("favorite removed", map[string]interface{}{"userId": principal.UserID, "propertyId": propertyID})
	return &Output{Success: true, Message: "Property removed from favorites"}, nil
}

func (s *Service) checkProperty(ctx context.Context, principal *auth.Principal, propertyID string) error {
	if err := auth.RequireAny(principal); err != nil {
		return err
	}
	exists, err := queries.PropertyExists(ctx, s.db.DB, propertyID)
	if err != nil && !database.IsNotFound(err) {
		return s.internal(err)
	}
	if !exists {
		return apperrors.NewNotFoundError("Property not found")
	}
	return nil
}

func (s *Service) internal(err error) error {
	s.logger.Error("update favorites failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewInternalError("Error updating favorites", err)
}
