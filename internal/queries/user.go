package queries

import (
	"context"

	"livest/internal/models"

	"github.com/jmoiron/sqlx"
)

const userFrom = `SELECT id, name, email, phone_number, image, role, created_at FROM users`

// GetUser returns sql.ErrNoRows when the user does not exist.
func GetUser(ctx context.Context, q sqlx.QueryerContext, id string) (*models.User, error) {
	var u models.User
	if err := sqlx.GetContext(ctx, q, &u, userFrom+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserWithRole is GetUser restricted to one role.
func GetUserWithRole(ctx context.Context, q sqlx.QueryerContext, id string, role models.UserRole) (*models.User, error) {
	var u models.User
	if err := sqlx.GetContext(ctx, q, &u, userFrom+" WHERE id = $1 AND role = $2", id, role); err != nil {
		return nil, err
	}
	return &u, nil
}
