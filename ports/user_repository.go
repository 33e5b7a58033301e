package ports

import (
	"context"

	"clientportal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetUserByID retrieves a user by their ID
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// GetUserByEmail retrieves a user by their (lowercased) email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpsertUserByEmail returns the user with the given email, creating an
	// active record with the given name if none exists
	UpsertUserByEmail(ctx context.Context, email, name string) (*models.User, error)

	// ListUsers returns all users
	ListUsers(ctx context.Context) ([]*models.User, error)
}
