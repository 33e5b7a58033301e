package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetUserByID retrieves a user by their ID
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, name, is_platform_owner, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by their email
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, name, is_platform_owner, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(email))

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpsertUserByEmail returns the user with the given email, creating one if needed
func (r *UserRepositoryImpl) UpsertUserByEmail(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(email)

	existing, err := r.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Name:     name,
		IsActive: true,
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, name, is_platform_owner, is_active, created_at, updated_at)
		VALUES (:id, :email, :name, :is_platform_owner, :is_active, NOW(), NOW())
	`, user)

	if err != nil {
		// Unique violation means another request created the user first
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return r.GetUserByEmail(ctx, email)
		}
		return nil, err
	}

	return r.GetUserByEmail(ctx, email)
}

// ListUsers returns all users ordered by creation time
func (r *UserRepositoryImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, email, name, is_platform_owner, is_active, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)

	if err != nil {
		return nil, err
	}

	return users, nil
}
