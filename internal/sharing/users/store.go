package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/sharepool/sharepool/internal/sharing"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    int64  `bun:"id,pk,autoincrement" json:"id"`
	Name  string `bun:"name,notnull" json:"name"`
	Email string `bun:"email,notnull,unique" json:"email"`
}

// PostgresStore implements the UserStore interface with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new user store instance
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// ListUsers returns every user in the directory.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]*User, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*User, 0, len(schemas))
	for i := range schemas {
		result = append(result, schemaToUser(schemas[i]))
	}
	return result, nil
}

// GetUser fetches a user by id.
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*User, error) {
	var schema UserSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharing.NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return schemaToUser(schema), nil
}

// CreateUser inserts a user and returns it with the generated id.
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	schema := userToSchema(user)

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, &sharing.ConflictError{Resource: "user", Field: "email", Value: user.Email, Cause: err}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return schemaToUser(schema), nil
}

// UpdateUser writes the already-merged record back.
func (s *PostgresStore) UpdateUser(ctx context.Context, user *User) (*User, error) {
	schema := userToSchema(user)

	res, err := s.db.NewUpdate().
		Model(&schema).
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, &sharing.ConflictError{Resource: "user", Field: "email", Value: user.Email, Cause: err}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sharing.NewNotFoundError("user", user.ID)
	}

	return schemaToUser(schema), nil
}

// DeleteUser removes a user. Idempotent: deleting an absent id is not an error.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UserExists reports whether a user id is present.
func (s *PostgresStore) UserExists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// EmailTaken reports whether a different user already owns the email.
func (s *PostgresStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserSchema)(nil)).
		Where("email = ?", email).
		Where("id != ?", excludeID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func isDuplicateEmail(err error) bool {
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "users_email_key")
}

func schemaToUser(schema UserSchema) *User {
	return &User{
		ID:    schema.ID,
		Name:  schema.Name,
		Email: schema.Email,
	}
}

func userToSchema(user *User) UserSchema {
	return UserSchema{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
