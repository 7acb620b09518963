package users

import (
	"context"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Service implements the UserService interface
type Service struct {
	store UserStore
}

// NewService creates a new user directory service
func NewService(store UserStore) *Service {
	return &Service{
		store: store,
	}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

// GetUser returns a single user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.store.GetUser(ctx, id)
}

// AddUser registers a new user. Email uniqueness is checked up front and
// backed by the unique constraint.
func (s *Service) AddUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	taken, err := s.store.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, sharing.NewConflictError("user", "email", req.Email)
	}

	return s.store.CreateUser(ctx, &User{
		Name:  req.Name,
		Email: req.Email,
	})
}

// UpdateUser merges supplied fields over the stored record. Nil fields keep
// their prior values.
func (s *Service) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		taken, err := s.store.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, sharing.NewConflictError("user", "email", *req.Email)
		}
		user.Email = *req.Email
	}

	return s.store.UpdateUser(ctx, user)
}

// DeleteUser removes a user by id.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}
