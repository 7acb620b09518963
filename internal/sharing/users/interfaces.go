package users

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

// UserService defines the interface for user directory operations
type UserService interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	AddUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}
