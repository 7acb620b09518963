package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharepool/sharepool/internal/sharing"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) ListUsers(ctx context.Context) ([]*User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *mockUserStore) GetUser(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserStore) UpdateUser(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserStore) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserStore) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestAddUser(t *testing.T) {
	store := new(mockUserStore)
	store.On("EmailTaken", mock.Anything, "ada@example.com", int64(0)).Return(false, nil)
	store.On("CreateUser", mock.Anything, &User{Name: "Ada", Email: "ada@example.com"}).
		Return(&User{ID: 1, Name: "Ada", Email: "ada@example.com"}, nil)

	service := NewService(store)
	user, err := service.AddUser(context.Background(), &CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	store.AssertExpectations(t)
}

func TestAddUserDuplicateEmail(t *testing.T) {
	store := new(mockUserStore)
	store.On("EmailTaken", mock.Anything, "dup@example.com", int64(0)).Return(true, nil)

	service := NewService(store)
	_, err := service.AddUser(context.Background(), &CreateUserRequest{Name: "Ada", Email: "dup@example.com"})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeConflict, sharing.Type(err))
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserEmailOnlyPreservesName(t *testing.T) {
	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, int64(3)).Return(&User{ID: 3, Name: "Ada", Email: "old@example.com"}, nil)
	store.On("EmailTaken", mock.Anything, "new@example.com", int64(3)).Return(false, nil)
	store.On("UpdateUser", mock.Anything, &User{ID: 3, Name: "Ada", Email: "new@example.com"}).
		Return(&User{ID: 3, Name: "Ada", Email: "new@example.com"}, nil)

	service := NewService(store)
	user, err := service.UpdateUser(context.Background(), 3, &UpdateUserRequest{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "new@example.com", user.Email)
	store.AssertExpectations(t)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, int64(3)).Return(&User{ID: 3, Name: "Ada", Email: "old@example.com"}, nil)
	store.On("EmailTaken", mock.Anything, "taken@example.com", int64(3)).Return(true, nil)

	service := NewService(store)
	_, err := service.UpdateUser(context.Background(), 3, &UpdateUserRequest{Email: strPtr("taken@example.com")})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeConflict, sharing.Type(err))
	store.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserUnknownUser(t *testing.T) {
	store := new(mockUserStore)
	store.On("GetUser", mock.Anything, int64(99)).Return(nil, sharing.NewNotFoundError("user", 99))

	service := NewService(store)
	_, err := service.UpdateUser(context.Background(), 99, &UpdateUserRequest{Name: strPtr("X")})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeNotFound, sharing.Type(err))
}
