package requests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/items"
)

type mockRequestStore struct {
	mock.Mock
}

func (m *mockRequestStore) CreateRequest(ctx context.Context, request *ItemRequest) (*ItemRequest, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRequest), args.Error(1)
}

func (m *mockRequestStore) GetRequest(ctx context.Context, id int64) (*ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ItemRequest), args.Error(1)
}

func (m *mockRequestStore) ListByRequestor(ctx context.Context, requestorID int64) ([]*ItemRequest, error) {
	args := m.Called(ctx, requestorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ItemRequest), args.Error(1)
}

func (m *mockRequestStore) ListOthers(ctx context.Context, excludeUserID int64, page sharing.Page) ([]*ItemRequest, error) {
	args := m.Called(ctx, excludeUserID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ItemRequest), args.Error(1)
}

type mockItemFinder struct {
	mock.Mock
}

func (m *mockItemFinder) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*items.Item, error) {
	args := m.Called(ctx, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*items.Item), args.Error(1)
}

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func int64Ptr(v int64) *int64 { return &v }

func newTestService() (*Service, *mockRequestStore, *mockItemFinder, *mockUserDirectory) {
	store := new(mockRequestStore)
	finder := new(mockItemFinder)
	directory := new(mockUserDirectory)
	return NewService(store, finder, directory), store, finder, directory
}

func TestAddRequest(t *testing.T) {
	service, store, _, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("CreateRequest", mock.Anything, mock.MatchedBy(func(r *ItemRequest) bool {
		return r.Description == "need a ladder" && r.RequestorID == 2 && !r.Created.IsZero()
	})).Return(&ItemRequest{ID: 1, Description: "need a ladder", RequestorID: 2, Created: time.Now()}, nil)

	request, err := service.AddRequest(context.Background(), 2, &CreateRequest{Description: "need a ladder"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), request.ID)
}

func TestAddRequestUnknownUser(t *testing.T) {
	service, store, _, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(9)).Return(false, nil)

	_, err := service.AddRequest(context.Background(), 9, &CreateRequest{Description: "need a ladder"})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeNotFound, sharing.Type(err))
	store.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
}

func TestListByRequestorGroupsItems(t *testing.T) {
	service, store, finder, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("ListByRequestor", mock.Anything, int64(2)).Return([]*ItemRequest{
		{ID: 1, Description: "ladder", RequestorID: 2},
		{ID: 2, Description: "tent", RequestorID: 2},
	}, nil)
	finder.On("ListByRequestIDs", mock.Anything, []int64{1, 2}).Return([]*items.Item{
		{ID: 10, Name: "Step ladder", RequestID: int64Ptr(1)},
		{ID: 11, Name: "Extension ladder", RequestID: int64Ptr(1)},
	}, nil)

	list, err := service.ListByRequestor(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Items, 2)
	assert.Empty(t, list[1].Items)
}

func TestGetByIDAttachesItems(t *testing.T) {
	service, store, finder, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(3)).Return(true, nil)
	store.On("GetRequest", mock.Anything, int64(1)).Return(&ItemRequest{ID: 1, Description: "ladder", RequestorID: 2}, nil)
	finder.On("ListByRequestIDs", mock.Anything, []int64{1}).Return([]*items.Item{
		{ID: 10, Name: "Step ladder", RequestID: int64Ptr(1)},
	}, nil)

	request, err := service.GetByID(context.Background(), 3, 1)
	require.NoError(t, err)
	require.Len(t, request.Items, 1)
	assert.Equal(t, "Step ladder", request.Items[0].Name)
}

func TestGetByIDUnknownRequest(t *testing.T) {
	service, store, _, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(3)).Return(true, nil)
	store.On("GetRequest", mock.Anything, int64(99)).Return(nil, sharing.NewNotFoundError("request", 99))

	_, err := service.GetByID(context.Background(), 3, 99)
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeNotFound, sharing.Type(err))
}

func TestListOthersPassesWindow(t *testing.T) {
	service, store, finder, directory := newTestService()
	page := sharing.Page{From: 0, Size: 10}
	directory.On("UserExists", mock.Anything, int64(2)).Return(true, nil)
	store.On("ListOthers", mock.Anything, int64(2), page).Return([]*ItemRequest{}, nil)
	finder.On("ListByRequestIDs", mock.Anything, []int64{}).Return([]*items.Item{}, nil)

	list, err := service.ListOthers(context.Background(), 2, page)
	require.NoError(t, err)
	assert.Empty(t, list)
}
