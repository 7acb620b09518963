package items

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/users"
)

type mockItemStore struct {
	mock.Mock
}

func (m *mockItemStore) ListByOwner(ctx context.Context, ownerID int64, page sharing.Page) ([]*Item, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockItemStore) GetItem(ctx context.Context, id int64) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockItemStore) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockItemStore) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockItemStore) Search(ctx context.Context, text string, page sharing.Page) ([]*Item, error) {
	args := m.Called(ctx, text, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockItemStore) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	args := m.Called(ctx, requestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockItemStore) CreateComment(ctx context.Context, comment *Comment) (*Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *mockItemStore) ListComments(ctx context.Context, itemID int64) ([]*Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Comment), args.Error(1)
}

func (m *mockItemStore) ListCommentsForItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]*Comment), args.Error(1)
}

type mockBookingReader struct {
	mock.Mock
}

func (m *mockBookingReader) LastBooking(ctx context.Context, itemID int64, at time.Time) (*BookingInfo, error) {
	args := m.Called(ctx, itemID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingInfo), args.Error(1)
}

func (m *mockBookingReader) NextBooking(ctx context.Context, itemID int64, at time.Time) (*BookingInfo, error) {
	args := m.Called(ctx, itemID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingInfo), args.Error(1)
}

func (m *mockBookingReader) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error) {
	args := m.Called(ctx, itemID, bookerID, before)
	return args.Bool(0), args.Error(1)
}

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserDirectory) GetUser(ctx context.Context, id int64) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func newTestService() (*Service, *mockItemStore, *mockBookingReader, *mockUserDirectory) {
	store := new(mockItemStore)
	bookings := new(mockBookingReader)
	directory := new(mockUserDirectory)
	return NewService(store, bookings, directory), store, bookings, directory
}

func TestAddItem(t *testing.T) {
	service, store, _, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(1)).Return(true, nil)
	store.On("CreateItem", mock.Anything, &Item{Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}).
		Return(&Item{ID: 10, Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}, nil)

	item, err := service.AddItem(context.Background(), 1, &CreateItemRequest{
		Name:        "Drill",
		Description: "Cordless",
		Available:   boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)
}

func TestAddItemUnknownOwner(t *testing.T) {
	service, store, _, directory := newTestService()
	directory.On("UserExists", mock.Anything, int64(9)).Return(false, nil)

	_, err := service.AddItem(context.Background(), 9, &CreateItemRequest{
		Name:        "Drill",
		Description: "Cordless",
		Available:   boolPtr(true),
	})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeNotFound, sharing.Type(err))
	store.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
}

func TestUpdateItemForbiddenForNonOwner(t *testing.T) {
	service, store, _, _ := newTestService()
	store.On("GetItem", mock.Anything, int64(10)).Return(&Item{ID: 10, OwnerID: 1}, nil)

	_, err := service.UpdateItem(context.Background(), 2, 10, &UpdateItemRequest{Name: strPtr("New")})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeForbidden, sharing.Type(err))
	store.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}

func TestUpdateItemMergesFields(t *testing.T) {
	service, store, _, _ := newTestService()
	store.On("GetItem", mock.Anything, int64(10)).
		Return(&Item{ID: 10, Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}, nil)
	store.On("UpdateItem", mock.Anything, &Item{ID: 10, Name: "Drill", Description: "Cordless", Available: false, OwnerID: 1}).
		Return(&Item{ID: 10, Name: "Drill", Description: "Cordless", Available: false, OwnerID: 1}, nil)

	item, err := service.UpdateItem(context.Background(), 1, 10, &UpdateItemRequest{Available: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Drill", item.Name)
	assert.False(t, item.Available)
}

func TestGetItemAnnotatesForOwnerOnly(t *testing.T) {
	service, store, bookings, _ := newTestService()
	item := &Item{ID: 10, Name: "Drill", OwnerID: 1}
	last := &BookingInfo{ID: 5, BookerID: 2}
	store.On("GetItem", mock.Anything, int64(10)).Return(item, nil)
	store.On("ListComments", mock.Anything, int64(10)).Return([]*Comment{}, nil)
	bookings.On("LastBooking", mock.Anything, int64(10), mock.Anything).Return(last, nil)
	bookings.On("NextBooking", mock.Anything, int64(10), mock.Anything).Return(nil, nil)

	result, err := service.GetItem(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, last, result.LastBooking)
	assert.Nil(t, result.NextBooking)
}

func TestGetItemHidesAnnotationsFromStrangers(t *testing.T) {
	service, store, bookings, _ := newTestService()
	store.On("GetItem", mock.Anything, int64(10)).Return(&Item{ID: 10, Name: "Drill", OwnerID: 1}, nil)
	store.On("ListComments", mock.Anything, int64(10)).Return([]*Comment{}, nil)

	result, err := service.GetItem(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Nil(t, result.LastBooking)
	assert.Nil(t, result.NextBooking)
	bookings.AssertNotCalled(t, "LastBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchItemsEmptyTextSkipsStorage(t *testing.T) {
	service, store, _, _ := newTestService()

	result, err := service.SearchItems(context.Background(), "", sharing.All)
	require.NoError(t, err)
	assert.Empty(t, result)
	store.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchItemsDelegates(t *testing.T) {
	service, store, _, _ := newTestService()
	found := []*Item{{ID: 10, Name: "Bicycle", Available: true}}
	store.On("Search", mock.Anything, "cycle", sharing.All).Return(found, nil)

	result, err := service.SearchItems(context.Background(), "cycle", sharing.All)
	require.NoError(t, err)
	assert.Equal(t, found, result)
}

func TestAddCommentRequiresCompletedRental(t *testing.T) {
	service, store, bookings, _ := newTestService()
	store.On("GetItem", mock.Anything, int64(10)).Return(&Item{ID: 10, OwnerID: 1}, nil)
	bookings.On("HasCompletedBooking", mock.Anything, int64(10), int64(2), mock.Anything).Return(false, nil)

	_, err := service.AddComment(context.Background(), 2, 10, &CreateCommentRequest{Text: "great"})
	require.Error(t, err)
	assert.Equal(t, sharing.ErrorTypeValidation, sharing.Type(err))
	store.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestAddCommentFromPastRenter(t *testing.T) {
	service, store, bookings, directory := newTestService()
	store.On("GetItem", mock.Anything, int64(10)).Return(&Item{ID: 10, OwnerID: 1}, nil)
	bookings.On("HasCompletedBooking", mock.Anything, int64(10), int64(2), mock.Anything).Return(true, nil)
	directory.On("GetUser", mock.Anything, int64(2)).Return(&users.User{ID: 2, Name: "Grace"}, nil)
	store.On("CreateComment", mock.Anything, mock.MatchedBy(func(c *Comment) bool {
		return c.Text == "great" && c.ItemID == 10 && c.AuthorID == 2 && c.AuthorName == "Grace"
	})).Return(&Comment{ID: 1, Text: "great", ItemID: 10, AuthorID: 2, AuthorName: "Grace"}, nil)

	comment, err := service.AddComment(context.Background(), 2, 10, &CreateCommentRequest{Text: "great"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", comment.AuthorName)
}

func TestListItemsAttachesComments(t *testing.T) {
	service, store, bookings, _ := newTestService()
	list := []*Item{{ID: 10, OwnerID: 1}, {ID: 11, OwnerID: 1}}
	store.On("ListByOwner", mock.Anything, int64(1), sharing.All).Return(list, nil)
	bookings.On("LastBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	bookings.On("NextBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	store.On("ListCommentsForItems", mock.Anything, []int64{10, 11}).Return(map[int64][]*Comment{
		11: {{ID: 3, Text: "solid", ItemID: 11}},
	}, nil)

	result, err := service.ListItems(context.Background(), 1, sharing.All)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Empty(t, result[0].Comments)
	require.Len(t, result[1].Comments, 1)
	assert.Equal(t, "solid", result[1].Comments[0].Text)
}
