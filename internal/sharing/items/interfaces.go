package items

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/users"
)

// ItemStore defines the interface for item and comment storage operations
type ItemStore interface {
	ListByOwner(ctx context.Context, ownerID int64, page sharing.Page) ([]*Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) (*Item, error)
	Search(ctx context.Context, text string, page sharing.Page) ([]*Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	CreateComment(ctx context.Context, comment *Comment) (*Comment, error)
	ListComments(ctx context.Context, itemID int64) ([]*Comment, error)
	ListCommentsForItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error)
}

// BookingReader is the slice of the booking engine the catalog needs:
// neighbouring approved bookings for annotation and the completed-rental
// check that gates comments.
type BookingReader interface {
	LastBooking(ctx context.Context, itemID int64, at time.Time) (*BookingInfo, error)
	NextBooking(ctx context.Context, itemID int64, at time.Time) (*BookingInfo, error)
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error)
}

// UserDirectory is the slice of the user directory the catalog needs.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	GetUser(ctx context.Context, id int64) (*users.User, error)
}

// ItemService defines the interface for item catalog operations
type ItemService interface {
	ListItems(ctx context.Context, ownerID int64, page sharing.Page) ([]*ItemWithBookings, error)
	AddItem(ctx context.Context, ownerID int64, req *CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, callerID, itemID int64, req *UpdateItemRequest) (*Item, error)
	GetItem(ctx context.Context, itemID, requesterID int64) (*ItemWithBookings, error)
	SearchItems(ctx context.Context, text string, page sharing.Page) ([]*Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, req *CreateCommentRequest) (*Comment, error)
}
