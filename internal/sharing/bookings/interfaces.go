package bookings

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/items"
)

// BookingStore defines the interface for booking storage operations
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	// UpdateStatusIfWaiting transitions the booking only when it is still
	// WAITING, reporting whether the write landed.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error)
	ListByBooker(ctx context.Context, bookerID int64, state State, at time.Time, page sharing.Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state State, at time.Time, page sharing.Page) ([]*Booking, error)
	LastBookingForItem(ctx context.Context, itemID int64, at time.Time) (*Booking, error)
	NextBookingForItem(ctx context.Context, itemID int64, at time.Time) (*Booking, error)
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error)
}

// ItemCatalog is the slice of the item catalog the rules engine needs.
type ItemCatalog interface {
	GetItem(ctx context.Context, id int64) (*items.Item, error)
	OwnerHasItems(ctx context.Context, ownerID int64) (bool, error)
}

// UserDirectory is the slice of the user directory the rules engine needs.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// BookingService defines the interface for the booking rules engine
type BookingService interface {
	AddBooking(ctx context.Context, bookerID int64, req *CreateBookingRequest) (*Booking, error)
	ApproveStatus(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*Booking, error)
	ListByBooker(ctx context.Context, userID int64, state State, page sharing.Page) ([]*Booking, error)
	ListByOwnedItems(ctx context.Context, userID int64, state State, page sharing.Page) ([]*Booking, error)
}
