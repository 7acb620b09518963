package bookings

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing/items"
)

// ItemBookingReader adapts the booking store to the catalog's BookingReader
// interface so the items package never imports this one.
type ItemBookingReader struct {
	store BookingStore
}

// NewItemBookingReader creates the catalog-facing view over a booking store.
func NewItemBookingReader(store BookingStore) *ItemBookingReader {
	return &ItemBookingReader{store: store}
}

func (r *ItemBookingReader) LastBooking(ctx context.Context, itemID int64, at time.Time) (*items.BookingInfo, error) {
	booking, err := r.store.LastBookingForItem(ctx, itemID, at)
	if err != nil {
		return nil, err
	}
	return toBookingInfo(booking), nil
}

func (r *ItemBookingReader) NextBooking(ctx context.Context, itemID int64, at time.Time) (*items.BookingInfo, error) {
	booking, err := r.store.NextBookingForItem(ctx, itemID, at)
	if err != nil {
		return nil, err
	}
	return toBookingInfo(booking), nil
}

func (r *ItemBookingReader) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error) {
	return r.store.HasCompletedBooking(ctx, itemID, bookerID, before)
}

func toBookingInfo(booking *Booking) *items.BookingInfo {
	if booking == nil {
		return nil
	}
	return &items.BookingInfo{
		ID:       booking.ID,
		BookerID: booking.Booker.ID,
		Start:    booking.Start,
		End:      booking.End,
	}
}
