package bookings

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Service implements the BookingService interface
type Service struct {
	store BookingStore
	items ItemCatalog
	users UserDirectory
}

// NewService creates a new booking rules engine
func NewService(store BookingStore, items ItemCatalog, users UserDirectory) *Service {
	return &Service{
		store: store,
		items: items,
		users: users,
	}
}

// AddBooking validates and persists a new booking with status WAITING.
// Checks run in a fixed order: booker, item, self-booking, availability,
// dates.
func (s *Service) AddBooking(ctx context.Context, bookerID int64, req *CreateBookingRequest) (*Booking, error) {
	exists, err := s.users.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharing.NewNotFoundError("user", bookerID)
	}

	item, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, sharing.NewNotFoundMessage("booking your own item is meaningless")
	}
	if !item.Available {
		return nil, sharing.NewValidationError("item is not available for booking")
	}

	now := time.Now()
	if !req.End.After(now) || !req.End.After(req.Start) || req.Start.Equal(req.End) || !req.Start.After(now) {
		return nil, sharing.NewValidationError("invalid dates")
	}

	return s.store.CreateBooking(ctx, &Booking{
		Start:  req.Start,
		End:    req.End,
		Status: StatusWaiting,
		Booker: UserRef{ID: bookerID},
		Item:   ItemRef{ID: item.ID, Name: item.Name},
	})
}

// ApproveStatus moves a WAITING booking to APPROVED or REJECTED. Only the
// item owner may decide, and an APPROVED booking can never transition again.
func (s *Service) ApproveStatus(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == StatusApproved {
		return nil, sharing.NewValidationError("booking is already approved")
	}

	item, err := s.items.GetItem(ctx, booking.Item.ID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, sharing.NewForbiddenError("only the item owner can approve a booking")
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	landed, err := s.store.UpdateStatusIfWaiting(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !landed {
		// Lost the race against a concurrent decision.
		return nil, sharing.NewValidationError("booking is no longer waiting for approval")
	}

	booking.Status = status
	return booking, nil
}

// GetBooking returns a booking to its item owner or its booker.
func (s *Service) GetBooking(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharing.NewNotFoundError("user", userID)
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, booking.Item.ID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID && booking.Booker.ID != userID {
		return nil, sharing.NewForbiddenError("only the item owner or the booker can view a booking")
	}
	return booking, nil
}

// ListByBooker returns the user's bookings filtered by state.
func (s *Service) ListByBooker(ctx context.Context, userID int64, state State, page sharing.Page) ([]*Booking, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharing.NewNotFoundError("user", userID)
	}

	return s.store.ListByBooker(ctx, userID, state, time.Now(), page)
}

// ListByOwnedItems returns bookings on the user's items filtered by state.
// A user who owns no items gets NotFound.
func (s *Service) ListByOwnedItems(ctx context.Context, userID int64, state State, page sharing.Page) ([]*Booking, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharing.NewNotFoundError("user", userID)
	}

	hasItems, err := s.items.OwnerHasItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !hasItems {
		return nil, sharing.NewNotFoundMessage("user owns no items")
	}

	return s.store.ListByOwner(ctx, userID, state, time.Now(), page)
}
