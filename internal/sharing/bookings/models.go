package bookings

import (
	"fmt"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Status is the persisted lifecycle field of a booking. WAITING is the
// initial status; APPROVED and REJECTED are terminal. CANCELED exists in the
// schema but no operation currently produces it.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// State is the client-chosen listing filter, distinct from Status: CURRENT,
// PAST and FUTURE bucket by time, WAITING and REJECTED by exact status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a state query value. The enumeration is case
// sensitive; an empty value defaults to ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch State(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(raw), nil
	}
	return "", sharing.NewValidationError(fmt.Sprintf("Unknown state: %s", raw))
}

// UserRef identifies the booker in a booking response.
type UserRef struct {
	ID int64 `json:"id"`
}

// ItemRef is the trimmed item view embedded in a booking response.
type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Booking is a time-ranged reservation of an item.
type Booking struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Booker UserRef   `json:"booker"`
	Item   ItemRef   `json:"item"`
}

// CreateBookingRequest represents the request to place a booking.
type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}
