package items

import (
	"time"
)

// Item is a listed thing that can be booked. Available controls whether new
// bookings are accepted. RequestID links the item to the ask it fulfills.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingInfo is the owner-visible annotation of an item's neighbouring
// approved bookings.
type BookingInfo struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Comment is feedback left by a user who completed a rental of the item.
type Comment struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	ItemID     int64     `json:"itemId"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemWithBookings is an item annotated with its last and next approved
// booking (owner-only) and its comments.
type ItemWithBookings struct {
	Item
	LastBooking *BookingInfo `json:"lastBooking,omitempty"`
	NextBooking *BookingInfo `json:"nextBooking,omitempty"`
	Comments    []*Comment   `json:"comments"`
}

// CreateItemRequest represents the request to list an item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest is a partial update: nil fields keep their stored value.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest represents the request to comment on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
