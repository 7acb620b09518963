package requests

import (
	"time"

	"github.com/sharepool/sharepool/internal/sharing/items"
)

// ItemRequest is a user's ask for an item nobody has listed yet. It is
// immutable after creation; items created later may declare they fulfill it.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestorId"`
	Created     time.Time `json:"created"`
}

// ItemRequestWithItems is a request together with the items that reference it.
type ItemRequestWithItems struct {
	ItemRequest
	Items []*items.Item `json:"items"`
}

// CreateRequest represents the request to record an ask.
type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}
