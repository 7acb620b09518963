package requests

import (
	"context"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/items"
)

// RequestStore defines the interface for item request storage operations
type RequestStore interface {
	CreateRequest(ctx context.Context, request *ItemRequest) (*ItemRequest, error)
	GetRequest(ctx context.Context, id int64) (*ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, excludeUserID int64, page sharing.Page) ([]*ItemRequest, error)
}

// ItemFinder is the slice of the item catalog the broker needs: the items
// that declare they fulfill a set of requests.
type ItemFinder interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*items.Item, error)
}

// UserDirectory is the slice of the user directory the broker needs.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// RequestService defines the interface for the item request broker
type RequestService interface {
	AddRequest(ctx context.Context, requestorID int64, req *CreateRequest) (*ItemRequest, error)
	ListByRequestor(ctx context.Context, userID int64) ([]*ItemRequestWithItems, error)
	ListOthers(ctx context.Context, userID int64, page sharing.Page) ([]*ItemRequestWithItems, error)
	GetByID(ctx context.Context, userID, requestID int64) (*ItemRequestWithItems, error)
}
