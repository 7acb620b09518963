package requests

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/items"
)

// Service implements the RequestService interface
type Service struct {
	store RequestStore
	items ItemFinder
	users UserDirectory
}

// NewService creates a new item request broker
func NewService(store RequestStore, items ItemFinder, users UserDirectory) *Service {
	return &Service{
		store: store,
		items: items,
		users: users,
	}
}

// AddRequest records a new ask for the user.
func (s *Service) AddRequest(ctx context.Context, requestorID int64, req *CreateRequest) (*ItemRequest, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	return s.store.CreateRequest(ctx, &ItemRequest{
		Description: req.Description,
		RequestorID: requestorID,
		Created:     time.Now(),
	})
}

// ListByRequestor returns the user's requests with their fulfilling items.
func (s *Service) ListByRequestor(ctx context.Context, userID int64) ([]*ItemRequestWithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.store.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

// ListOthers returns requests authored by other users, windowed.
func (s *Service) ListOthers(ctx context.Context, userID int64, page sharing.Page) ([]*ItemRequestWithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.store.ListOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, list)
}

// GetByID returns a single request with its fulfilling items.
func (s *Service) GetByID(ctx context.Context, userID, requestID int64) (*ItemRequestWithItems, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	attached, err := s.attachItems(ctx, []*ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return attached[0], nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return sharing.NewNotFoundError("user", userID)
	}
	return nil
}

// attachItems batch-loads the items referencing the requests and groups them.
func (s *Service) attachItems(ctx context.Context, list []*ItemRequest) ([]*ItemRequestWithItems, error) {
	ids := make([]int64, 0, len(list))
	for _, request := range list {
		ids = append(ids, request.ID)
	}

	fulfilling, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*items.Item)
	for _, item := range fulfilling {
		if item.RequestID == nil {
			continue
		}
		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
	}

	result := make([]*ItemRequestWithItems, 0, len(list))
	for _, request := range list {
		withItems := &ItemRequestWithItems{ItemRequest: *request, Items: []*items.Item{}}
		if matched := byRequest[request.ID]; matched != nil {
			withItems.Items = matched
		}
		result = append(result, withItems)
	}
	return result, nil
}
