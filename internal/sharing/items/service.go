package items

import (
	"context"
	"time"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Service implements the ItemService interface
type Service struct {
	store    ItemStore
	bookings BookingReader
	users    UserDirectory
}

// NewService creates a new item catalog service
func NewService(store ItemStore, bookings BookingReader, users UserDirectory) *Service {
	return &Service{
		store:    store,
		bookings: bookings,
		users:    users,
	}
}

// ListItems returns the owner's items with booking annotations and comments.
func (s *Service) ListItems(ctx context.Context, ownerID int64, page sharing.Page) ([]*ItemWithBookings, error) {
	list, err := s.store.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	itemIDs := make([]int64, 0, len(list))
	result := make([]*ItemWithBookings, 0, len(list))
	for _, item := range list {
		annotated, err := s.annotate(ctx, item, now)
		if err != nil {
			return nil, err
		}
		result = append(result, annotated)
		itemIDs = append(itemIDs, item.ID)
	}

	comments, err := s.store.ListCommentsForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for _, item := range result {
		if list := comments[item.ID]; list != nil {
			item.Comments = list
		}
	}
	return result, nil
}

// AddItem lists a new item after checking the owner exists.
func (s *Service) AddItem(ctx context.Context, ownerID int64, req *CreateItemRequest) (*Item, error) {
	exists, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, sharing.NewNotFoundError("user", ownerID)
	}

	return s.store.CreateItem(ctx, &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	})
}

// UpdateItem merges supplied fields over the stored item. Only the owner may
// edit.
func (s *Service) UpdateItem(ctx context.Context, callerID, itemID int64, req *UpdateItemRequest) (*Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != callerID {
		return nil, sharing.NewForbiddenError("only the owner can edit an item")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	return s.store.UpdateItem(ctx, item)
}

// GetItem returns an item with comments. Booking annotations are visible to
// the owner only.
func (s *Service) GetItem(ctx context.Context, itemID, requesterID int64) (*ItemWithBookings, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	result := &ItemWithBookings{Item: *item, Comments: []*Comment{}}
	if item.OwnerID == requesterID {
		result, err = s.annotate(ctx, item, time.Now())
		if err != nil {
			return nil, err
		}
	}

	comments, err := s.store.ListComments(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if comments != nil {
		result.Comments = comments
	}
	return result, nil
}

// SearchItems matches available items by substring. An empty text returns an
// empty list without touching storage.
func (s *Service) SearchItems(ctx context.Context, text string, page sharing.Page) ([]*Item, error) {
	if text == "" {
		return []*Item{}, nil
	}
	return s.store.Search(ctx, text, page)
}

// AddComment accepts a comment only from a user with a completed rental of
// the item.
func (s *Service) AddComment(ctx context.Context, authorID, itemID int64, req *CreateCommentRequest) (*Comment, error) {
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	now := time.Now()
	rented, err := s.bookings.HasCompletedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, sharing.NewValidationError("user has not completed a rental of this item")
	}

	author, err := s.users.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	return s.store.CreateComment(ctx, &Comment{
		Text:       req.Text,
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	})
}

func (s *Service) annotate(ctx context.Context, item *Item, now time.Time) (*ItemWithBookings, error) {
	last, err := s.bookings.LastBooking(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextBooking(ctx, item.ID, now)
	if err != nil {
		return nil, err
	}
	return &ItemWithBookings{
		Item:        *item,
		LastBooking: last,
		NextBooking: next,
		Comments:    []*Comment{},
	}, nil
}
