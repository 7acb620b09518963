package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sharepool/sharepool/internal/sharing"
)

// RequestSchema represents the item_requests table schema in PostgreSQL
type RequestSchema struct {
	bun.BaseModel `bun:"table:item_requests,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Description string    `bun:"description,notnull" json:"description"`
	RequestorID int64     `bun:"requestor_id,notnull" json:"requestor_id"`
	Created     time.Time `bun:"created_at,notnull" json:"created_at"`
}

// PostgresStore implements the RequestStore interface with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new item request store instance
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// CreateRequest inserts a request and returns it with the generated id.
func (s *PostgresStore) CreateRequest(ctx context.Context, request *ItemRequest) (*ItemRequest, error) {
	schema := requestToSchema(request)

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}
	return schemaToRequest(schema), nil
}

// GetRequest fetches a request by id.
func (s *PostgresStore) GetRequest(ctx context.Context, id int64) (*ItemRequest, error) {
	var schema RequestSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharing.NewNotFoundError("request", id)
		}
		return nil, fmt.Errorf("failed to get item request: %w", err)
	}
	return schemaToRequest(schema), nil
}

// ListByRequestor returns the user's own requests, newest first.
func (s *PostgresStore) ListByRequestor(ctx context.Context, requestorID int64) ([]*ItemRequest, error) {
	var schemas []RequestSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Where("requestor_id = ?", requestorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return schemasToRequests(schemas), nil
}

// ListOthers returns requests authored by everyone else, newest first.
func (s *PostgresStore) ListOthers(ctx context.Context, excludeUserID int64, page sharing.Page) ([]*ItemRequest, error) {
	var schemas []RequestSchema
	q := s.db.NewSelect().
		Model(&schemas).
		Where("requestor_id != ?", excludeUserID).
		Order("created_at DESC").
		Offset(page.From)
	if page.Bounded() {
		q = q.Limit(page.Size)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list other item requests: %w", err)
	}
	return schemasToRequests(schemas), nil
}

func schemaToRequest(schema RequestSchema) *ItemRequest {
	return &ItemRequest{
		ID:          schema.ID,
		Description: schema.Description,
		RequestorID: schema.RequestorID,
		Created:     schema.Created,
	}
}

func requestToSchema(request *ItemRequest) RequestSchema {
	return RequestSchema{
		ID:          request.ID,
		Description: request.Description,
		RequestorID: request.RequestorID,
		Created:     request.Created,
	}
}

func schemasToRequests(schemas []RequestSchema) []*ItemRequest {
	result := make([]*ItemRequest, 0, len(schemas))
	for i := range schemas {
		result = append(result, schemaToRequest(schemas[i]))
	}
	return result
}
