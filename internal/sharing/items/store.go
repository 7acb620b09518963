package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/sharepool/sharepool/internal/sharing"
)

// ItemSchema represents the items table schema in PostgreSQL
type ItemSchema struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	Description string `bun:"description,notnull" json:"description"`
	Available   bool   `bun:"available,notnull" json:"available"`
	OwnerID     int64  `bun:"owner_id,notnull" json:"owner_id"`
	RequestID   *int64 `bun:"request_id,nullzero" json:"request_id,omitempty"`
}

// CommentSchema represents the comments table schema in PostgreSQL.
// The author name is resolved at write time so listing comments needs no join.
type CommentSchema struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Text       string    `bun:"text,notnull" json:"text"`
	ItemID     int64     `bun:"item_id,notnull" json:"item_id"`
	AuthorID   int64     `bun:"author_id,notnull" json:"author_id"`
	AuthorName string    `bun:"author_name,notnull" json:"author_name"`
	Created    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// PostgresStore implements the ItemStore interface with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new item store instance
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// ListByOwner returns the owner's items ordered by id ascending.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID int64, page sharing.Page) ([]*Item, error) {
	var schemas []ItemSchema
	q := s.db.NewSelect().
		Model(&schemas).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.From)
	if page.Bounded() {
		q = q.Limit(page.Size)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return schemasToItems(schemas), nil
}

// GetItem fetches an item by id.
func (s *PostgresStore) GetItem(ctx context.Context, id int64) (*Item, error) {
	var schema ItemSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharing.NewNotFoundError("item", id)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return schemaToItem(schema), nil
}

// CreateItem inserts an item and returns it with the generated id.
func (s *PostgresStore) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	schema := itemToSchema(item)

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return schemaToItem(schema), nil
}

// UpdateItem writes the already-merged record back.
func (s *PostgresStore) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	schema := itemToSchema(item)

	res, err := s.db.NewUpdate().
		Model(&schema).
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sharing.NewNotFoundError("item", item.ID)
	}
	return schemaToItem(schema), nil
}

// Search matches available items whose name or description contains the text,
// case-insensitively, ordered by id ascending.
func (s *PostgresStore) Search(ctx context.Context, text string, page sharing.Page) ([]*Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"

	var schemas []ItemSchema
	q := s.db.NewSelect().
		Model(&schemas).
		Where("(lower(name) LIKE ? OR lower(description) LIKE ?)", pattern, pattern).
		Where("available = TRUE").
		Order("id ASC").
		Offset(page.From)
	if page.Bounded() {
		q = q.Limit(page.Size)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return schemasToItems(schemas), nil
}

// OwnerHasItems reports whether the user has listed at least one item.
func (s *PostgresStore) OwnerHasItems(ctx context.Context, ownerID int64) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*ItemSchema)(nil)).
		Where("owner_id = ?", ownerID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check owned items: %w", err)
	}
	return exists, nil
}

// ListByRequestIDs returns items declaring they fulfill any of the given
// requests.
func (s *PostgresStore) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	var schemas []ItemSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Where("request_id IN (?)", bun.In(requestIDs)).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by request: %w", err)
	}
	return schemasToItems(schemas), nil
}

// CreateComment inserts a comment and returns it with the generated id.
func (s *PostgresStore) CreateComment(ctx context.Context, comment *Comment) (*Comment, error) {
	schema := commentToSchema(comment)

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return schemaToComment(schema), nil
}

// ListComments returns an item's comments ordered by creation time.
func (s *PostgresStore) ListComments(ctx context.Context, itemID int64) ([]*Comment, error) {
	var schemas []CommentSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	result := make([]*Comment, 0, len(schemas))
	for i := range schemas {
		result = append(result, schemaToComment(schemas[i]))
	}
	return result, nil
}

// ListCommentsForItems batch-loads comments for a set of items, keyed by
// item id.
func (s *PostgresStore) ListCommentsForItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error) {
	result := make(map[int64][]*Comment)
	if len(itemIDs) == 0 {
		return result, nil
	}

	var schemas []CommentSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Where("item_id IN (?)", bun.In(itemIDs)).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for items: %w", err)
	}

	for i := range schemas {
		comment := schemaToComment(schemas[i])
		result[comment.ItemID] = append(result[comment.ItemID], comment)
	}
	return result, nil
}

func schemaToItem(schema ItemSchema) *Item {
	return &Item{
		ID:          schema.ID,
		Name:        schema.Name,
		Description: schema.Description,
		Available:   schema.Available,
		OwnerID:     schema.OwnerID,
		RequestID:   schema.RequestID,
	}
}

func itemToSchema(item *Item) ItemSchema {
	return ItemSchema{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		OwnerID:     item.OwnerID,
		RequestID:   item.RequestID,
	}
}

func schemasToItems(schemas []ItemSchema) []*Item {
	result := make([]*Item, 0, len(schemas))
	for i := range schemas {
		result = append(result, schemaToItem(schemas[i]))
	}
	return result
}

func schemaToComment(schema CommentSchema) *Comment {
	return &Comment{
		ID:         schema.ID,
		Text:       schema.Text,
		ItemID:     schema.ItemID,
		AuthorID:   schema.AuthorID,
		AuthorName: schema.AuthorName,
		Created:    schema.Created,
	}
}

func commentToSchema(comment *Comment) CommentSchema {
	return CommentSchema{
		ID:         comment.ID,
		Text:       comment.Text,
		ItemID:     comment.ItemID,
		AuthorID:   comment.AuthorID,
		AuthorName: comment.AuthorName,
		Created:    comment.Created,
	}
}
