package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/sharepool/sharepool/internal/sharing"
)

// BookingSchema represents the bookings table schema in PostgreSQL
type BookingSchema struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID       int64     `bun:"id,pk,autoincrement" json:"id"`
	StartAt  time.Time `bun:"start_at,notnull" json:"start_at"`
	EndAt    time.Time `bun:"end_at,notnull" json:"end_at"`
	ItemID   int64     `bun:"item_id,notnull" json:"item_id"`
	BookerID int64     `bun:"booker_id,notnull" json:"booker_id"`
	Status   string    `bun:"status,notnull" json:"status"`
}

// bookingRow is the join shape used by reads: a booking plus its item name.
type bookingRow struct {
	ID       int64     `bun:"id"`
	StartAt  time.Time `bun:"start_at"`
	EndAt    time.Time `bun:"end_at"`
	ItemID   int64     `bun:"item_id"`
	BookerID int64     `bun:"booker_id"`
	Status   string    `bun:"status"`
	ItemName string    `bun:"item_name"`
}

// PostgresStore implements the BookingStore interface with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new booking store instance
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// CreateBooking inserts a booking and returns it with the generated id. The
// item name on the passed booking is preserved in the result.
func (s *PostgresStore) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	schema := BookingSchema{
		StartAt:  booking.Start,
		EndAt:    booking.End,
		ItemID:   booking.Item.ID,
		BookerID: booking.Booker.ID,
		Status:   string(booking.Status),
	}

	_, err := s.db.NewInsert().
		Model(&schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	created := *booking
	created.ID = schema.ID
	return &created, nil
}

// GetBooking fetches a booking with its item name joined in.
func (s *PostgresStore) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	var row bookingRow
	err := s.joinSelect().
		Where("b.id = ?", id).
		Scan(ctx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sharing.NewNotFoundError("booking", id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return rowToBooking(row), nil
}

// UpdateStatusIfWaiting is a conditional transition: the write lands only if
// the booking is still WAITING, which closes the concurrent-approval window.
func (s *PostgresStore) UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*BookingSchema)(nil)).
		Where("id = ?", id).
		Where("status = ?", string(StatusWaiting)).
		Set("status = ?", string(status)).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListByBooker returns the user's own bookings filtered by state, ordered by
// start descending.
func (s *PostgresStore) ListByBooker(ctx context.Context, bookerID int64, state State, at time.Time, page sharing.Page) ([]*Booking, error) {
	q := s.joinSelect().
		Where("b.booker_id = ?", bookerID).
		OrderExpr("b.start_at DESC")
	q = applyState(q, state, at)
	q = applyPage(q, page)

	var rows []bookingRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	return rowsToBookings(rows), nil
}

// ListByOwner returns bookings on items the user owns, filtered by state,
// ordered by start descending.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID int64, state State, at time.Time, page sharing.Page) ([]*Booking, error) {
	q := s.joinSelect().
		Where("i.owner_id = ?", ownerID).
		OrderExpr("b.start_at DESC")
	q = applyState(q, state, at)
	q = applyPage(q, page)

	var rows []bookingRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	return rowsToBookings(rows), nil
}

// LastBookingForItem returns the latest APPROVED booking starting at or
// before the reference time, or nil when there is none.
func (s *PostgresStore) LastBookingForItem(ctx context.Context, itemID int64, at time.Time) (*Booking, error) {
	var row bookingRow
	err := s.joinSelect().
		Where("b.item_id = ?", itemID).
		Where("b.status = ?", string(StatusApproved)).
		Where("b.start_at <= ?", at).
		OrderExpr("b.start_at DESC").
		Limit(1).
		Scan(ctx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last booking: %w", err)
	}
	return rowToBooking(row), nil
}

// NextBookingForItem returns the earliest APPROVED booking starting after
// the reference time, or nil when there is none.
func (s *PostgresStore) NextBookingForItem(ctx context.Context, itemID int64, at time.Time) (*Booking, error) {
	var row bookingRow
	err := s.joinSelect().
		Where("b.item_id = ?", itemID).
		Where("b.status = ?", string(StatusApproved)).
		Where("b.start_at > ?", at).
		OrderExpr("b.start_at ASC").
		Limit(1).
		Scan(ctx, &row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next booking: %w", err)
	}
	return rowToBooking(row), nil
}

// HasCompletedBooking reports whether the user had a booking of the item
// that ended before the reference time.
func (s *PostgresStore) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, before time.Time) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*BookingSchema)(nil)).
		Where("item_id = ?", itemID).
		Where("booker_id = ?", bookerID).
		Where("end_at < ?", before).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check completed booking: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) joinSelect() *bun.SelectQuery {
	return s.db.NewSelect().
		TableExpr("bookings AS b").
		ColumnExpr("b.id, b.start_at, b.end_at, b.item_id, b.booker_id, b.status").
		ColumnExpr("i.name AS item_name").
		Join("JOIN items AS i ON i.id = b.item_id")
}

func applyState(q *bun.SelectQuery, state State, at time.Time) *bun.SelectQuery {
	switch state {
	case StateCurrent:
		return q.Where("b.start_at <= ?", at).Where("b.end_at > ?", at)
	case StatePast:
		return q.Where("b.end_at < ?", at)
	case StateFuture:
		return q.Where("b.start_at > ?", at)
	case StateWaiting:
		return q.Where("b.status = ?", string(StatusWaiting))
	case StateRejected:
		return q.Where("b.status = ?", string(StatusRejected))
	}
	return q
}

func applyPage(q *bun.SelectQuery, page sharing.Page) *bun.SelectQuery {
	q = q.Offset(page.From)
	if page.Bounded() {
		q = q.Limit(page.Size)
	}
	return q
}

func rowToBooking(row bookingRow) *Booking {
	return &Booking{
		ID:     row.ID,
		Start:  row.StartAt,
		End:    row.EndAt,
		Status: Status(row.Status),
		Booker: UserRef{ID: row.BookerID},
		Item:   ItemRef{ID: row.ItemID, Name: row.ItemName},
	}
}

func rowsToBookings(rows []bookingRow) []*Booking {
	result := make([]*Booking, 0, len(rows))
	for i := range rows {
		result = append(result, rowToBooking(rows[i]))
	}
	return result
}
