package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/sharepool/sharepool/internal/sharing/bookings"
	"github.com/sharepool/sharepool/internal/sharing/items"
	"github.com/sharepool/sharepool/internal/sharing/requests"
	"github.com/sharepool/sharepool/internal/sharing/users"
)

// Open initializes the PostgreSQL database connection
func Open(databaseURL string, maxConnections int) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}

// CreateTables creates all tables the sharing service needs
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*users.UserSchema)(nil),
		(*requests.RequestSchema)(nil),
		(*items.ItemSchema)(nil),
		(*bookings.BookingSchema)(nil),
		(*items.CommentSchema)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", model, err)
		}
	}

	return nil
}
