package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/bookings"
	"github.com/sharepool/sharepool/internal/sharing/items"
	"github.com/sharepool/sharepool/internal/sharing/requests"
	"github.com/sharepool/sharepool/internal/sharing/users"
	"github.com/uptrace/bun"
)

// setupTestDB starts a throwaway PostgreSQL container. Skips when Docker is
// not available so the suite stays runnable everywhere.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("sharepool_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("Docker not available, skipping integration test: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(connStr, 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateTables(ctx, db))
	return db
}

func TestPostgresStores(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	userStore := users.NewPostgresStore(db)
	itemStore := items.NewPostgresStore(db)
	bookingStore := bookings.NewPostgresStore(db)
	requestStore := requests.NewPostgresStore(db)

	owner, err := userStore.CreateUser(ctx, &users.User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	booker, err := userStore.CreateUser(ctx, &users.User{Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	t.Run("DuplicateEmailMapsToConflict", func(t *testing.T) {
		_, err := userStore.CreateUser(ctx, &users.User{Name: "Imposter", Email: "ada@example.com"})
		require.Error(t, err)
		assert.Equal(t, sharing.ErrorTypeConflict, sharing.Type(err))
	})

	t.Run("EmailTakenRespectsExclusion", func(t *testing.T) {
		taken, err := userStore.EmailTaken(ctx, "ada@example.com", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = userStore.EmailTaken(ctx, "ada@example.com", owner.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	drill, err := itemStore.CreateItem(ctx, &items.Item{
		Name: "Power drill", Description: "Cordless, two batteries", Available: true, OwnerID: owner.ID,
	})
	require.NoError(t, err)
	_, err = itemStore.CreateItem(ctx, &items.Item{
		Name: "Broken drill", Description: "Parts only", Available: false, OwnerID: owner.ID,
	})
	require.NoError(t, err)

	t.Run("SearchMatchesAvailableItemsOnly", func(t *testing.T) {
		found, err := itemStore.Search(ctx, "DRILL", sharing.All)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, drill.ID, found[0].ID)
	})

	t.Run("BookingStateWindows", func(t *testing.T) {
		now := time.Now()
		seed := []struct {
			start, end time.Time
		}{
			{now.Add(-48 * time.Hour), now.Add(-24 * time.Hour)}, // past
			{now.Add(-time.Hour), now.Add(time.Hour)},            // current
			{now.Add(24 * time.Hour), now.Add(48 * time.Hour)},   // future
		}
		for _, s := range seed {
			_, err := bookingStore.CreateBooking(ctx, &bookings.Booking{
				Start:  s.start,
				End:    s.end,
				Status: bookings.StatusApproved,
				Booker: bookings.UserRef{ID: booker.ID},
				Item:   bookings.ItemRef{ID: drill.ID, Name: drill.Name},
			})
			require.NoError(t, err)
		}

		for _, state := range []bookings.State{bookings.StatePast, bookings.StateCurrent, bookings.StateFuture} {
			list, err := bookingStore.ListByBooker(ctx, booker.ID, state, now, sharing.All)
			require.NoError(t, err)
			assert.Len(t, list, 1, "state %s", state)
			assert.Equal(t, drill.Name, list[0].Item.Name)
		}

		all, err := bookingStore.ListByBooker(ctx, booker.ID, bookings.StateAll, now, sharing.All)
		require.NoError(t, err)
		require.Len(t, all, 3)
		// Newest start first.
		assert.True(t, all[0].Start.After(all[1].Start))
		assert.True(t, all[1].Start.After(all[2].Start))
	})

	t.Run("ConditionalStatusTransition", func(t *testing.T) {
		waiting, err := bookingStore.CreateBooking(ctx, &bookings.Booking{
			Start:  time.Now().Add(72 * time.Hour),
			End:    time.Now().Add(96 * time.Hour),
			Status: bookings.StatusWaiting,
			Booker: bookings.UserRef{ID: booker.ID},
			Item:   bookings.ItemRef{ID: drill.ID, Name: drill.Name},
		})
		require.NoError(t, err)

		landed, err := bookingStore.UpdateStatusIfWaiting(ctx, waiting.ID, bookings.StatusApproved)
		require.NoError(t, err)
		assert.True(t, landed)

		// Second decision arrives late and must not land.
		landed, err = bookingStore.UpdateStatusIfWaiting(ctx, waiting.ID, bookings.StatusRejected)
		require.NoError(t, err)
		assert.False(t, landed)

		got, err := bookingStore.GetBooking(ctx, waiting.ID)
		require.NoError(t, err)
		assert.Equal(t, bookings.StatusApproved, got.Status)
	})

	t.Run("CompletedBookingGatesComments", func(t *testing.T) {
		has, err := bookingStore.HasCompletedBooking(ctx, drill.ID, booker.ID, time.Now())
		require.NoError(t, err)
		assert.True(t, has)

		has, err = bookingStore.HasCompletedBooking(ctx, drill.ID, owner.ID, time.Now())
		require.NoError(t, err)
		assert.False(t, has)

		comment, err := itemStore.CreateComment(ctx, &items.Comment{
			Text: "worked great", ItemID: drill.ID, AuthorID: booker.ID, AuthorName: "Grace", Created: time.Now(),
		})
		require.NoError(t, err)

		list, err := itemStore.ListComments(ctx, drill.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, comment.ID, list[0].ID)
		assert.Equal(t, "Grace", list[0].AuthorName)
	})

	t.Run("RequestsNewestFirst", func(t *testing.T) {
		older, err := requestStore.CreateRequest(ctx, &requests.ItemRequest{
			Description: "need a ladder", RequestorID: booker.ID, Created: time.Now().Add(-time.Hour),
		})
		require.NoError(t, err)
		newer, err := requestStore.CreateRequest(ctx, &requests.ItemRequest{
			Description: "need a tent", RequestorID: booker.ID, Created: time.Now(),
		})
		require.NoError(t, err)

		list, err := requestStore.ListByRequestor(ctx, booker.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)

		others, err := requestStore.ListOthers(ctx, owner.ID, sharing.Page{From: 0, Size: 10})
		require.NoError(t, err)
		assert.Len(t, others, 2)

		none, err := requestStore.ListOthers(ctx, booker.ID, sharing.Page{From: 0, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
