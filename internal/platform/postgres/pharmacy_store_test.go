//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/postgres"
	"github.com/phrazzld/pharmacy-api/internal/store"
	"github.com/phrazzld/pharmacy-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreate(
	ctx context.Context,
	t *testing.T,
	s store.PharmacyStore,
	name string,
	lat, lon float64,
) *domain.Pharmacy {
	t.Helper()

	p := &domain.Pharmacy{Name: name, Address: name + " street 1", Latitude: lat, Longitude: lon}
	require.NoError(t, s.Create(ctx, p))
	return p
}

// clearPharmacies empties the table inside the test transaction so results
// do not depend on rows committed by other runs.
func clearPharmacies(t *testing.T, tx *sql.Tx) {
	t.Helper()
	_, err := tx.Exec("DELETE FROM pharmacies")
	require.NoError(t, err)
}

func TestPostgresPharmacyStore_CreateAndGet(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s := postgres.NewPostgresPharmacyStore(tx, nil)
		created := mustCreate(ctx, t, s, "Central", 10.25, 20.5)

		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		got, err := s.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Central", got.Name)
		assert.Equal(t, "Central street 1", got.Address)
		assert.Equal(t, 10.25, got.Latitude)
		assert.Equal(t, 20.5, got.Longitude)
	})
}

func TestPostgresPharmacyStore_CreateRoundsToColumnPrecision(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresPharmacyStore(tx, nil)

		p := mustCreate(ctx, t, s, "Rounded", 10.123, 20.456)
		assert.InDelta(t, 10.12, p.Latitude, 1e-9)
		assert.InDelta(t, 20.46, p.Longitude, 1e-9)
	})
}

func TestPostgresPharmacyStore_CreateOverflow(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresPharmacyStore(tx, nil)

		p := &domain.Pharmacy{Name: "Too far", Address: "x", Latitude: 500, Longitude: 1}
		err := s.Create(context.Background(), p)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresPharmacyStore_Update(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresPharmacyStore(tx, nil)
		p := mustCreate(ctx, t, s, "Before", 1, 1)

		changes := &domain.Pharmacy{Name: "After", Address: "New address", Latitude: 2, Longitude: 3}
		require.NoError(t, s.Update(ctx, p.ID, changes))

		got, err := s.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Name)
		assert.Equal(t, "New address", got.Address)
		assert.Equal(t, 2.0, got.Latitude)
		assert.Equal(t, 3.0, got.Longitude)

		t.Run("missing id is a no-op", func(t *testing.T) {
			require.NoError(t, s.Update(ctx, p.ID+1000, changes))
			_, err := s.GetByID(ctx, p.ID+1000)
			assert.ErrorIs(t, err, store.ErrPharmacyNotFound)
		})
	})
}

func TestPostgresPharmacyStore_DistanceQueries(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		clearPharmacies(t, tx)
		s := postgres.NewPostgresPharmacyStore(tx, nil)

		_, err := s.Nearest(ctx, domain.NewPoint(0, 0))
		assert.ErrorIs(t, err, store.ErrPharmacyNotFound, "empty table has no nearest pharmacy")

		p1 := mustCreate(ctx, t, s, "P1", 0, 0)
		p2 := mustCreate(ctx, t, s, "P2", 3, 4)
		p3 := mustCreate(ctx, t, s, "P3", 10, 10)

		nearest, err := s.Nearest(ctx, domain.NewPoint(1, 1))
		require.NoError(t, err)
		assert.Equal(t, p1.ID, nearest.ID)

		nearest, err = s.Nearest(ctx, domain.NewPoint(3, 3))
		require.NoError(t, err)
		assert.Equal(t, p2.ID, nearest.ID)

		results, err := s.ListByDistance(ctx, domain.NewPoint(0, 0), domain.PageRequest{Number: 1, Size: 15})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, p1.ID, results[0].Pharmacy.ID)
		assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
		assert.Equal(t, p2.ID, results[1].Pharmacy.ID)
		assert.InDelta(t, 5.0, results[1].Distance, 1e-9)
		assert.Equal(t, p3.ID, results[2].Pharmacy.ID)

		page2, err := s.ListByDistance(ctx, domain.NewPoint(0, 0), domain.PageRequest{Number: 2, Size: 2})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, p3.ID, page2[0].Pharmacy.ID)

		total, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}

func TestPostgresPharmacyStore_NearestTieBreaksByID(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		clearPharmacies(t, tx)
		s := postgres.NewPostgresPharmacyStore(tx, nil)

		first := mustCreate(ctx, t, s, "First", 2, 0)
		mustCreate(ctx, t, s, "Second", 0, 2)

		nearest, err := s.Nearest(ctx, domain.NewPoint(0, 0))
		require.NoError(t, err)
		assert.Equal(t, first.ID, nearest.ID)
	})
}

func TestPostgresPharmacyStore_ListAndDelete(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		clearPharmacies(t, tx)
		s := postgres.NewPostgresPharmacyStore(tx, nil)

		a := mustCreate(ctx, t, s, "A", 1, 1)
		b := mustCreate(ctx, t, s, "B", 2, 2)

		list, err := s.List(ctx, domain.PageRequest{Number: 1, Size: 10})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, a.ID, list[0].ID)
		assert.Equal(t, b.ID, list[1].ID)

		empty, err := s.List(ctx, domain.PageRequest{Number: 3, Size: 10})
		require.NoError(t, err)
		assert.Empty(t, empty)

		require.NoError(t, s.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.Delete(ctx, a.ID), store.ErrPharmacyNotFound)

		_, err = s.GetByID(ctx, a.ID)
		assert.ErrorIs(t, err, store.ErrPharmacyNotFound)
	})
}
