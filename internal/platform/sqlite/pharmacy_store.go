package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

const pharmacyEntity = "pharmacy"

const selectPharmacy = `SELECT id, name, address, latitude, longitude, created_at, updated_at FROM pharmacies`

// squaredDistance orders rows by planar distance without needing SQL math
// functions. It binds lat, lat, lon, lon.
const squaredDistance = `((? - latitude) * (? - latitude) + (? - longitude) * (? - longitude))`

// pharmacyRow is the database shape of a pharmacy. Timestamps are stored as
// RFC 3339 text.
type pharmacyRow struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Address   string  `db:"address"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

func (r pharmacyRow) toDomain() (*domain.Pharmacy, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", r.CreatedAt, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", r.UpdatedAt, err)
	}

	return &domain.Pharmacy{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// SQLitePharmacyStore implements store.PharmacyStore on SQLite.
type SQLitePharmacyStore struct {
	db     sqlx.ExtContext
	mapper *reflectx.Mapper
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLitePharmacyStore creates a store over an open database.
// If logger is nil, a default logger will be used.
func NewSQLitePharmacyStore(db *sqlx.DB, logger *slog.Logger) *SQLitePharmacyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLitePharmacyStore{
		db:     db,
		mapper: db.Mapper,
		logger: logger.With(slog.String("component", "pharmacy_store"), slog.String("driver", DriverName)),
		now:    time.Now,
	}
}

var _ store.PharmacyStore = (*SQLitePharmacyStore)(nil)

// Create implements store.PharmacyStore.Create.
// Coordinates are rounded to two decimals and the stored row is read back,
// so pharmacy reflects what was persisted.
func (s *SQLitePharmacyStore) Create(ctx context.Context, pharmacy *domain.Pharmacy) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := formatTime(s.now())
	var row pharmacyRow
	err := sqlx.GetContext(
		ctx,
		s.db,
		&row,
		`INSERT INTO pharmacies (name, address, latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ROUND(?, 2), ROUND(?, 2), ?, ?)
		RETURNING id, name, address, latitude, longitude, created_at, updated_at`,
		pharmacy.Name,
		pharmacy.Address,
		pharmacy.Latitude,
		pharmacy.Longitude,
		now,
		now,
	)
	if err != nil {
		log.Error("failed to create pharmacy", slog.String("error", err.Error()))
		return store.NewStoreError(pharmacyEntity, "create", "failed to insert pharmacy", MapError(err))
	}

	created, err := row.toDomain()
	if err != nil {
		return store.NewStoreError(pharmacyEntity, "create", "failed to decode pharmacy", err)
	}
	*pharmacy = *created

	log.Info("pharmacy created successfully", slog.Int64("pharmacy_id", pharmacy.ID))
	return nil
}

// Update implements store.PharmacyStore.Update. Zero affected rows is not an error.
func (s *SQLitePharmacyStore) Update(ctx context.Context, id int64, pharmacy *domain.Pharmacy) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE pharmacies
		SET name = ?, address = ?, latitude = ROUND(?, 2), longitude = ROUND(?, 2), updated_at = ?
		WHERE id = ?`,
		pharmacy.Name,
		pharmacy.Address,
		pharmacy.Latitude,
		pharmacy.Longitude,
		formatTime(s.now()),
		id,
	)
	if err != nil {
		log.Error("failed to update pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return store.NewStoreError(pharmacyEntity, "update", "failed to update pharmacy", MapError(err))
	}

	log.Debug("pharmacy update executed", slog.Int64("pharmacy_id", id))
	return nil
}

// GetByID implements store.PharmacyStore.GetByID.
func (s *SQLitePharmacyStore) GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row pharmacyRow
	err := sqlx.GetContext(ctx, s.db, &row, selectPharmacy+` WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("pharmacy not found", slog.Int64("pharmacy_id", id))
			return nil, store.ErrPharmacyNotFound
		}
		log.Error("failed to get pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return nil, store.NewStoreError(pharmacyEntity, "get", "failed to query pharmacy", MapError(err))
	}

	return row.toDomain()
}

// List implements store.PharmacyStore.List.
func (s *SQLitePharmacyStore) List(
	ctx context.Context,
	page domain.PageRequest,
) ([]*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var rows []pharmacyRow
	err := sqlx.SelectContext(
		ctx,
		s.db,
		&rows,
		selectPharmacy+` ORDER BY id LIMIT ? OFFSET ?`,
		page.Size,
		page.Offset(),
	)
	if err != nil {
		log.Error("failed to list pharmacies", slog.String("error", err.Error()))
		return nil, store.NewStoreError(pharmacyEntity, "list", "failed to query pharmacies", MapError(err))
	}

	pharmacies := make([]*domain.Pharmacy, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError(pharmacyEntity, "list", "failed to decode pharmacy", err)
		}
		pharmacies = append(pharmacies, p)
	}
	return pharmacies, nil
}

// Count implements store.PharmacyStore.Count.
func (s *SQLitePharmacyStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, s.db, &total, `SELECT COUNT(*) FROM pharmacies`); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).
			Error("failed to count pharmacies", slog.String("error", err.Error()))
		return 0, store.NewStoreError(pharmacyEntity, "count", "failed to count pharmacies", MapError(err))
	}
	return total, nil
}

// ListByDistance implements store.PharmacyStore.ListByDistance.
func (s *SQLitePharmacyStore) ListByDistance(
	ctx context.Context,
	point domain.Point,
	page domain.PageRequest,
) ([]*domain.PharmacyDistance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := selectPharmacy + ` ORDER BY ` + squaredDistance + `, id LIMIT ? OFFSET ?`

	var rows []pharmacyRow
	err := sqlx.SelectContext(
		ctx,
		s.db,
		&rows,
		query,
		point.Latitude, point.Latitude, point.Longitude, point.Longitude,
		page.Size,
		page.Offset(),
	)
	if err != nil {
		log.Error("failed to list pharmacies by distance", slog.String("error", err.Error()))
		return nil, store.NewStoreError(
			pharmacyEntity,
			"distances",
			"failed to query pharmacies",
			MapError(err),
		)
	}

	results := make([]*domain.PharmacyDistance, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError(pharmacyEntity, "distances", "failed to decode pharmacy", err)
		}
		results = append(results, &domain.PharmacyDistance{
			Pharmacy: p,
			Distance: point.DistanceToPharmacy(p),
		})
	}
	return results, nil
}

// Nearest implements store.PharmacyStore.Nearest.
func (s *SQLitePharmacyStore) Nearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row pharmacyRow
	err := sqlx.GetContext(
		ctx,
		s.db,
		&row,
		selectPharmacy+` ORDER BY `+squaredDistance+`, id LIMIT 1`,
		point.Latitude, point.Latitude, point.Longitude, point.Longitude,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no pharmacies to search")
			return nil, store.ErrPharmacyNotFound
		}
		log.Error("failed to find nearest pharmacy", slog.String("error", err.Error()))
		return nil, store.NewStoreError(pharmacyEntity, "nearest", "failed to query pharmacy", MapError(err))
	}

	return row.toDomain()
}

// Delete implements store.PharmacyStore.Delete.
func (s *SQLitePharmacyStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM pharmacies WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return store.NewStoreError(pharmacyEntity, "delete", "failed to delete pharmacy", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError(pharmacyEntity, "delete", "failed to read affected rows", err)
	}
	if n == 0 {
		return store.ErrPharmacyNotFound
	}

	log.Info("pharmacy deleted successfully", slog.Int64("pharmacy_id", id))
	return nil
}

// WithTx implements store.PharmacyStore.WithTx.
func (s *SQLitePharmacyStore) WithTx(tx *sql.Tx) store.PharmacyStore {
	return &SQLitePharmacyStore{
		db:     &sqlx.Tx{Tx: tx, Mapper: s.mapper},
		mapper: s.mapper,
		logger: s.logger,
		now:    s.now,
	}
}
