package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

const pharmacyEntity = "pharmacy"

// pharmacyColumns is the select list shared by every read query.
// Coordinates are cast so database/sql can scan them into float64.
const pharmacyColumns = `id, name, address,
		latitude::double precision, longitude::double precision,
		created_at, updated_at`

// distanceExpr is the planar distance between ($1, $2) and a row.
const distanceExpr = `SQRT(POWER($1 - latitude::double precision, 2) + POWER($2 - longitude::double precision, 2))`

// PostgresPharmacyStore implements the store.PharmacyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPharmacyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPharmacyStore creates a new PostgreSQL implementation of the PharmacyStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPharmacyStore(db store.DBTX, logger *slog.Logger) *PostgresPharmacyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPharmacyStore{
		db:     db,
		logger: logger.With(slog.String("component", "pharmacy_store")),
	}
}

// Ensure PostgresPharmacyStore implements store.PharmacyStore interface
var _ store.PharmacyStore = (*PostgresPharmacyStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPharmacy(row rowScanner, extra ...any) (*domain.Pharmacy, error) {
	var p domain.Pharmacy
	dest := []any{
		&p.ID,
		&p.Name,
		&p.Address,
		&p.Latitude,
		&p.Longitude,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements store.PharmacyStore.Create.
// The stored coordinates are read back, so pharmacy reflects the column precision.
func (s *PostgresPharmacyStore) Create(ctx context.Context, pharmacy *domain.Pharmacy) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO pharmacies (name, address, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + pharmacyColumns

	created, err := scanPharmacy(s.db.QueryRowContext(
		ctx,
		query,
		pharmacy.Name,
		pharmacy.Address,
		pharmacy.Latitude,
		pharmacy.Longitude,
	))
	if err != nil {
		log.Error("failed to create pharmacy",
			slog.String("error", err.Error()),
			slog.String("name", pharmacy.Name))
		return store.NewStoreError(pharmacyEntity, "create", "failed to insert pharmacy", MapError(err))
	}

	*pharmacy = *created

	log.Info("pharmacy created successfully", slog.Int64("pharmacy_id", pharmacy.ID))
	return nil
}

// Update implements store.PharmacyStore.Update.
// Zero affected rows is not an error.
func (s *PostgresPharmacyStore) Update(ctx context.Context, id int64, pharmacy *domain.Pharmacy) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE pharmacies
		SET name = $1, address = $2, latitude = $3, longitude = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		pharmacy.Name,
		pharmacy.Address,
		pharmacy.Latitude,
		pharmacy.Longitude,
		id,
	)
	if err != nil {
		log.Error("failed to update pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return store.NewStoreError(pharmacyEntity, "update", "failed to update pharmacy", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("update matched no pharmacy", slog.Int64("pharmacy_id", id))
		return nil
	}

	log.Info("pharmacy updated successfully", slog.Int64("pharmacy_id", id))
	return nil
}

// GetByID implements store.PharmacyStore.GetByID.
func (s *PostgresPharmacyStore) GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving pharmacy by ID", slog.Int64("pharmacy_id", id))

	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE id = $1`

	p, err := scanPharmacy(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("pharmacy not found", slog.Int64("pharmacy_id", id))
			return nil, store.ErrPharmacyNotFound
		}
		log.Error("failed to get pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return nil, store.NewStoreError(pharmacyEntity, "get", "failed to query pharmacy", MapError(err))
	}

	return p, nil
}

// List implements store.PharmacyStore.List.
func (s *PostgresPharmacyStore) List(
	ctx context.Context,
	page domain.PageRequest,
) ([]*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list pharmacies", slog.String("error", err.Error()))
		return nil, store.NewStoreError(pharmacyEntity, "list", "failed to query pharmacies", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	pharmacies := []*domain.Pharmacy{}
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			log.Error("failed to scan pharmacy row", slog.String("error", err.Error()))
			return nil, store.NewStoreError(pharmacyEntity, "list", "failed to scan pharmacy", err)
		}
		pharmacies = append(pharmacies, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating pharmacy rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError(pharmacyEntity, "list", "failed to read pharmacies", err)
	}

	log.Debug("listed pharmacies",
		slog.Int("page", page.Number),
		slog.Int("count", len(pharmacies)))
	return pharmacies, nil
}

// Count implements store.PharmacyStore.Count.
func (s *PostgresPharmacyStore) Count(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pharmacies`).Scan(&total); err != nil {
		log.Error("failed to count pharmacies", slog.String("error", err.Error()))
		return 0, store.NewStoreError(pharmacyEntity, "count", "failed to count pharmacies", MapError(err))
	}
	return total, nil
}

// ListByDistance implements store.PharmacyStore.ListByDistance.
func (s *PostgresPharmacyStore) ListByDistance(
	ctx context.Context,
	point domain.Point,
	page domain.PageRequest,
) ([]*domain.PharmacyDistance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + pharmacyColumns + `, ` + distanceExpr + ` AS distance
		FROM pharmacies
		ORDER BY distance, id
		LIMIT $3 OFFSET $4
	`

	rows, err := s.db.QueryContext(
		ctx,
		query,
		point.Latitude,
		point.Longitude,
		page.Size,
		page.Offset(),
	)
	if err != nil {
		log.Error("failed to list pharmacies by distance",
			slog.String("error", err.Error()),
			slog.Float64("lat", point.Latitude),
			slog.Float64("lon", point.Longitude))
		return nil, store.NewStoreError(
			pharmacyEntity,
			"distances",
			"failed to query pharmacies",
			MapError(err),
		)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	results := []*domain.PharmacyDistance{}
	for rows.Next() {
		var distance float64
		p, err := scanPharmacy(rows, &distance)
		if err != nil {
			log.Error("failed to scan pharmacy row", slog.String("error", err.Error()))
			return nil, store.NewStoreError(pharmacyEntity, "distances", "failed to scan pharmacy", err)
		}
		results = append(results, &domain.PharmacyDistance{Pharmacy: p, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating pharmacy rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError(pharmacyEntity, "distances", "failed to read pharmacies", err)
	}

	return results, nil
}

// Nearest implements store.PharmacyStore.Nearest.
func (s *PostgresPharmacyStore) Nearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + pharmacyColumns + `
		FROM pharmacies
		ORDER BY ` + distanceExpr + `, id
		LIMIT 1
	`

	p, err := scanPharmacy(s.db.QueryRowContext(ctx, query, point.Latitude, point.Longitude))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("no pharmacies to search",
				slog.Float64("lat", point.Latitude),
				slog.Float64("lon", point.Longitude))
			return nil, store.ErrPharmacyNotFound
		}
		log.Error("failed to find nearest pharmacy",
			slog.String("error", err.Error()),
			slog.Float64("lat", point.Latitude),
			slog.Float64("lon", point.Longitude))
		return nil, store.NewStoreError(pharmacyEntity, "nearest", "failed to query pharmacy", MapError(err))
	}

	return p, nil
}

// Delete implements store.PharmacyStore.Delete.
func (s *PostgresPharmacyStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM pharmacies WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete pharmacy",
			slog.String("error", err.Error()),
			slog.Int64("pharmacy_id", id))
		return store.NewStoreError(pharmacyEntity, "delete", "failed to delete pharmacy", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrPharmacyNotFound); err != nil {
		log.Debug("pharmacy not found for deletion", slog.Int64("pharmacy_id", id))
		return err
	}

	log.Info("pharmacy deleted successfully", slog.Int64("pharmacy_id", id))
	return nil
}

// WithTx implements store.PharmacyStore.WithTx.
// It returns a new PharmacyStore instance that uses the provided transaction.
func (s *PostgresPharmacyStore) WithTx(tx *sql.Tx) store.PharmacyStore {
	return &PostgresPharmacyStore{
		db:     tx,
		logger: s.logger,
	}
}
