package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/pharmacy-api/internal/domain"
)

// PharmacyStore defines the interface for pharmacy data persistence.
// Distances are planar: sqrt((lat-latitude)^2 + (lon-longitude)^2).
type PharmacyStore interface {
	// Create saves a new pharmacy and sets its ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, pharmacy *domain.Pharmacy) error

	// Update replaces name, address, latitude and longitude of the pharmacy
	// with the given ID and bumps its UpdatedAt.
	// Updating an ID that does not exist succeeds without changing anything;
	// callers that need to detect absence must re-fetch.
	Update(ctx context.Context, id int64, pharmacy *domain.Pharmacy) error

	// GetByID retrieves a pharmacy by its ID.
	// Returns ErrPharmacyNotFound if the pharmacy does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error)

	// List returns one page of pharmacies in insertion order.
	// Returns an empty slice past the last page.
	List(ctx context.Context, page domain.PageRequest) ([]*domain.Pharmacy, error)

	// Count returns the total number of pharmacies.
	Count(ctx context.Context) (int, error)

	// ListByDistance returns one page of pharmacies ordered by ascending
	// distance to point. Ties are ordered by ID.
	ListByDistance(
		ctx context.Context,
		point domain.Point,
		page domain.PageRequest,
	) ([]*domain.PharmacyDistance, error)

	// Nearest returns the pharmacy closest to point, the lowest ID winning ties.
	// Returns ErrPharmacyNotFound if there are no pharmacies.
	Nearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error)

	// Delete removes the pharmacy with the given ID.
	// Returns ErrPharmacyNotFound if the pharmacy does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new PharmacyStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) PharmacyStore
}
