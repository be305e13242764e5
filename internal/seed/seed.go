package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/phrazzld/pharmacy-api/internal/store"
)

// Ranges of generated values, inclusive.
const (
	NameLength    = 8
	StreetLength  = 10
	MinStreetNo   = 1
	MaxStreetNo   = 1000
	MinLatitude   = 21
	MaxLatitude   = 46
	MinLongitude  = 25
	MaxLongitude  = 74
	alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ErrInvalidCount is returned when asked to seed fewer than one record.
var ErrInvalidCount = errors.New("seed count must be positive")

// Seeder inserts random pharmacies.
type Seeder struct {
	db     *sql.DB
	store  store.PharmacyStore
	rnd    *rand.Rand
	logger *slog.Logger
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithRand sets the random source, e.g. a fixed seed for reproducible data.
func WithRand(r *rand.Rand) Option {
	return func(s *Seeder) {
		s.rnd = r
	}
}

// New creates a Seeder writing through st inside transactions on db.
func New(db *sql.DB, st store.PharmacyStore, logger *slog.Logger, opts ...Option) *Seeder {
	if db == nil || st == nil {
		panic("db and store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	now := uint64(time.Now().UnixNano())
	s := &Seeder{
		db:     db,
		store:  st,
		rnd:    rand.New(rand.NewPCG(now, now>>1)),
		logger: logger.With(slog.String("component", "seeder")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts count random pharmacies and returns them with their IDs set.
// Nothing is written if any insert fails.
func (s *Seeder) Seed(ctx context.Context, count int) ([]*domain.Pharmacy, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	runID := uuid.New()
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("seed_id", runID.String()))
	ctx = logger.WithLogger(ctx, log)

	log.Info("seeding pharmacies", slog.Int("count", count))

	created := make([]*domain.Pharmacy, 0, count)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.store.WithTx(tx)
		for i := 0; i < count; i++ {
			p := RandomPharmacy(s.rnd)
			if err := txStore.Create(ctx, p); err != nil {
				return fmt.Errorf("failed to insert pharmacy %d of %d: %w", i+1, count, err)
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("seeding complete", slog.Int("count", len(created)))
	return created, nil
}

// RandomPharmacy builds an unsaved pharmacy with random name, address and
// whole-degree coordinates.
func RandomPharmacy(r *rand.Rand) *domain.Pharmacy {
	return &domain.Pharmacy{
		Name:      randomString(r, NameLength),
		Address:   randomString(r, StreetLength) + " " + strconv.Itoa(between(r, MinStreetNo, MaxStreetNo)),
		Latitude:  float64(between(r, MinLatitude, MaxLatitude)),
		Longitude: float64(between(r, MinLongitude, MaxLongitude)),
	}
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func randomString(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumerics[r.IntN(len(alphanumerics))]
	}
	return string(b)
}
