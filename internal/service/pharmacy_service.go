package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
)

// PharmacyRepository defines the repository interface for the service layer.
// It is satisfied by store.PharmacyStore.
type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *domain.Pharmacy) error
	Update(ctx context.Context, id int64, pharmacy *domain.Pharmacy) error
	GetByID(ctx context.Context, id int64) (*domain.Pharmacy, error)
	List(ctx context.Context, page domain.PageRequest) ([]*domain.Pharmacy, error)
	Count(ctx context.Context) (int, error)
	ListByDistance(
		ctx context.Context,
		point domain.Point,
		page domain.PageRequest,
	) ([]*domain.PharmacyDistance, error)
	Nearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error)
	Delete(ctx context.Context, id int64) error
}

// IndexFilter selects a page of pharmacies. Params carries whatever query
// parameters the caller received; the listing does not filter on them.
type IndexFilter struct {
	Page   domain.PageRequest
	Params url.Values
}

// PharmacyService provides pharmacy-related operations
type PharmacyService interface {
	// Store validates the input and persists a new pharmacy.
	Store(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error)

	// Update validates the input, writes it over pharmacy id and returns the
	// re-read record. An unknown id yields ErrPharmacyNotFound from the re-read.
	Update(ctx context.Context, id int64, in domain.PharmacyInput) (*domain.Pharmacy, error)

	// Show returns one pharmacy or ErrPharmacyNotFound.
	Show(ctx context.Context, id int64) (*domain.Pharmacy, error)

	// Index returns one page of all pharmacies.
	Index(ctx context.Context, filter IndexFilter) (*domain.Page[*domain.Pharmacy], error)

	// Destroy removes a pharmacy.
	Destroy(ctx context.Context, id int64) error

	// GetDistances returns pharmacies ordered by distance to point.
	// The point is not range checked.
	GetDistances(
		ctx context.Context,
		point domain.Point,
		page domain.PageRequest,
	) (*domain.Page[*domain.PharmacyDistance], error)

	// GetNearest returns the pharmacy closest to point, or ErrPharmacyNotFound
	// when there are none.
	GetNearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error)
}

// pharmacyServiceImpl implements the PharmacyService interface
type pharmacyServiceImpl struct {
	repo            PharmacyRepository
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// Option configures a PharmacyService.
type Option func(*pharmacyServiceImpl)

// WithPageSizes overrides the default and maximum page sizes.
// Non-positive values keep the domain defaults.
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *pharmacyServiceImpl) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// NewPharmacyService creates a new PharmacyService.
// It returns an error if the repository is nil.
func NewPharmacyService(
	repo PharmacyRepository,
	logger *slog.Logger,
	opts ...Option,
) (PharmacyService, error) {
	if repo == nil {
		return nil, &PharmacyServiceError{
			Operation: "create_service",
			Message:   "repo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &pharmacyServiceImpl{
		repo:            repo,
		defaultPageSize: domain.DefaultPageSize,
		maxPageSize:     domain.MaxPageSize,
		logger:          logger.With("component", "pharmacy_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *pharmacyServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *pharmacyServiceImpl) normalize(page domain.PageRequest) domain.PageRequest {
	return page.Normalize(s.defaultPageSize, s.maxPageSize)
}

// Store implements PharmacyService.Store.
func (s *pharmacyServiceImpl) Store(
	ctx context.Context,
	in domain.PharmacyInput,
) (*domain.Pharmacy, error) {
	log := s.log(ctx)

	pharmacy, err := domain.NewPharmacy(in)
	if err != nil {
		log.Debug("pharmacy input rejected", "error", err)
		return nil, err
	}

	if err := s.repo.Create(ctx, pharmacy); err != nil {
		log.Error("failed to create pharmacy", "error", err)
		return nil, NewPharmacyServiceError("store", "failed to save pharmacy", err)
	}

	log.Info("pharmacy stored", "pharmacy_id", pharmacy.ID)
	return pharmacy, nil
}

// Update implements PharmacyService.Update.
// Validate, write and re-read are separate repository calls.
func (s *pharmacyServiceImpl) Update(
	ctx context.Context,
	id int64,
	in domain.PharmacyInput,
) (*domain.Pharmacy, error) {
	log := s.log(ctx)

	changes, err := domain.NewPharmacy(in)
	if err != nil {
		log.Debug("pharmacy input rejected", "error", err, "pharmacy_id", id)
		return nil, err
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		log.Error("failed to update pharmacy", "error", err, "pharmacy_id", id)
		return nil, NewPharmacyServiceError("update", "failed to update pharmacy", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("failed to re-read pharmacy after update", "error", err, "pharmacy_id", id)
		return nil, NewPharmacyServiceError("update", "failed to retrieve updated pharmacy", err)
	}

	log.Info("pharmacy updated", "pharmacy_id", id)
	return updated, nil
}

// Show implements PharmacyService.Show.
func (s *pharmacyServiceImpl) Show(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	pharmacy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log(ctx).Debug("failed to retrieve pharmacy", "error", err, "pharmacy_id", id)
		return nil, NewPharmacyServiceError("show", "failed to retrieve pharmacy", err)
	}
	return pharmacy, nil
}

// Index implements PharmacyService.Index.
func (s *pharmacyServiceImpl) Index(
	ctx context.Context,
	filter IndexFilter,
) (*domain.Page[*domain.Pharmacy], error) {
	log := s.log(ctx)
	page := s.normalize(filter.Page)

	if len(filter.Params) > 0 {
		log.Debug("index filters ignored", "params", filter.Params.Encode())
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		log.Error("failed to count pharmacies", "error", err)
		return nil, NewPharmacyServiceError("index", "failed to count pharmacies", err)
	}

	pharmacies, err := s.repo.List(ctx, page)
	if err != nil {
		log.Error("failed to list pharmacies", "error", err)
		return nil, NewPharmacyServiceError("index", "failed to list pharmacies", err)
	}

	return domain.NewPage(pharmacies, page, total), nil
}

// Destroy implements PharmacyService.Destroy.
func (s *pharmacyServiceImpl) Destroy(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log(ctx).Error("failed to delete pharmacy", "error", err, "pharmacy_id", id)
		return NewPharmacyServiceError("destroy", "failed to delete pharmacy", err)
	}

	s.log(ctx).Info("pharmacy deleted", "pharmacy_id", id)
	return nil
}

// GetDistances implements PharmacyService.GetDistances.
func (s *pharmacyServiceImpl) GetDistances(
	ctx context.Context,
	point domain.Point,
	page domain.PageRequest,
) (*domain.Page[*domain.PharmacyDistance], error) {
	log := s.log(ctx)
	page = s.normalize(page)

	total, err := s.repo.Count(ctx)
	if err != nil {
		log.Error("failed to count pharmacies", "error", err)
		return nil, NewPharmacyServiceError("get_distances", "failed to count pharmacies", err)
	}

	results, err := s.repo.ListByDistance(ctx, point, page)
	if err != nil {
		log.Error("failed to list pharmacies by distance",
			"error", err,
			"lat", point.Latitude,
			"lon", point.Longitude)
		return nil, NewPharmacyServiceError("get_distances", "failed to list pharmacies", err)
	}

	return domain.NewPage(results, page, total), nil
}

// GetNearest implements PharmacyService.GetNearest.
func (s *pharmacyServiceImpl) GetNearest(
	ctx context.Context,
	point domain.Point,
) (*domain.Pharmacy, error) {
	pharmacy, err := s.repo.Nearest(ctx, point)
	if err != nil {
		s.log(ctx).Debug("failed to find nearest pharmacy",
			"error", err,
			"lat", point.Latitude,
			"lon", point.Longitude)
		return nil, NewPharmacyServiceError("get_nearest", "failed to find nearest pharmacy", err)
	}
	return pharmacy, nil
}
