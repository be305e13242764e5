package mocks

import (
	"context"

	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/service"
)

// MockPharmacyService implements service.PharmacyService for testing
type MockPharmacyService struct {
	StoreFn        func(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error)
	UpdateFn       func(ctx context.Context, id int64, in domain.PharmacyInput) (*domain.Pharmacy, error)
	ShowFn         func(ctx context.Context, id int64) (*domain.Pharmacy, error)
	IndexFn        func(ctx context.Context, filter service.IndexFilter) (*domain.Page[*domain.Pharmacy], error)
	DestroyFn      func(ctx context.Context, id int64) error
	GetDistancesFn func(
		ctx context.Context,
		point domain.Point,
		page domain.PageRequest,
	) (*domain.Page[*domain.PharmacyDistance], error)
	GetNearestFn func(ctx context.Context, point domain.Point) (*domain.Pharmacy, error)

	// DefaultError is returned by methods whose function field is nil
	DefaultError error
}

var _ service.PharmacyService = (*MockPharmacyService)(nil)

// Store implements service.PharmacyService
func (m *MockPharmacyService) Store(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error) {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, in)
	}
	return nil, m.DefaultError
}

// Update implements service.PharmacyService
func (m *MockPharmacyService) Update(
	ctx context.Context,
	id int64,
	in domain.PharmacyInput,
) (*domain.Pharmacy, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, in)
	}
	return nil, m.DefaultError
}

// Show implements service.PharmacyService
func (m *MockPharmacyService) Show(ctx context.Context, id int64) (*domain.Pharmacy, error) {
	if m.ShowFn != nil {
		return m.ShowFn(ctx, id)
	}
	return nil, m.DefaultError
}

// Index implements service.PharmacyService
func (m *MockPharmacyService) Index(
	ctx context.Context,
	filter service.IndexFilter,
) (*domain.Page[*domain.Pharmacy], error) {
	if m.IndexFn != nil {
		return m.IndexFn(ctx, filter)
	}
	return nil, m.DefaultError
}

// Destroy implements service.PharmacyService
func (m *MockPharmacyService) Destroy(ctx context.Context, id int64) error {
	if m.DestroyFn != nil {
		return m.DestroyFn(ctx, id)
	}
	return m.DefaultError
}

// GetDistances implements service.PharmacyService
func (m *MockPharmacyService) GetDistances(
	ctx context.Context,
	point domain.Point,
	page domain.PageRequest,
) (*domain.Page[*domain.PharmacyDistance], error) {
	if m.GetDistancesFn != nil {
		return m.GetDistancesFn(ctx, point, page)
	}
	return nil, m.DefaultError
}

// GetNearest implements service.PharmacyService
func (m *MockPharmacyService) GetNearest(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
	if m.GetNearestFn != nil {
		return m.GetNearestFn(ctx, point)
	}
	return nil, m.DefaultError
}
