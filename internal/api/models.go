package api

import (
	"time"

	"github.com/phrazzld/pharmacy-api/internal/domain"
)

// PharmacyResponse is the JSON representation of a pharmacy.
type PharmacyResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Address   string    `json:"direccion"`
	Latitude  float64   `json:"latitud"`
	Longitude float64   `json:"longitud"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PharmacyDistanceResponse is a pharmacy with its distance to the query point.
type PharmacyDistanceResponse struct {
	PharmacyResponse
	Distance float64 `json:"distancia"`
}

// PageResponse wraps one page of results with pagination metadata.
type PageResponse[T any] struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
	Data        []T `json:"data"`
}

func pharmacyToResponse(p *domain.Pharmacy) PharmacyResponse {
	return PharmacyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func distanceToResponse(d *domain.PharmacyDistance) PharmacyDistanceResponse {
	return PharmacyDistanceResponse{
		PharmacyResponse: pharmacyToResponse(d.Pharmacy),
		Distance:         d.Distance,
	}
}

// pageToResponse converts a domain page, mapping each item with convert.
func pageToResponse[S, T any](page *domain.Page[S], convert func(S) T) PageResponse[T] {
	data := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, convert(item))
	}

	return PageResponse[T]{
		CurrentPage: page.Number,
		PerPage:     page.Size,
		Total:       page.Total,
		LastPage:    page.LastPage(),
		Data:        data,
	}
}
