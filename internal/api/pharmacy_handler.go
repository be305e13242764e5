package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/pharmacy-api/internal/api/shared"
	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/platform/logger"
	"github.com/phrazzld/pharmacy-api/internal/service"
)

// PharmacyHandler handles pharmacy-related HTTP requests
type PharmacyHandler struct {
	service service.PharmacyService
	logger  *slog.Logger
}

// NewPharmacyHandler creates a new PharmacyHandler.
// If logger is nil, a default logger will be used.
func NewPharmacyHandler(pharmacyService service.PharmacyService, logger *slog.Logger) *PharmacyHandler {
	if pharmacyService == nil {
		panic("pharmacyService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PharmacyHandler{
		service: pharmacyService,
		logger:  logger.With(slog.String("component", "pharmacy_handler")),
	}
}

// RegisterRoutes mounts the /farmacias routes on r.
func (h *PharmacyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/farmacias", func(r chi.Router) {
		r.Get("/", h.Index)
		r.Post("/", h.Store)
		r.Get("/nearest/{lat}/{lon}", h.Nearest)
		r.Get("/distances/{lat}/{lon}", h.Distances)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
	})
}

func (h *PharmacyHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// Index handles GET /farmacias.
//
// With both lat and lon it answers the nearest pharmacy to that point, after
// checking lat in [0,90] and lon in [0,180]. With neither it answers a page of
// all pharmacies. With only one of them it fails naming the missing one.
func (h *PharmacyHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawLat, rawLon := q.Get(paramLat), q.Get(paramLon)

	switch {
	case rawLat != "" && rawLon != "":
		point, err := domain.ParsePoint(paramLat, rawLat, paramLon, rawLon)
		if err == nil {
			err = point.Validate()
		}
		if err != nil {
			h.log(r).Debug("invalid coordinates", slog.String("lat", rawLat), slog.String("lon", rawLon))
			HandleAPIError(w, r, err, "")
			return
		}

		pharmacy, err := h.service.GetNearest(r.Context(), point)
		if err != nil {
			HandleAPIError(w, r, err, "Failed to find nearest pharmacy")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, pharmacyToResponse(pharmacy))

	case rawLat != "":
		HandleAPIError(w, r, &MissingParameterError{Missing: paramLon, Given: paramLat}, "")

	case rawLon != "":
		HandleAPIError(w, r, &MissingParameterError{Missing: paramLat, Given: paramLon}, "")

	default:
		page, err := h.service.Index(r.Context(), service.IndexFilter{
			Page:   parsePageRequest(r),
			Params: q,
		})
		if err != nil {
			HandleAPIError(w, r, err, "Failed to list pharmacies")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, pharmacyToResponse))
	}
}

// Store handles POST /farmacias.
func (h *PharmacyHandler) Store(w http.ResponseWriter, r *http.Request) {
	in, err := decodePharmacyInput(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pharmacy, err := h.service.Store(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create pharmacy")
		return
	}

	h.log(r).Debug("pharmacy created", slog.Int64("pharmacy_id", pharmacy.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, pharmacyToResponse(pharmacy))
}

// Update handles PUT and PATCH /farmacias/{id}. Both replace every field.
func (h *PharmacyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.log(r).Debug("invalid pharmacy id", slog.String("id", chi.URLParam(r, paramID)))
		HandleAPIError(w, r, err, "")
		return
	}

	in, err := decodePharmacyInput(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pharmacy, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update pharmacy")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pharmacyToResponse(pharmacy))
}

// Show handles GET /farmacias/{id}.
func (h *PharmacyHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.log(r).Debug("invalid pharmacy id", slog.String("id", chi.URLParam(r, paramID)))
		HandleAPIError(w, r, err, "")
		return
	}

	pharmacy, err := h.service.Show(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve pharmacy")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pharmacyToResponse(pharmacy))
}

// Nearest handles GET /farmacias/nearest/{lat}/{lon}. The point is coerced
// to numbers but not range checked.
func (h *PharmacyHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	point, err := parsePathPoint(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pharmacy, err := h.service.GetNearest(r.Context(), point)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to find nearest pharmacy")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pharmacyToResponse(pharmacy))
}

// Distances handles GET /farmacias/distances/{lat}/{lon}.
func (h *PharmacyHandler) Distances(w http.ResponseWriter, r *http.Request) {
	point, err := parsePathPoint(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.service.GetDistances(r.Context(), point, parsePageRequest(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list pharmacy distances")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page, distanceToResponse))
}
