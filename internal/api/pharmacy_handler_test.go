package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/pharmacy-api/internal/api/shared"
	"github.com/phrazzld/pharmacy-api/internal/domain"
	"github.com/phrazzld/pharmacy-api/internal/mocks"
	"github.com/phrazzld/pharmacy-api/internal/service"
	"github.com/phrazzld/pharmacy-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func samplePharmacy(id int64, lat, lon float64) *domain.Pharmacy {
	return &domain.Pharmacy{
		ID:        id,
		Name:      "Farmacia Central",
		Address:   "Reforma 100",
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

func newTestRouter(svc service.PharmacyService) http.Handler {
	r := chi.NewRouter()
	NewPharmacyHandler(svc, nil).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) shared.ValidationErrorResponse {
	t.Helper()

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var body shared.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPharmacyHandler_IndexPage(t *testing.T) {
	var gotFilter service.IndexFilter
	svc := &mocks.MockPharmacyService{
		IndexFn: func(ctx context.Context, filter service.IndexFilter) (*domain.Page[*domain.Pharmacy], error) {
			gotFilter = filter
			items := []*domain.Pharmacy{samplePharmacy(1, 1, 1), samplePharmacy(2, 2, 2)}
			return domain.NewPage(items, domain.PageRequest{Number: 2, Size: 2}, 6), nil
		},
	}

	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias?page=2&per_page=2&nombre=x", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PageRequest{Number: 2, Size: 2}, gotFilter.Page)
	assert.Equal(t, "x", gotFilter.Params.Get("nombre"))

	var body PageResponse[PharmacyResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.CurrentPage)
	assert.Equal(t, 2, body.PerPage)
	assert.Equal(t, 6, body.Total)
	assert.Equal(t, 3, body.LastPage)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Farmacia Central", body.Data[0].Name)
}

func TestPharmacyHandler_IndexNearest(t *testing.T) {
	var gotPoint domain.Point
	svc := &mocks.MockPharmacyService{
		GetNearestFn: func(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
			gotPoint = point
			return samplePharmacy(9, 45, 40), nil
		},
	}

	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias?lat=45&lon=45", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.NewPoint(45, 45), gotPoint)
	var body PharmacyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(9), body.ID)
}

func TestPharmacyHandler_IndexCoordinateErrors(t *testing.T) {
	svc := &mocks.MockPharmacyService{
		GetNearestFn: func(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	t.Run("lat without lon names lon", func(t *testing.T) {
		body := decodeError(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=45", ""))
		assert.Equal(t, "the lon parameter is required when lat is given", body.Error)
	})

	t.Run("lon without lat names lat", func(t *testing.T) {
		body := decodeError(t, doRequest(t, router, http.MethodGet, "/farmacias?lon=45", ""))
		assert.Equal(t, "the lat parameter is required when lon is given", body.Error)
	})

	t.Run("lat out of range", func(t *testing.T) {
		body := decodeValidation(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=95&lon=45", ""))
		assert.NotEmpty(t, body.Errors["lat"])
		assert.Empty(t, body.Errors["lon"])
	})

	t.Run("lon out of range", func(t *testing.T) {
		body := decodeValidation(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=10&lon=181", ""))
		assert.NotEmpty(t, body.Errors["lon"])
	})

	t.Run("negative lat", func(t *testing.T) {
		body := decodeValidation(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=-1&lon=10", ""))
		assert.NotEmpty(t, body.Errors["lat"])
	})

	t.Run("non-numeric", func(t *testing.T) {
		body := decodeValidation(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=abc&lon=10", ""))
		assert.Equal(t, []string{"must be a number"}, body.Errors["lat"])
	})

	t.Run("hex float", func(t *testing.T) {
		body := decodeValidation(t, doRequest(t, router, http.MethodGet, "/farmacias?lat=0x1p3&lon=10", ""))
		assert.Equal(t, []string{"must be a number"}, body.Errors["lat"])
	})
}

func TestPharmacyHandler_IndexNearestEmptyStore(t *testing.T) {
	svc := &mocks.MockPharmacyService{DefaultError: service.ErrPharmacyNotFound}

	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias?lat=1&lon=1", "")

	body := decodeError(t, w)
	assert.Equal(t, "Pharmacy not found", body.Error)
}

func TestPharmacyHandler_Store(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var gotInput domain.PharmacyInput
		svc := &mocks.MockPharmacyService{
			StoreFn: func(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error) {
				gotInput = in
				p := samplePharmacy(1, *in.Latitude, *in.Longitude)
				p.Name, p.Address = in.Name, in.Address
				return p, nil
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias",
			`{"nombre":"Norte","direccion":"Av 1","latitud":10.5,"longitud":20.25}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Norte", gotInput.Name)
		var body PharmacyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(1), body.ID)
		assert.Equal(t, "Norte", body.Name)
		assert.Equal(t, "Av 1", body.Address)
		assert.Equal(t, 10.5, body.Latitude)
		assert.Equal(t, 20.25, body.Longitude)
	})

	t.Run("missing fields are reported by the service", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{
			StoreFn: func(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error) {
				return domain.NewPharmacy(in)
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias", `{"nombre":"Norte"}`)

		body := decodeValidation(t, w)
		assert.NotContains(t, body.Errors, "nombre")
		assert.Contains(t, body.Errors, "direccion")
		assert.Contains(t, body.Errors, "latitud")
		assert.Contains(t, body.Errors, "longitud")
	})

	t.Run("wrong JSON type", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias",
			`{"nombre":"Norte","direccion":"Av 1","latitud":"diez","longitud":20}`)

		body := decodeValidation(t, w)
		assert.Equal(t, []string{"must be a number"}, body.Errors["latitud"])
	})

	t.Run("type and missing-field errors together", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias", `{"nombre":1,"latitud":"x"}`)

		body := decodeValidation(t, w)
		assert.Equal(t, []string{"must be a string"}, body.Errors["nombre"])
		assert.Equal(t, []string{"must be a number"}, body.Errors["latitud"])
		assert.Equal(t, []string{"is required"}, body.Errors["direccion"])
		assert.Equal(t, []string{"is required"}, body.Errors["longitud"])
	})

	t.Run("empty body", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{
			StoreFn: func(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error) {
				return domain.NewPharmacy(in)
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias", "")

		body := decodeValidation(t, w)
		assert.Len(t, body.Errors, 4)
	})

	t.Run("numeric string coordinates", func(t *testing.T) {
		var got domain.PharmacyInput
		svc := &mocks.MockPharmacyService{
			StoreFn: func(ctx context.Context, in domain.PharmacyInput) (*domain.Pharmacy, error) {
				got = in
				p, err := domain.NewPharmacy(in)
				if err == nil {
					p.ID = 1
				}
				return p, err
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias",
			`{"nombre":"Norte","direccion":"Av 1","latitud":"29","longitud":"10.5"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, got.Latitude)
		assert.Equal(t, 29.0, *got.Latitude)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias", `{"nombre":`)

		body := decodeError(t, w)
		assert.Equal(t, "Invalid request format", body.Error)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{
			DefaultError: store.NewStoreError("pharmacy", "create", "numeric field overflow", store.ErrInvalidEntity),
		}

		w := doRequest(t, newTestRouter(svc), http.MethodPost, "/farmacias",
			`{"nombre":"Norte","direccion":"Av 1","latitud":500,"longitud":20}`)

		body := decodeError(t, w)
		assert.Equal(t, "Invalid entity data", body.Error)
	})
}

func TestPharmacyHandler_Update(t *testing.T) {
	validBody := `{"nombre":"Sur","direccion":"Calle 2","latitud":3,"longitud":4}`

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			var gotID int64
			svc := &mocks.MockPharmacyService{
				UpdateFn: func(ctx context.Context, id int64, in domain.PharmacyInput) (*domain.Pharmacy, error) {
					gotID = id
					p := samplePharmacy(id, *in.Latitude, *in.Longitude)
					p.Name = in.Name
					return p, nil
				},
			}

			w := doRequest(t, newTestRouter(svc), method, "/farmacias/12", validBody)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, int64(12), gotID)
			var body PharmacyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Sur", body.Name)
		})
	}

	t.Run("missing id surfaces as 400", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{DefaultError: service.ErrPharmacyNotFound}

		w := doRequest(t, newTestRouter(svc), http.MethodPut, "/farmacias/999", validBody)

		body := decodeError(t, w)
		assert.Equal(t, "Pharmacy not found", body.Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodPut, "/farmacias/abc", validBody)

		body := decodeValidation(t, w)
		assert.NotEmpty(t, body.Errors["id"])
	})
}

func TestPharmacyHandler_Show(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		showFn     func(ctx context.Context, id int64) (*domain.Pharmacy, error)
		wantStatus int
	}{
		{
			name: "found",
			path: "/farmacias/3",
			showFn: func(ctx context.Context, id int64) (*domain.Pharmacy, error) {
				return samplePharmacy(id, 1, 1), nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "zero id is accepted",
			path: "/farmacias/0",
			showFn: func(ctx context.Context, id int64) (*domain.Pharmacy, error) {
				return nil, service.ErrPharmacyNotFound
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative id",
			path:       "/farmacias/-3",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "non-numeric id",
			path:       "/farmacias/abc",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unexpected error",
			path: "/farmacias/3",
			showFn: func(ctx context.Context, id int64) (*domain.Pharmacy, error) {
				return nil, errors.New("connection reset")
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockPharmacyService{ShowFn: tc.showFn}

			w := doRequest(t, newTestRouter(svc), http.MethodGet, tc.path, "")

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestPharmacyHandler_NearestPath(t *testing.T) {
	t.Run("out of range point is not validated", func(t *testing.T) {
		var gotPoint domain.Point
		svc := &mocks.MockPharmacyService{
			GetNearestFn: func(ctx context.Context, point domain.Point) (*domain.Pharmacy, error) {
				gotPoint = point
				return samplePharmacy(1, 0, 0), nil
			},
		}

		w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/nearest/120/-5", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.NewPoint(120, -5), gotPoint)
	})

	t.Run("non-numeric", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/nearest/abc/1", "")

		body := decodeValidation(t, w)
		assert.NotEmpty(t, body.Errors["lat"])
	})

	t.Run("hex and separated digits are not numbers", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{}

		w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/nearest/0x1p3/1_000", "")

		body := decodeValidation(t, w)
		assert.Equal(t, []string{"must be a number"}, body.Errors["lat"])
		assert.Equal(t, []string{"must be a number"}, body.Errors["lon"])
	})

	t.Run("empty store", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{DefaultError: service.ErrPharmacyNotFound}

		w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/nearest/1/1", "")

		decodeError(t, w)
	})
}

func TestPharmacyHandler_Distances(t *testing.T) {
	var gotPage domain.PageRequest
	svc := &mocks.MockPharmacyService{
		GetDistancesFn: func(
			ctx context.Context,
			point domain.Point,
			page domain.PageRequest,
		) (*domain.Page[*domain.PharmacyDistance], error) {
			gotPage = page
			items := []*domain.PharmacyDistance{
				{Pharmacy: samplePharmacy(1, 0, 0), Distance: 0},
				{Pharmacy: samplePharmacy(2, 3, 4), Distance: 5},
			}
			return domain.NewPage(items, domain.PageRequest{Number: 1, Size: 15}, 2), nil
		},
	}

	w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/distances/0/0?per_page=15", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PageRequest{Size: 15}, gotPage)

	var body PageResponse[PharmacyDistanceResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(1), body.Data[0].ID)
	assert.Equal(t, 0.0, body.Data[0].Distance)
	assert.Equal(t, int64(2), body.Data[1].ID)
	assert.Equal(t, 5.0, body.Data[1].Distance)
	assert.Equal(t, 2, body.Total)
}

func TestPharmacyHandler_DistancesErrors(t *testing.T) {
	t.Run("non-numeric", func(t *testing.T) {
		w := doRequest(t, newTestRouter(&mocks.MockPharmacyService{}), http.MethodGet,
			"/farmacias/distances/1/east", "")

		body := decodeValidation(t, w)
		assert.NotEmpty(t, body.Errors["lon"])
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mocks.MockPharmacyService{DefaultError: errors.New("timeout")}

		w := doRequest(t, newTestRouter(svc), http.MethodGet, "/farmacias/distances/1/1", "")

		body := decodeError(t, w)
		assert.Equal(t, "Failed to list pharmacy distances", body.Error)
	})
}
