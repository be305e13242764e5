package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/pharmacy-api/internal/api/shared"
	"github.com/phrazzld/pharmacy-api/internal/domain"
)

// Query and path parameter names.
const (
	paramID      = "id"
	paramLat     = "lat"
	paramLon     = "lon"
	paramPage    = "page"
	paramPerPage = "per_page"
)

// parseID extracts a non-negative integer id from the URL path.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, paramID)
	if raw == "" {
		return 0, domain.NewValidationError(paramID, "is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, domain.NewValidationError(paramID, "must be a non-negative integer", domain.ErrInvalidID)
	}
	return id, nil
}

// parsePageRequest reads page and per_page from the query string. Missing or
// malformed values are left at zero so the service applies its defaults.
func parsePageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	return domain.PageRequest{
		Number: atoiOrZero(q.Get(paramPage)),
		Size:   atoiOrZero(q.Get(paramPerPage)),
	}
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// parsePathPoint reads {lat}/{lon} from the URL path. Only numeric coercion
// is applied; the range is not checked.
func parsePathPoint(r *http.Request) (domain.Point, error) {
	return domain.ParsePoint(paramLat, chi.URLParam(r, paramLat), paramLon, chi.URLParam(r, paramLon))
}

// Pharmacy body field names.
const (
	fieldName      = "nombre"
	fieldAddress   = "direccion"
	fieldLatitude  = "latitud"
	fieldLongitude = "longitud"
)

// decodePharmacyInput decodes a pharmacy JSON body. Each field is decoded on
// its own so that every value of the wrong JSON type is reported, together
// with any other rule the input breaks. Coordinates may be sent as numbers or
// numeric strings. An empty body decodes as an empty object; a malformed body
// wraps errInvalidRequestBody.
func decodePharmacyInput(r *http.Request) (domain.PharmacyInput, error) {
	var in domain.PharmacyInput

	var raw map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &raw); err != nil && !errors.Is(err, io.EOF) {
		return in, fmt.Errorf("%w: %v", errInvalidRequestBody, err)
	}

	ve := &domain.ValidationError{}
	in.Name = decodeString(raw, fieldName, ve)
	in.Address = decodeString(raw, fieldAddress, ve)
	in.Latitude = decodeNumber(raw, fieldLatitude, ve)
	in.Longitude = decodeNumber(raw, fieldLongitude, ve)

	if !ve.HasErrors() {
		return in, nil
	}

	var rules *domain.ValidationError
	if errors.As(in.Validate(), &rules) {
		for field, msgs := range rules.Fields {
			if len(ve.Field(field)) > 0 {
				continue
			}
			for _, msg := range msgs {
				ve.Add(field, msg)
			}
		}
	}
	return in, ve
}

// decodeString reads a string field. Absent and null values decode as "".
func decodeString(raw map[string]json.RawMessage, field string, ve *domain.ValidationError) string {
	v, ok := raw[field]
	if !ok || isJSONNull(v) {
		return ""
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		ve.Add(field, "must be a string")
		return ""
	}
	return s
}

// decodeNumber reads a coordinate field given as a JSON number or a numeric
// string. Absent and null values decode as nil.
func decodeNumber(raw map[string]json.RawMessage, field string, ve *domain.ValidationError) *float64 {
	v, ok := raw[field]
	if !ok || isJSONNull(v) {
		return nil
	}

	var text string
	if err := json.Unmarshal(v, &text); err != nil {
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			ve.Add(field, "must be a number")
			return nil
		}
		text = n.String()
	}

	f, err := domain.ParseCoordinate(text)
	if err != nil {
		ve.Add(field, "must be a number")
		return nil
	}
	return &f
}

func isJSONNull(v json.RawMessage) bool {
	return strings.TrimSpace(string(v)) == "null"
}
