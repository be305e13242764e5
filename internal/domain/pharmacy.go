package domain

import (
	"time"
)

// Pharmacy is a store location with a name, a street address and the
// coordinates used by the distance queries.
type Pharmacy struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nombre"`
	Address   string    `json:"direccion"`
	Latitude  float64   `json:"latitud"`
	Longitude float64   `json:"longitud"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PharmacyInput carries the writable fields of a pharmacy as sent by a client.
// Coordinates are pointers so that an absent value can be told apart from 0.
type PharmacyInput struct {
	Name      string   `json:"nombre"    validate:"required,notblank"`
	Address   string   `json:"direccion" validate:"required,notblank"`
	Latitude  *float64 `json:"latitud"   validate:"required"`
	Longitude *float64 `json:"longitud"  validate:"required"`
}

// Validate checks the input against the pharmacy rule set: name and address
// are required strings, latitude and longitude are required numbers.
// Returns a *ValidationError naming every failing field.
func (in PharmacyInput) Validate() error {
	return validateStruct(in)
}

// NewPharmacy validates the input and builds an unsaved Pharmacy from it.
// ID and timestamps are left for the store to assign.
func NewPharmacy(in PharmacyInput) (*Pharmacy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &Pharmacy{}
	in.applyTo(p)
	return p, nil
}

// applyTo copies the input fields onto p. The input must already be valid.
func (in PharmacyInput) applyTo(p *Pharmacy) {
	p.Name = in.Name
	p.Address = in.Address
	p.Latitude = *in.Latitude
	p.Longitude = *in.Longitude
}

// PharmacyDistance pairs a pharmacy with its distance to a query point.
type PharmacyDistance struct {
	Pharmacy *Pharmacy
	Distance float64
}
