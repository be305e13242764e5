// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields: set the field for the method under test and
// leave the rest nil. An unset method returns the zero value together with
// DefaultError.
//
//	import "github.com/phrazzld/pharmacy-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    svc := &mocks.MockPharmacyService{
//	        ShowFn: func(ctx context.Context, id int64) (*domain.Pharmacy, error) {
//	            return &domain.Pharmacy{ID: id}, nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
