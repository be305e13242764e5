// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The pharmacy service is stateless: it validates input, delegates to a single
// repository and translates store errors into service errors. It never spawns
// goroutines or holds locks, so one instance serves all requests.
//
// Error Handling:
//   - Input failures are returned as *domain.ValidationError
//   - A missing pharmacy is returned as ErrPharmacyNotFound
//   - Everything else is wrapped in *PharmacyServiceError
package service
