// Package domain contains the core business entities, value objects, and
// domain logic of the application: the Pharmacy entity, the query Point and
// its planar distance, pagination values, and the validation rules applied to
// client input. It is independent of any specific infrastructure or delivery
// mechanism.
package domain
