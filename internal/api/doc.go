// Package api handles incoming HTTP requests for the pharmacy resource:
// routing, parameter extraction, boundary validation and response
// formatting. Validation failures answer 422 with a field map; every other
// failure answers 400 with a sanitized message.
package api
