package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// trip or activity does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing trip name, end date before start date, slot index out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRemote is returned when the recommender could not be reached or reported
// a logical failure in its response body.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrRemote = errors.New("remote error")

// ErrNotImplemented marks an operation or response shape that is deliberately
// unsupported. It is returned loudly instead of empty placeholder data.
// Handlers should map this to HTTP 501.
var ErrNotImplemented = errors.New("not implemented")
