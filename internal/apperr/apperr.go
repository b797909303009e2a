package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Typed error taxonomy for the ledger. Everything is detected before the
// mutating statements where feasible, formatted to a single human-readable
// message at the handler boundary.

// ValidationError covers bad quantities, directions, and request shapes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ReferenceError covers a missing product, lot, or header.
type ReferenceError struct {
	Msg string
}

func (e *ReferenceError) Error() string { return e.Msg }

func Referencef(format string, args ...interface{}) error {
	return &ReferenceError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is returned when a decrement exceeds availability.
type InsufficientStockError struct {
	Name      string
	Expiry    string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	expiry := e.Expiry
	if expiry == "" {
		expiry = "no expiry"
	}
	return fmt.Sprintf("insufficient stock: %s (expiry %s) has %d, requested decrease of %d",
		e.Name, expiry, e.Available, e.Requested)
}

// TransportError wraps a connection or transaction failure from the database
// gateway.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "database error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// IsDomain reports whether err is one of the ledger's own error kinds
// (as opposed to a raw gateway failure).
func IsDomain(err error) bool {
	var ve *ValidationError
	var re *ReferenceError
	var ie *InsufficientStockError
	return errors.As(err, &ve) || errors.As(err, &re) || errors.As(err, &ie)
}

// WrapTransport passes domain errors through untouched and wraps anything
// else as a TransportError. Used on the result of a transaction block.
func WrapTransport(err error) error {
	if err == nil || IsDomain(err) {
		return err
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Err: err}
}

// HTTPStatus maps the taxonomy to a response status code.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var re *ReferenceError
	var ie *InsufficientStockError
	var te *TransportError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.As(err, &re):
		return fiber.StatusNotFound
	case errors.As(err, &ie):
		return fiber.StatusConflict
	case errors.As(err, &te):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
