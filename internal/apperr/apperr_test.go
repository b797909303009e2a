package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, 400, HTTPStatus(Validationf("bad quantity")))
	assert.Equal(t, 404, HTTPStatus(Referencef("product does not exist: Milk")))
	assert.Equal(t, 409, HTTPStatus(&InsufficientStockError{Name: "Milk"}))
	assert.Equal(t, 502, HTTPStatus(&TransportError{Err: errors.New("connection refused")}))
	assert.Equal(t, 500, HTTPStatus(errors.New("something else")))
}

func TestInsufficientStockMessageNamesTheLot(t *testing.T) {
	err := &InsufficientStockError{Name: "Milk", Expiry: "2024-06-01", Available: 10, Requested: 15}
	assert.Equal(t, "insufficient stock: Milk (expiry 2024-06-01) has 10, requested decrease of 15", err.Error())

	noExpiry := &InsufficientStockError{Name: "Salt", Available: 1, Requested: 2}
	assert.Contains(t, noExpiry.Error(), "no expiry")
}

func TestWrapTransportPassesDomainErrorsThrough(t *testing.T) {
	ve := Validationf("bad")
	assert.Equal(t, ve, WrapTransport(ve))

	ise := &InsufficientStockError{Name: "Milk"}
	assert.Equal(t, error(ise), WrapTransport(ise))

	assert.Nil(t, WrapTransport(nil))

	raw := errors.New("broken pipe")
	wrapped := WrapTransport(raw)
	var te *TransportError
	assert.ErrorAs(t, wrapped, &te)
	assert.ErrorIs(t, wrapped, raw)

	// Already-wrapped transport errors are not double-wrapped
	assert.Equal(t, wrapped, WrapTransport(wrapped))
}

func TestWrapTransportSeesWrappedDomainErrors(t *testing.T) {
	inner := Referencef("loan does not exist")
	outer := fmt.Errorf("rollback: %w", inner)
	assert.Equal(t, outer, WrapTransport(outer))
	assert.Equal(t, 404, HTTPStatus(outer))
}
