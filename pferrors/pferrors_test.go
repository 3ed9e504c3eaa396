package pferrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithMsgCopies(t *testing.T) {
	err := InvalidRequestParam.WithMsg("symbol is required")

	assert.Equal(t, "symbol is required", err.Message)
	assert.Equal(t, InvalidRequestParam.Code, err.Code)

	// the shared value is untouched
	assert.Equal(t, "request parameters are invalid", InvalidRequestParam.Message)
}

func TestWithErrorIsNotExposed(t *testing.T) {
	raw := errors.New("pq: connection refused")
	err := InternalServerError.WithError(raw)

	assert.Equal(t, raw, err.RawException())

	body := err.ExceptionBody()
	assert.Equal(t, InternalServerError.Code, body["code"])
	assert.Equal(t, InternalServerError.Message, body["message"])
	assert.Nil(t, InternalServerError.RawError)
}

func TestFormat(t *testing.T) {
	assert.Equal(t,
		"resource not found (Code = 40410000) : pq: no rows",
		Format(NotFound.WithError(errors.New("pq: no rows"))))

	assert.Equal(t,
		"resource not found (Code = 40410000)",
		Format(NotFound))

	assert.Equal(t, "plain", Format(errors.New("plain")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound))
	assert.True(t, IsNotFound(NotFound.WithMsg("holding not found")))
	assert.False(t, IsNotFound(InternalServerError))
}
