package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	withInner := &AppError{Code: "SERVICE_UNAVAILABLE", Message: "redis is unavailable", Err: fmt.Errorf("connection lost")}
	assert.Equal(t, "SERVICE_UNAVAILABLE: redis is unavailable: connection lost", withInner.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", bare.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound("product", "abc-123")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "abc-123")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Unavailable("mongodb", cause)

	assert.Equal(t, "SERVICE_UNAVAILABLE", err.Code)
	assert.ErrorIs(t, err, ErrServiceUnavail)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", NotFound("wishlist", "1"), "NOT_FOUND"},
		{"wrapped unavailable", fmt.Errorf("list: %w", Unavailable("postgres", errors.New("eof"))), "SERVICE_UNAVAILABLE"},
		{"plain error", errors.New("boom"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}
