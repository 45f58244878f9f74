package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCodeWalksChain(t *testing.T) {
	inner := New(CodeConflict, "version mismatch")
	outer := Wrap(inner, CodeInternal, "update failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("loading document: %w", New(CodeNotFound, "no such document"))
	assert.True(t, HasCode(err, CodeNotFound))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(New(CodeValidation, "bad payload")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))

	// The outermost code wins.
	wrapped := Wrap(New(CodeNotFound, "inner"), CodeConflict, "outer")
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
}

func TestMessageAndUnwrap(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Wrap(cause, CodeConflict, "concurrent update")

	assert.Equal(t, "concurrent update", Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, Message(errors.New("plain")))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(CodeConflict, "stale version")))
	assert.False(t, Retryable(New(CodeValidation, "bad input")))
	assert.False(t, Retryable(nil))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidTransition, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInvariantViolation, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(errors.New("connection refused"), CodeInternal, "store unavailable")
	require.Contains(t, err.Error(), "internal_error")
	require.Contains(t, err.Error(), "connection refused")
}
