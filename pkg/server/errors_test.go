package server

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	err := WrapErrorf(context.Canceled, ErrInternalServerError, "route %d failed", 3)

	assert.Equal(t, "route 3 failed: context canceled", err.Error())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrInternalServerError, CodeOf(err))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "route 3 failed", e.Message())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrUnknown, CodeOf(nil))

	wrapped := fmt.Errorf("outer: %w", NewErrorf(ErrNotFound, "no route"))
	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.Equal(t, "not_found", CodeOf(wrapped).String())
}
