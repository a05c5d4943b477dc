package clierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, New(TaskNotFound, "missing").ExitCode())
	assert.Equal(t, 2, New(InternalError, "boom").ExitCode())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(InvalidImport, cause, "reading backup")

	assert.Equal(t, "reading backup: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, cause)

	var ce *Error
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, InvalidImport, ce.Code)
}

func TestHasCode(t *testing.T) {
	err := Newf(InvalidPriority, "invalid priority %q", "urgent").
		WithDetails(map[string]any{"priority": "urgent"})

	assert.True(t, HasCode(err, InvalidPriority))
	assert.False(t, HasCode(err, InvalidDate))
	assert.False(t, HasCode(errors.New("plain"), InvalidPriority))
	assert.Equal(t, "urgent", err.Details["priority"])
}
