package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewValidationError("title must be a string")
	assert.Equal(t, "VALIDATION: title must be a string", err.Error())

	cause := errors.New("connection reset")
	dbErr := NewDatabaseError("Scan", cause)
	assert.Equal(t, "DATABASE: database operation 'Scan' failed (caused by: connection reset)", dbErr.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewDatabaseError("PutItem", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("save post: %w", err), &appErr))
	assert.Equal(t, ErrorTypeDatabase, appErr.Type)
}

func TestAppError_Extensions(t *testing.T) {
	err := NewDatabaseError("UpdateItem", errors.New("throttled")).
		WithCode("STORE_UNAVAILABLE").
		WithDetails(map[string]interface{}{"table": "posts"})

	ext := err.Extensions()
	assert.Equal(t, "DATABASE", ext["type"])
	assert.Equal(t, "STORE_UNAVAILABLE", ext["code"])
	assert.Equal(t, "posts", ext["table"])
}

func TestAppError_ExtensionsOmitsEmptyCode(t *testing.T) {
	ext := NewInternalError("oops").Extensions()
	assert.Equal(t, "INTERNAL", ext["type"])
	_, ok := ext["code"]
	assert.False(t, ok)
}

func TestIsTypeHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("post")))
	assert.True(t, IsValidation(NewValidationError("bad input")))
	assert.True(t, IsDatabase(NewDatabaseError("DeleteItem", nil)))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))

	wrapped := Wrap(errors.New("low level"), "list posts")
	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeInternal, appErr.Type)
	assert.Equal(t, "list posts", appErr.Message)

	// Wrapping an AppError keeps its type and prefixes the message.
	inner := NewDatabaseError("Scan", errors.New("timeout"))
	rewrapped := Wrapf(inner, "list posts for %s", "feed")
	appErr = GetAppError(rewrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeDatabase, appErr.Type)
	assert.Contains(t, appErr.Message, "list posts for feed")
}
