package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCategoryAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		category   ErrorCategory
		httpStatus int
	}{
		{"schema", NewSchemaError("bad column", nil), CategorySchema, http.StatusInternalServerError},
		{"consistency", NewConsistencyError("tables disagree", nil), CategoryConsistency, http.StatusInternalServerError},
		{"missing point", NewMissingPointError("Moon"), CategoryMissingPoint, http.StatusUnprocessableEntity},
		{"invalid input", NewInvalidInputError("bad date"), CategoryInvalidInput, http.StatusBadRequest},
		{"external api", NewExternalAPIError("ephemeris", fmt.Errorf("connection refused")), CategoryExternalAPI, http.StatusBadGateway},
		{"timeout", NewTimeoutError("slow upstream", nil), CategoryTimeout, http.StatusGatewayTimeout},
		{"internal", NewInternalError("boom", fmt.Errorf("cause")), CategoryInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestMissingPointErrorNamesThePoint(t *testing.T) {
	err := NewMissingPointError("Moon")
	assert.Contains(t, err.Error(), "Moon")
	assert.Contains(t, err.Error(), "MISSING_POINT")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalAPIError("ephemeris", cause)
	assert.ErrorIs(t, err, cause)
}

func TestToAppError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToAppError(nil))
	})

	t.Run("passes through AppError unchanged", func(t *testing.T) {
		orig := NewMissingPointError("Sun")
		assert.Same(t, orig, ToAppError(orig))
	})

	t.Run("network failures map to external api", func(t *testing.T) {
		for _, msg := range []string{
			"dial tcp: connection refused",
			"lookup ephemeris: no such host",
			"network is unreachable",
		} {
			appErr := ToAppError(errors.New(msg))
			assert.Equal(t, CategoryExternalAPI, appErr.Category, msg)
		}
	})

	t.Run("timeout strings map to timeout", func(t *testing.T) {
		appErr := ToAppError(errors.New("context deadline exceeded"))
		assert.Equal(t, CategoryTimeout, appErr.Category)
	})

	t.Run("context sentinels map to timeout", func(t *testing.T) {
		assert.Equal(t, CategoryTimeout, ToAppError(context.Canceled).Category)
		assert.Equal(t, CategoryTimeout, ToAppError(context.DeadlineExceeded).Category)
	})

	t.Run("anything else is internal", func(t *testing.T) {
		appErr := ToAppError(errors.New("some bug"))
		assert.Equal(t, CategoryInternal, appErr.Category)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	})
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewExternalAPIError("ephemeris", nil)))
	assert.True(t, IsRetryableError(NewTimeoutError("slow", nil)))

	assert.False(t, IsRetryableError(NewInvalidInputError("bad date")))
	assert.False(t, IsRetryableError(NewMissingPointError("Moon")))
	assert.False(t, IsRetryableError(NewSchemaError("bad column", nil)))
	assert.False(t, IsRetryableError(NewInternalError("boom", nil)))
}

func TestIsFatalLoadError(t *testing.T) {
	assert.True(t, IsFatalLoadError(NewSchemaError("bad column", nil)))
	assert.True(t, IsFatalLoadError(NewConsistencyError("tables disagree", nil)))

	assert.False(t, IsFatalLoadError(NewMissingPointError("Moon")))
	assert.False(t, IsFatalLoadError(NewExternalAPIError("ephemeris", nil)))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := WrapError(cause, "saving analysis %s", "abc")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "saving analysis abc")
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, WrapError(nil, "ignored"))
}
