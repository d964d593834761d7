// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	t.Run("will compute the code from status and index", func(t *testing.T) {
		e := NewError(http.StatusBadRequest, 96, "Unable to decode body.")

		assert.Equal(t, http.StatusBadRequest, e.Status)
		assert.Equal(t, 40096, e.Code)
		assert.Equal(t, "Unable to decode body.", e.Message)
	})

	t.Run("will default the message to the reason phrase", func(t *testing.T) {
		e := NewError(http.StatusNotFound, 0, "")

		assert.Equal(t, "Not Found", e.Message)
	})
}

func TestNewHTTPError(t *testing.T) {
	t.Run("will apply options to the carried resource", func(t *testing.T) {
		err := NewHTTPError(http.StatusConflict,
			WithCodeIndex(3),
			WithMessage("Widget already exists."),
			WithDeveloperMessage("unique constraint on name"),
			WithMeta(map[string]string{"name": "duplicate"}),
			WithHeaders(map[string]string{"Retry-After": "1"}),
		)

		require.NotNil(t, err.Resource)
		assert.Equal(t, http.StatusConflict, err.Resource.Status)
		assert.Equal(t, 40903, err.Resource.Code)
		assert.Equal(t, "Widget already exists.", err.Resource.Message)
		assert.Equal(t, "unique constraint on name", err.Resource.DeveloperMessage)
		assert.Equal(t, map[string]string{"name": "duplicate"}, err.Resource.Meta)
		assert.Equal(t, "1", err.Headers["Retry-After"])
	})
}

func TestPermissionDenied(t *testing.T) {
	t.Run("will carry a 401 resource", func(t *testing.T) {
		err := PermissionDenied("Sign in first.")

		assert.Equal(t, http.StatusUnauthorized, err.Resource.Status)
		assert.Equal(t, "Sign in first.", err.Resource.Message)
	})
}

func TestAccessDenied(t *testing.T) {
	t.Run("will carry a 403 resource", func(t *testing.T) {
		err := AccessDenied("Not your widget.")

		assert.Equal(t, http.StatusForbidden, err.Resource.Status)
		assert.Equal(t, "Not your widget.", err.Resource.Message)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("will include field failures in its message", func(t *testing.T) {
		err := &ValidationError{
			Message: "Failed validation",
			Fields:  map[string]string{"name": "required"},
		}

		assert.Contains(t, err.Error(), "Failed validation")
		assert.Contains(t, err.Error(), "name")
	})
}
