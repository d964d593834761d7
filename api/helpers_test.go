// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeCtx(body []byte) *Context {
	ctx := NewContext(newFakeRequest(MethodPost, "/api/widgets").withBody(body), nil)
	ctx.SetRequestCodec(JSON())
	return ctx
}

func requireHTTPError(t *testing.T, err error, status, code int) *HTTPError {
	t.Helper()

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Resource.Status)
	assert.Equal(t, code, httpErr.Resource.Code)
	return httpErr
}

func TestDecodeBody(t *testing.T) {
	t.Run("will decode a single resource", func(t *testing.T) {
		got, err := DecodeBody(decodeCtx([]byte(`{"id": 3, "name": "bolt"}`)), widgetType{}, false)
		require.NoError(t, err)

		assert.Equal(t, &widget{ID: 3, Name: "bolt"}, got)
	})

	t.Run("will decode a list when multiple resources are allowed", func(t *testing.T) {
		got, err := DecodeBody(decodeCtx([]byte(`[{"id": 1}, {"id": 2}]`)), widgetType{}, true)
		require.NoError(t, err)

		items, ok := got.([]*widget)
		require.True(t, ok)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].ID)
		assert.Equal(t, 2, items[1].ID)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the body cannot be read", func(t *testing.T) {
			req := newFakeRequest(MethodPost, "/api/widgets")
			req.bodyErr = errors.New("connection reset")
			ctx := NewContext(req, nil)

			_, err := DecodeBody(ctx, widgetType{}, false)
			requireHTTPError(t, err, http.StatusBadRequest, 40099)
		})

		t.Run("if the body is not valid utf-8", func(t *testing.T) {
			_, err := DecodeBody(decodeCtx([]byte{0xff, 0xfe}), widgetType{}, false)
			requireHTTPError(t, err, http.StatusBadRequest, 40099)
		})

		t.Run("if the body is malformed", func(t *testing.T) {
			_, err := DecodeBody(decodeCtx([]byte(`{"id": `)), widgetType{}, false)
			requireHTTPError(t, err, http.StatusBadRequest, 40096)
		})

		t.Run("if a list is sent where a single resource is expected", func(t *testing.T) {
			_, err := DecodeBody(decodeCtx([]byte(`[{"id": 1}]`)), widgetType{}, false)
			httpErr := requireHTTPError(t, err, http.StatusBadRequest, 40097)
			assert.Equal(t, "Expected a single resource not a list.", httpErr.Resource.Message)
		})

		t.Run("if the body is a null literal", func(t *testing.T) {
			_, err := DecodeBody(decodeCtx([]byte(`null`)), widgetType{}, false)
			requireHTTPError(t, err, http.StatusBadRequest, 40098)
		})

		t.Run("if a list contains a null entry", func(t *testing.T) {
			_, err := DecodeBody(decodeCtx([]byte(`[{"id": 1}, null]`)), widgetType{}, true)
			requireHTTPError(t, err, http.StatusBadRequest, 40098)
		})
	})
}

func TestCreateResponse(t *testing.T) {
	t.Run("will return 204 for a nil body", func(t *testing.T) {
		resp, err := CreateResponse(decodeCtx(nil), nil, 0, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, resp.Status)
		assert.Empty(t, resp.Body)
	})

	t.Run("will default the status to 200", func(t *testing.T) {
		resp, err := CreateResponse(decodeCtx(nil), &widget{ID: 1}, 0, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, JSONContentType, resp.ContentType())
	})

	t.Run("will keep an explicit status and headers", func(t *testing.T) {
		resp, err := CreateResponse(decodeCtx(nil), &widget{ID: 1}, http.StatusCreated, map[string]string{
			"Location": "/api/widgets/1",
		})
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.Equal(t, "/api/widgets/1", resp.Headers.Get("Location"))
	})

	t.Run("will return the codec's encoding error", func(t *testing.T) {
		_, err := CreateResponse(decodeCtx(nil), make(chan int), 0, nil)
		require.Error(t, err)
	})
}
