// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package chiserve

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apiweave/apiweave/api"
	"github.com/apiweave/apiweave/resource"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Widget struct {
	ID   int    `json:"id" api:"key"`
	Name string `json:"name"`
}

func newTestServer(t *testing.T, iface *api.Interface, opts ...Option) *httptest.Server {
	t.Helper()

	mux := chi.NewMux()
	require.NoError(t, Mount(mux, iface, opts...))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMount(t *testing.T) {
	t.Run("will dispatch a matched request", func(t *testing.T) {
		iface := api.NewInterface()
		widgets := api.NewResourceAPI(resource.Of[Widget]()).Route(
			api.NewOperation(api.PathOf(api.KeyParam()), func(ctx *api.Context) (any, error) {
				return &Widget{ID: ctx.Arg("id").(int), Name: "sprocket"}, nil
			}),
		)
		iface.Add(widgets)

		srv := newTestServer(t, iface)

		resp, err := http.Get(srv.URL + "/api/widget/5")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, api.JSONContentType, resp.Header.Get("Content-Type"))

		var got Widget
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, Widget{ID: 5, Name: "sprocket"}, got)
	})

	t.Run("will reject a path parameter of the wrong type", func(t *testing.T) {
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets/{id:Integer}"), func(ctx *api.Context) (any, error) {
			return nil, nil
		})

		srv := newTestServer(t, iface)

		resp, err := http.Get(srv.URL + "/api/widgets/abc")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var e api.Error
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Contains(t, e.Message, `"id"`)
	})

	t.Run("will answer an unsupported method with 405", func(t *testing.T) {
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			return nil, nil
		}, api.Methods(api.MethodGet, api.MethodPost))

		srv := newTestServer(t, iface)

		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/widgets", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		// chi rejects methods it has no handler for before dispatch
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("will decode a posted body through the request wrapper", func(t *testing.T) {
		widgetType := resource.Of[Widget]()
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			w, err := api.DecodeBody(ctx, widgetType, false)
			if err != nil {
				return nil, err
			}
			return nil, &api.ImmediateResponse{Resource: w, Status: http.StatusCreated}
		}, api.Methods(api.MethodPost))

		srv := newTestServer(t, iface)

		resp, err := http.Post(srv.URL+"/api/widgets", "application/json; charset=utf-8",
			strings.NewReader(`{"id": 9, "name": "bolt"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got Widget
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, Widget{ID: 9, Name: "bolt"}, got)
	})

	t.Run("will return an error for colliding routes", func(t *testing.T) {
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) { return nil, nil })
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) { return nil, nil })

		err := Mount(chi.NewMux(), iface)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate route")
	})

	t.Run("will serve the openapi document when enabled", func(t *testing.T) {
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			return nil, nil
		})

		srv := newTestServer(t, iface, WithOpenApi("Widget Service", "1.0.0"))

		resp, err := http.Get(srv.URL + "/openapi.json")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, api.JSONContentType, resp.Header.Get("Content-Type"))

		var doc map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Contains(t, doc["paths"].(map[string]any), "/api/widgets")
		assert.Equal(t, "Widget Service", doc["info"].(map[string]any)["title"])
	})
}

func TestRequestWrapper(t *testing.T) {
	t.Run("will lowercase header keys", func(t *testing.T) {
		var seen string
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			seen = ctx.Request.Headers().Get("x-custom")
			return nil, nil
		})

		srv := newTestServer(t, iface)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/widgets", nil)
		require.NoError(t, err)
		req.Header.Set("X-Custom", "value")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "value", seen)
	})

	t.Run("will expose query parameters", func(t *testing.T) {
		var seen []string
		iface := api.NewInterface()
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			seen = ctx.Request.Query().GetList("tag")
			return nil, nil
		})

		srv := newTestServer(t, iface)

		resp, err := http.Get(srv.URL + "/api/widgets?tag=a&tag=b")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.ElementsMatch(t, []string{"a", "b"}, seen)
	})

	t.Run("will parse urlencoded form fields without consuming the body", func(t *testing.T) {
		var name string
		var raw []byte
		iface := api.NewInterface(
			api.RemapContentType("application/x-www-form-urlencoded", api.JSONContentType),
		)
		iface.Operation(api.MustParsePath("widgets"), func(ctx *api.Context) (any, error) {
			name = ctx.Request.Post().Get("name")
			raw, _ = ctx.Request.Body()
			return nil, nil
		}, api.Methods(api.MethodPost))

		srv := newTestServer(t, iface)

		resp, err := http.Post(srv.URL+"/api/widgets", "application/x-www-form-urlencoded",
			strings.NewReader("name=bolt&size=3"))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "bolt", name)
		assert.Equal(t, []byte("name=bolt&size=3"), raw)
	})
}

func TestCoerceParam(t *testing.T) {
	t.Run("will coerce each declared type", func(t *testing.T) {
		v, err := coerceParam(api.PathParam{Name: "id", Type: api.Integer}, "42")
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		v, err = coerceParam(api.PathParam{Name: "score", Type: api.Number}, "2.5")
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)

		v, err = coerceParam(api.PathParam{Name: "active", Type: api.Boolean}, "true")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		v, err = coerceParam(api.PathParam{Name: "slug", Type: api.String}, "a-b")
		require.NoError(t, err)
		assert.Equal(t, "a-b", v)

		v, err = coerceParam(api.PathParam{Name: "ids", Type: api.Array}, "1,2,3")
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, v)
	})

	t.Run("will return an error for a malformed value", func(t *testing.T) {
		_, err := coerceParam(api.PathParam{Name: "id", Type: api.Integer}, "abc")
		assert.Error(t, err)
	})
}

func TestReadAll(t *testing.T) {
	t.Run("will drain and close the reader", func(t *testing.T) {
		rc := io.NopCloser(strings.NewReader("payload"))

		b, err := readAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), b)
	})
}
