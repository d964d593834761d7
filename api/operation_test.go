// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopCallback(ctx *Context) (any, error) {
	return nil, nil
}

func TestNewOperation(t *testing.T) {
	t.Run("will default to the GET method", func(t *testing.T) {
		op := NewOperation(MustParsePath("items"), noopCallback)

		assert.Equal(t, []Method{MethodGet}, op.Methods())
		assert.True(t, op.HasMethod(MethodGet))
		assert.False(t, op.HasMethod(MethodPost))
	})

	t.Run("will panic when the method set is explicitly empty", func(t *testing.T) {
		assert.Panics(t, func() {
			NewOperation(MustParsePath("items"), noopCallback, Methods())
		})
	})

	t.Run("will substitute the key field placeholder before binding", func(t *testing.T) {
		op := NewOperation(PathOf(KeyParam()), noopCallback)

		assert.Equal(t, "{resource_id:Integer}", op.Path().String())
	})

	t.Run("will prefer the explicit resource's key field", func(t *testing.T) {
		op := NewOperation(PathOf(KeyParam()), noopCallback, WithResource(widgetType{}))

		assert.Equal(t, "{id:Integer}", op.Path().String())
	})
}

func TestOperation_bindTo(t *testing.T) {
	t.Run("will substitute the bound resource's key field", func(t *testing.T) {
		api := NewResourceAPI(widgetType{})
		op := NewOperation(PathOf(KeyParam()), noopCallback)

		api.Route(op)

		assert.True(t, op.IsBound())
		assert.Equal(t, "{id:Integer}", op.Path().String())
		assert.Equal(t, widgetType{}, op.Resource())
	})

	t.Run("will fall back to the default key field name", func(t *testing.T) {
		api := NewResourceAPI(namelessType{})
		op := NewOperation(PathOf(KeyParam()), noopCallback)

		api.Route(op)

		assert.Equal(t, "{resource_id:Integer}", op.Path().String())
	})

	t.Run("will panic when an operation is routed twice", func(t *testing.T) {
		op := NewOperation(MustParsePath("items"), noopCallback)
		NewResourceAPI(widgetType{}).Route(op)

		assert.Panics(t, func() {
			NewResourceAPI(widgetType{}).Route(op)
		})
	})
}

func TestOperation_Tags(t *testing.T) {
	t.Run("will merge operation and binding tags without duplicates", func(t *testing.T) {
		api := NewResourceAPI(widgetType{}, ResourceTags("widgets", "catalog"))
		op := NewOperation(MustParsePath("items"), noopCallback, Tags("catalog", "search"))

		api.Route(op)

		assert.Equal(t, []string{"catalog", "search", "widgets"}, op.Tags())
	})
}

func TestOperation_Equal(t *testing.T) {
	t.Run("will treat matching path and methods as the same endpoint", func(t *testing.T) {
		a := NewOperation(MustParsePath("items"), noopCallback, Methods(MethodGet, MethodPost))
		b := NewOperation(MustParsePath("items"), noopCallback, Methods(MethodPost, MethodGet))

		assert.True(t, a.Equal(b))
		assert.Equal(t, a.RouteKey(), b.RouteKey())
	})

	t.Run("will treat differing methods as distinct endpoints", func(t *testing.T) {
		a := NewOperation(MustParsePath("items"), noopCallback, Methods(MethodGet))
		b := NewOperation(MustParsePath("items"), noopCallback, Methods(MethodDelete))

		assert.False(t, a.Equal(b))
	})

	t.Run("will never equal a nil operation", func(t *testing.T) {
		a := NewOperation(MustParsePath("items"), noopCallback)

		assert.False(t, a.Equal(nil))
	})
}

func TestOperation_Invoke(t *testing.T) {
	t.Run("will run pre-dispatch hooks before the callback", func(t *testing.T) {
		op := NewOperation(MustParsePath("items"), func(ctx *Context) (any, error) {
			return ctx.Arg("user"), nil
		}, Middleware(preDispatchFunc(func(ctx *Context) error {
			ctx.PathArgs["user"] = "injected"
			return nil
		})))

		ctx := NewContext(newFakeRequest(MethodGet, "/items"), nil)
		ctx.Operation = op

		result, err := op.Invoke(ctx)
		require.NoError(t, err)
		assert.Equal(t, "injected", result)
	})

	t.Run("will feed the result through post-dispatch transforms", func(t *testing.T) {
		op := NewOperation(MustParsePath("items"), func(ctx *Context) (any, error) {
			return "raw", nil
		}, Middleware(postDispatchFunc(func(ctx *Context, result any) (any, error) {
			return result.(string) + "+wrapped", nil
		})))

		ctx := NewContext(newFakeRequest(MethodGet, "/items"), nil)
		ctx.Operation = op

		result, err := op.Invoke(ctx)
		require.NoError(t, err)
		assert.Equal(t, "raw+wrapped", result)
	})
}

// hook adapters used across the dispatch tests

type preRequestFunc func(*Context) error

func (f preRequestFunc) PreRequest(ctx *Context) error {
	return f(ctx)
}

type preDispatchFunc func(*Context) error

func (f preDispatchFunc) PreDispatch(ctx *Context) error {
	return f(ctx)
}

type postDispatchFunc func(*Context, any) (any, error)

func (f postDispatchFunc) PostDispatch(ctx *Context, result any) (any, error) {
	return f(ctx, result)
}

type postRequestFunc func(*Context, *Response) *Response

func (f postRequestFunc) PostRequest(ctx *Context, resp *Response) *Response {
	return f(ctx, resp)
}

// prioritizedHook wraps an ErrorHook with an explicit priority.
type prioritizedHook struct {
	priority int
	handle   func(*Context, error) any
}

func (h prioritizedHook) Priority() int {
	return h.priority
}

func (h prioritizedHook) Handle500(ctx *Context, err error) any {
	return h.handle(ctx, err)
}
