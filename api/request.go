// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "context"

// Request is the read-only view of an incoming HTTP request consumed by
// the dispatch pipeline. Adapters wrap their framework's native request
// type to implement it.
//
// Header keys are expected to be lowercased by the adapter.
type Request interface {
	// Context carries request-scoped values and cancellation from the
	// surrounding server. The core starts trace spans from it but defines
	// no cancellation semantics of its own.
	Context() context.Context

	Scheme() string
	Host() string
	Method() Method
	Path() string
	Query() *MultiValueMap
	Headers() *MultiValueMap
	Cookies() *MultiValueMap
	Post() *MultiValueMap
	Body() ([]byte, error)
}

// Context carries the per-request mutable state threaded through every
// middleware stage and the operation callback.
//
// PathArgs is shared by reference (never copied) across the whole chain:
// a pre-dispatch hook may inject or rewrite arguments, e.g. decode an
// auth token into a user object, and later stages and the callback see
// the change. This aliasing is an intentional part of the contract.
type Context struct {
	Request   Request
	Operation *Operation
	PathArgs  map[string]any

	ctx           context.Context
	requestCodec  Codec
	responseCodec Codec
}

// NewContext builds a [Context] for one request. A nil pathArgs is
// replaced with an empty map so hooks can always inject arguments.
func NewContext(req Request, pathArgs map[string]any) *Context {
	if pathArgs == nil {
		pathArgs = make(map[string]any)
	}
	return &Context{
		Request:  req,
		PathArgs: pathArgs,
	}
}

// Context returns the request-scoped context, including any trace span
// the dispatch pipeline has started. Before dispatch it is the request's
// own context.
func (c *Context) Context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return c.Request.Context()
}

// Arg returns the named path argument, or nil when absent.
func (c *Context) Arg(name string) any {
	return c.PathArgs[name]
}

// RequestCodec returns the codec negotiated for decoding the request body.
func (c *Context) RequestCodec() Codec {
	return c.requestCodec
}

// SetRequestCodec records the request codec. When no response codec has
// been resolved yet the request codec is assumed for the response too.
func (c *Context) SetRequestCodec(codec Codec) {
	c.requestCodec = codec
	if c.responseCodec == nil {
		c.responseCodec = codec
	}
}

// ResponseCodec returns the codec negotiated for encoding the response body.
func (c *Context) ResponseCodec() Codec {
	return c.responseCodec
}

// SetResponseCodec records the response codec.
func (c *Context) SetResponseCodec(codec Codec) {
	c.responseCodec = codec
}
