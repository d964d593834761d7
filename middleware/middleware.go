// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package middleware provides ready-made hook values for the dispatch
// pipeline's middleware phases.
package middleware

import (
	"log/slog"
	"time"

	"github.com/apiweave/apiweave/api"

	"github.com/google/uuid"
)

// RequestIDArg is the path-argument key the [RequestID] middleware
// injects its identifier under.
const RequestIDArg = "request_id"

// RequestIDHeader is the response header carrying the request identifier.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns each request a UUID, visible to later middleware
// stages and the callback through Context.PathArgs, and echoed on the
// response.
type RequestID struct{}

// PreRequest implements [api.PreRequestHandler].
func (RequestID) PreRequest(ctx *api.Context) error {
	ctx.PathArgs[RequestIDArg] = uuid.NewString()
	return nil
}

// PostRequest implements [api.PostRequestHandler].
func (RequestID) PostRequest(ctx *api.Context, resp *api.Response) *api.Response {
	if id, ok := ctx.PathArgs[RequestIDArg].(string); ok {
		resp.Headers.Set(RequestIDHeader, id)
	}
	return resp
}

// Priority implements [api.Prioritized]. RequestID runs before other
// default-priority middleware so the identifier is available to them.
func (RequestID) Priority() int {
	return 0
}

const startArg = "__request_start"

// RequestLogger logs one line per dispatched request.
type RequestLogger struct {
	log *slog.Logger
	now func() time.Time
}

// NewRequestLogger builds a [RequestLogger] emitting to the given logger.
func NewRequestLogger(log *slog.Logger) *RequestLogger {
	return &RequestLogger{
		log: log,
		now: time.Now,
	}
}

// PreRequest implements [api.PreRequestHandler].
func (l *RequestLogger) PreRequest(ctx *api.Context) error {
	ctx.PathArgs[startArg] = l.now()
	return nil
}

// PostRequest implements [api.PostRequestHandler].
func (l *RequestLogger) PostRequest(ctx *api.Context, resp *api.Response) *api.Response {
	attrs := []slog.Attr{
		slog.String("method", string(ctx.Request.Method())),
		slog.String("path", ctx.Request.Path()),
		slog.Int("status", resp.Status),
	}
	if start, ok := ctx.PathArgs[startArg].(time.Time); ok {
		attrs = append(attrs, slog.Duration("duration", l.now().Sub(start)))
	}
	l.log.LogAttrs(ctx.Context(), slog.LevelInfo, "request dispatched", attrs...)
	return resp
}
