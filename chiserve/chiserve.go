// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package chiserve adapts a routing tree onto a chi router.
//
// The adapter owns the contract the core leaves to it: matching requests
// to operations, and coercing the raw path parameter strings captured by
// the router into the types their path templates declare before dispatch.
package chiserve

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/apiweave/apiweave"
	"github.com/apiweave/apiweave/api"
	"github.com/apiweave/apiweave/internal/concurrent"
	"github.com/apiweave/apiweave/openapi"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type options struct {
	log            *slog.Logger
	openApiTitle   string
	openApiVersion string
	serveOpenApi   bool
}

// Option configures [Mount].
type Option func(*options)

// WithLogger sets the logger used for response write failures.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithOpenApi additionally serves the generated OpenAPI document at
// GET /openapi.json. The document is assembled once, on first request.
func WithOpenApi(title, version string) Option {
	return func(o *options) {
		o.serveOpenApi = true
		o.openApiTitle = title
		o.openApiVersion = version
	}
}

// Mount registers every operation below the interface with the mux. It
// fails when two operations resolve to the same path and method, as the
// routing table would be ambiguous.
func Mount(mux *chi.Mux, iface *api.Interface, opts ...Option) error {
	o := &options{
		log: apiweave.Logger("github.com/apiweave/apiweave/chiserve"),
	}
	for _, opt := range opts {
		opt(o)
	}

	seen := make(map[string]struct{})
	for path, op := range iface.Routes() {
		for _, m := range op.Methods() {
			key := path.String() + "|" + string(m)
			if _, ok := seen[key]; ok {
				return fmt.Errorf("duplicate route: %s %s", m, path)
			}
			seen[key] = struct{}{}
		}
	}

	for _, po := range iface.CollatedOperations() {
		pattern := "/" + strings.TrimPrefix(po.Path.Format(chiNodeFormatter), "/")
		params := po.Path.PathParams()

		for m, op := range po.Methods {
			h := operationHandler(iface, op, params, o.log)
			mux.Method(strings.ToUpper(string(m)), pattern, otelhttp.WithRouteTag(pattern, h))
		}
	}

	if o.serveOpenApi {
		mux.Get("/openapi.json", openApiHandler(iface, o))
	}
	return nil
}

// chiNodeFormatter renders parameters as chi placeholders; a type
// argument, when declared, is passed through as the chi regex form.
func chiNodeFormatter(p api.PathParam) string {
	if p.TypeArgs != "" {
		return "{" + p.Name + ":" + p.TypeArgs + "}"
	}
	return "{" + p.Name + "}"
}

func operationHandler(iface *api.Interface, op *api.Operation, params []api.PathParam, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pathArgs := make(map[string]any, len(params))
		for _, p := range params {
			v, err := coerceParam(p, chi.URLParam(r, p.Name))
			if err != nil {
				writeError(w, log, api.NewError(http.StatusBadRequest, 0,
					fmt.Sprintf("Invalid value for path parameter %q.", p.Name)))
				return
			}
			pathArgs[p.Name] = v
		}

		resp, err := iface.Serve(op, newRequest(r), pathArgs)
		if err != nil {
			// Debug mode only: hand the failure to the surrounding
			// framework's recovery tooling.
			panic(err)
		}
		writeResponse(w, resp, log)
	})
}

// coerceParam converts a raw matched path segment into the declared
// parameter type.
func coerceParam(p api.PathParam, raw string) (any, error) {
	switch p.Type {
	case api.Integer:
		return strconv.Atoi(raw)
	case api.Number:
		return strconv.ParseFloat(raw, 64)
	case api.Boolean:
		return strconv.ParseBool(raw)
	case api.Array:
		return strings.Split(raw, ","), nil
	default:
		return raw, nil
	}
}

func writeResponse(w http.ResponseWriter, resp *api.Response, log *slog.Logger) {
	for _, k := range resp.Headers.Keys() {
		for _, v := range resp.Headers.GetList(k) {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return
	}
	_, err := w.Write(resp.Body)
	if err != nil {
		log.Error("failed to write response body", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, e *api.Error) {
	b, err := json.Marshal(e)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", api.JSONContentType)
	w.WriteHeader(e.Status)
	_, err = w.Write(b)
	if err != nil {
		log.Error("failed to write error body", slog.Any("error", err))
	}
}

func openApiHandler(iface *api.Interface, o *options) http.HandlerFunc {
	cache := concurrent.NewCache[string, []byte]()

	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := cache.GetOr("doc", func() ([]byte, error) {
			spec, err := openapi.SpecOf(iface, o.openApiTitle, o.openApiVersion)
			if err != nil {
				return nil, err
			}
			return json.Marshal(spec)
		})
		if err != nil {
			o.log.ErrorContext(r.Context(), "failed to encode openapi schema to json", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", api.JSONContentType)
		_, err = w.Write(doc)
		if err != nil {
			o.log.ErrorContext(r.Context(), "failed to write openapi schema", slog.Any("error", err))
		}
	}
}
