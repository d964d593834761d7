// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"errors"
	"iter"
	"log/slog"
	"net/http"

	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/apiweave/apiweave/api"

type interfaceConfig struct {
	name       string
	prefix     *UrlPath
	debug      bool
	codecs     []Codec
	remap      map[string]string
	middleware []any
	reqRes     []ContentTypeResolver
	respRes    []ContentTypeResolver
	log        *slog.Logger
}

// InterfaceOption configures an [Interface] under construction.
type InterfaceOption func(*interfaceConfig)

// WithName sets the interface name. The default is "api". Unless an
// explicit prefix is set, the path prefix is "/" followed by the name.
func WithName(name string) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.name = name
	}
}

// WithPrefix sets an explicit path prefix. It must be absolute.
func WithPrefix(prefix UrlPath) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.prefix = &prefix
	}
}

// Debug controls debug mode. In debug mode unhandled errors propagate to
// the caller for external diagnostics instead of being converted into
// generic 500 responses.
func Debug(enabled bool) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.debug = enabled
	}
}

// WithCodec registers an additional codec, keyed by its content type.
// JSON is always registered.
func WithCodec(codec Codec) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.codecs = append(cfg.codecs, codec)
	}
}

// RemapContentType remaps a commonly mistaken content type onto a
// registered one. text/plain maps to application/json by default.
func RemapContentType(from, to string) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.remap[from] = to
	}
}

// WithMiddleware registers interface-level middleware values.
func WithMiddleware(values ...any) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.middleware = append(cfg.middleware, values...)
	}
}

// RequestResolvers replaces the request content-type resolver chain.
func RequestResolvers(resolvers ...ContentTypeResolver) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.reqRes = resolvers
	}
}

// ResponseResolvers replaces the response content-type resolver chain.
func ResponseResolvers(resolvers ...ContentTypeResolver) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.respRes = resolvers
	}
}

// WithLogger sets the logger used for unhandled error reporting.
func WithLogger(log *slog.Logger) InterfaceOption {
	return func(cfg *interfaceConfig) {
		cfg.log = log
	}
}

// Interface is the root container owning the registered codecs, the
// content-type resolver chains and the top-level dispatch pipeline.
//
// The tree below an interface is built once at startup and is read-only
// afterwards; concurrent dispatch against it requires no locking.
type Interface struct {
	Container

	codecs            map[string]Codec
	requestResolvers  []ContentTypeResolver
	responseResolvers []ContentTypeResolver
	remap             map[string]string
	middleware        *MiddlewareList
	debug             bool
	log               *slog.Logger
	tracer            trace.Tracer
}

// NewInterface builds the root [Interface]. It panics when the resolved
// path prefix is not absolute, as relative roots cannot be routed.
func NewInterface(opts ...InterfaceOption) *Interface {
	cfg := &interfaceConfig{
		name:    "api",
		remap:   map[string]string{"text/plain": JSONContentType},
		reqRes:  DefaultRequestResolvers(),
		respRes: DefaultResponseResolvers(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	prefix := MustParsePath("/" + cfg.name)
	if cfg.prefix != nil {
		prefix = *cfg.prefix
	}
	if !prefix.IsAbsolute() {
		panic("interface path prefix must be absolute (eg start with a '/')")
	}

	log := cfg.log
	if log == nil {
		log = otelslog.NewLogger(instrumentationName)
	}

	i := &Interface{
		Container: *newContainer(&containerConfig{
			name:   cfg.name,
			prefix: &prefix,
		}),
		codecs:            map[string]Codec{JSONContentType: JSON()},
		requestResolvers:  cfg.reqRes,
		responseResolvers: cfg.respRes,
		remap:             cfg.remap,
		middleware:        NewMiddlewareList(cfg.middleware...),
		debug:             cfg.debug,
		log:               log,
		tracer:            otel.Tracer(instrumentationName),
	}
	for _, codec := range cfg.codecs {
		i.codecs[codec.ContentType()] = codec
	}
	return i
}

// RegisterCodec adds a codec to the registry after construction.
func (i *Interface) RegisterCodec(codec Codec) {
	i.codecs[codec.ContentType()] = codec
}

// Debug reports whether debug mode is enabled.
func (i *Interface) Debug() bool {
	return i.debug
}

// Routes yields every (full-path, operation) pair registered below the
// interface, prefixed with the interface's own path.
func (i *Interface) Routes() iter.Seq2[UrlPath, *Operation] {
	return i.Operations(NoPath)
}

// PathOperations maps one full path onto its operations by method.
type PathOperations struct {
	Path    UrlPath
	Methods map[Method]*Operation
}

// CollatedOperations collates operations by path then method, preserving
// first-seen path order. Adapters that register one handler per path and
// dispatch by method themselves consume this form.
func (i *Interface) CollatedOperations() []PathOperations {
	var collated []PathOperations
	index := make(map[string]int)
	for path, op := range i.Routes() {
		key := path.String()
		at, ok := index[key]
		if !ok {
			at = len(collated)
			index[key] = at
			collated = append(collated, PathOperations{
				Path:    path,
				Methods: make(map[Method]*Operation),
			})
		}
		for _, m := range op.Methods() {
			collated[at].Methods[m] = op
		}
	}
	return collated
}

// Serve dispatches an incoming request against the matched operation,
// wrapping the inner pipeline with the pre-request and post-request
// middleware phases and a top-level guard. Outside debug mode the error
// return is always nil: any still-uncaught failure is funnelled through
// [Interface.Handle500] and converted into a response.
func (i *Interface) Serve(op *Operation, req Request, pathArgs map[string]any) (*Response, error) {
	spanCtx, span := i.tracer.Start(req.Context(), "Interface.Serve")
	defer span.End()

	ctx := NewContext(req, pathArgs)
	ctx.Operation = op
	ctx.ctx = spanCtx

	var resp *Response
	err := func() (err error) {
		defer try.Recover(&err)

		for _, h := range i.middleware.PreRequest() {
			if err := h.PreRequest(ctx); err != nil {
				return err
			}
		}

		r, err := i.dispatch(ctx)
		if err != nil {
			return err
		}
		resp = r

		for _, h := range i.middleware.PostRequest() {
			resp = h.PostRequest(ctx, resp)
		}
		return nil
	}()
	if err == nil {
		return resp, nil
	}
	if i.debug {
		return nil, err
	}

	resource := i.Handle500(ctx, err)
	resp, err = CreateResponse(ctx, resource, errorStatus(resource), nil)
	if err != nil {
		// The fallback error resource failed to encode; emit a bare 500.
		return ResponseFromStatus(http.StatusInternalServerError, nil), nil
	}
	return resp, nil
}

// dispatch performs content negotiation, method validation, operation
// dispatch and response assembly.
func (i *Interface) dispatch(ctx *Context) (*Response, error) {
	requestType := ResolveContentType(i.requestResolvers, ctx.Request)
	if to, ok := i.remap[requestType]; ok {
		requestType = to
	}
	requestCodec, ok := i.codecs[requestType]
	if !ok {
		return ResponseFromStatus(http.StatusUnprocessableEntity, nil), nil
	}
	ctx.SetRequestCodec(requestCodec)

	responseType := ResolveContentType(i.responseResolvers, ctx.Request)
	if to, ok := i.remap[responseType]; ok {
		responseType = to
	}
	responseCodec, ok := i.codecs[responseType]
	if !ok {
		return ResponseFromStatus(http.StatusNotAcceptable, nil), nil
	}
	ctx.SetResponseCodec(responseCodec)

	op := ctx.Operation
	if !op.HasMethod(ctx.Request.Method()) {
		return ResponseFromStatus(http.StatusMethodNotAllowed, map[string]string{
			"Allow": joinMethods(op.Methods()),
		}), nil
	}

	resource, status, headers, err := i.DispatchOperation(ctx)
	if err != nil {
		return nil, err
	}

	// A dispatch step may produce a ready low-level response; emit it
	// unchanged, bypassing encoding.
	if resp, ok := resource.(*Response); ok {
		return resp, nil
	}

	return CreateResponse(ctx, resource, status, headers)
}

// DispatchOperation runs the interface-level pre-dispatch phase, invokes
// the operation (which runs its own pre/post-dispatch stages) and the
// post-dispatch phase, classifying known failures into (resource, status,
// headers) triples. Unknown failures escalate to the 500 handler, or to
// the caller when debug mode is enabled.
func (i *Interface) DispatchOperation(ctx *Context) (any, int, map[string]string, error) {
	spanCtx, span := i.tracer.Start(ctx.Context(), "Interface.DispatchOperation")
	defer span.End()
	ctx.ctx = spanCtx

	resource, err := func() (resource any, err error) {
		defer try.Recover(&err)

		// PathArgs is mutated in place so later stages observe changes.
		for _, h := range i.middleware.PreDispatch() {
			if err := h.PreDispatch(ctx); err != nil {
				return nil, err
			}
		}

		resource, err = ctx.Operation.Invoke(ctx)
		if err != nil {
			return nil, err
		}

		for _, h := range i.middleware.PostDispatch() {
			resource, err = h.PostDispatch(ctx, resource)
			if err != nil {
				return nil, err
			}
		}
		return resource, nil
	}()
	if err == nil {
		return resource, 0, nil, nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Resource, httpErr.Resource.Status, httpErr.Headers, nil
	}

	var immediate *ImmediateResponse
	if errors.As(err, &immediate) {
		return immediate.Resource, immediate.Status, immediate.Headers, nil
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		e := NewError(http.StatusBadRequest, 0, invalid.Message)
		if invalid.Fields != nil {
			e.Message = "Failed validation"
			e.Meta = invalid.Fields
		}
		return e, e.Status, nil, nil
	}

	if errors.Is(err, ErrNotImplemented) {
		e := NewError(http.StatusNotImplemented, 0, "The method has not been implemented")
		return e, e.Status, nil, nil
	}

	if i.debug {
		return nil, 0, nil, err
	}

	res := i.Handle500(ctx, err)
	return res, errorStatus(res), nil, nil
}

// Handle500 gives each registered error hook, in reverse priority order,
// a chance to produce a substitute resource for an unhandled error. A
// hook that panics replaces the error being handled. When no hook
// produces a resource the error is logged and a generic, non-leaking
// error resource is returned.
func (i *Interface) Handle500(ctx *Context, cause error) any {
	var resource any
	hookErr := func() (err error) {
		defer try.Recover(&err)

		for _, h := range i.middleware.ErrorHooks() {
			if r := h.Handle500(ctx, cause); r != nil {
				resource = r
				return nil
			}
		}
		return nil
	}()
	if hookErr != nil {
		cause = hookErr
	} else if resource != nil {
		return resource
	}

	i.log.Error("internal server error",
		slog.String("path", ctx.Request.Path()),
		slog.String("method", string(ctx.Request.Method())),
		slog.Any("error", cause),
	)
	return NewError(http.StatusInternalServerError, 0, "An unhandled error has been caught.")
}

func errorStatus(resource any) int {
	if e, ok := resource.(*Error); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
