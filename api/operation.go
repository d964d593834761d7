// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Callback is the raw handler an [Operation] wraps. Path arguments,
// negotiated codecs and the matched operation are available through the
// [Context].
type Callback func(*Context) (any, error)

// ParamIn locates a documented operation parameter.
type ParamIn string

const (
	InPath  ParamIn = "path"
	InQuery ParamIn = "query"
)

// ParamDoc documents a non-path parameter an operation consumes, for
// OpenAPI output.
type ParamDoc struct {
	Name        string
	In          ParamIn
	Type        ParamType
	Description string
}

// OperationOptions holds configuration collected by [OperationOption]
// values when constructing an [Operation].
type OperationOptions struct {
	methods    []Method
	resource   ResourceType
	tags       []string
	summary    string
	middleware []any

	// listing configuration, consumed by NewListOperation
	defaultOffset int
	defaultLimit  int
	maxLimit      int
	pagingMode    PagingMode
}

// OperationOption configures an operation under construction.
type OperationOption func(*OperationOptions)

// Methods sets the accepted HTTP methods. The default is GET only.
func Methods(methods ...Method) OperationOption {
	return func(oo *OperationOptions) {
		oo.methods = methods
	}
}

// WithResource explicitly associates a resource with the operation,
// overriding the resource of any [ResourceAPI] it is later bound to.
func WithResource(rt ResourceType) OperationOption {
	return func(oo *OperationOptions) {
		oo.resource = rt
	}
}

// Tags applies documentation tags to the operation.
func Tags(tags ...string) OperationOption {
	return func(oo *OperationOptions) {
		oo.tags = append(oo.tags, tags...)
	}
}

// Summary sets the operation's documentation summary.
func Summary(summary string) OperationOption {
	return func(oo *OperationOptions) {
		oo.summary = summary
	}
}

// Middleware appends middleware values to the operation's own list. They
// run inside the interface-level phases, wrapping only this operation.
func Middleware(values ...any) OperationOption {
	return func(oo *OperationOptions) {
		oo.middleware = append(oo.middleware, values...)
	}
}

// Operation is the atomic routable unit: a path template plus a set of
// HTTP methods and the callback they dispatch to.
//
// An operation is constructed at route-declaration time and optionally
// bound to a [ResourceAPI] exactly once, which finalizes its path by
// substituting the conventional key-field placeholder with the resource's
// key field name. After binding the operation is immutable apart from
// middleware appends made during container composition; the routing table
// is static once traffic begins.
type Operation struct {
	callback   Callback
	urlPath    UrlPath
	path       UrlPath
	methods    []Method
	resource   ResourceType
	tags       []string
	summary    string
	middleware *MiddlewareList
	paramDocs  []ParamDoc

	sortKey int
	binding *ResourceAPI

	execute func(*Context) (any, error)
}

// NewOperation builds an [Operation] from a path template and callback.
func NewOperation(path UrlPath, callback Callback, opts ...OperationOption) *Operation {
	oo := &OperationOptions{
		methods: []Method{MethodGet},
	}
	for _, opt := range opts {
		opt(oo)
	}
	if len(oo.methods) == 0 {
		panic("operation requires at least one method")
	}

	op := &Operation{
		callback:   callback,
		urlPath:    path,
		path:       path,
		methods:    oo.methods,
		resource:   oo.resource,
		tags:       oo.tags,
		summary:    oo.summary,
		middleware: NewMiddlewareList(oo.middleware...),
	}
	op.execute = op.invokeCallback
	// Unbound operations still need a usable path.
	op.path = path.BindParamNames(map[string]string{
		KeyFieldPlaceholder: op.keyFieldName(),
	})
	return op
}

func (o *Operation) invokeCallback(ctx *Context) (any, error) {
	return o.callback(ctx)
}

// Invoke runs the operation's own pre-dispatch hooks (which may mutate
// Context.PathArgs in place), executes the callback, then feeds the
// result through the post-dispatch transform chain.
func (o *Operation) Invoke(ctx *Context) (any, error) {
	for _, h := range o.middleware.PreDispatch() {
		if err := h.PreDispatch(ctx); err != nil {
			return nil, err
		}
	}

	result, err := o.execute(ctx)
	if err != nil {
		return nil, err
	}

	for _, h := range o.middleware.PostDispatch() {
		result, err = h.PostDispatch(ctx, result)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// bindTo is the one-way unbound to bound transition. It records the
// owning resource API, lets its hook values participate in dispatch and
// finalizes the key-field dependent path.
func (o *Operation) bindTo(r *ResourceAPI) {
	if o.binding != nil {
		panic(fmt.Sprintf("operation %s is already bound", o))
	}
	o.binding = r
	for _, hook := range r.hooks {
		o.middleware.Append(hook)
	}
	o.path = o.urlPath.BindParamNames(map[string]string{
		KeyFieldPlaceholder: o.keyFieldName(),
	})
}

// Resource returns the operation's explicitly associated resource, or
// the bound resource API's resource.
func (o *Operation) Resource() ResourceType {
	if o.resource != nil {
		return o.resource
	}
	if o.binding != nil {
		return o.binding.resource
	}
	return nil
}

// keyFieldName is the attribute substituted for the key-field
// placeholder, defaulting to "resource_id" when the resource declares no
// explicit key.
func (o *Operation) keyFieldName() string {
	if rt := o.Resource(); rt != nil && rt.KeyField() != "" {
		return rt.KeyField()
	}
	return "resource_id"
}

// Path returns the finalized path template.
func (o *Operation) Path() UrlPath {
	return o.path
}

// Methods returns the accepted methods in declaration order.
func (o *Operation) Methods() []Method {
	return o.methods
}

// HasMethod reports whether the operation accepts the given method.
func (o *Operation) HasMethod(m Method) bool {
	for _, method := range o.methods {
		if method == m {
			return true
		}
	}
	return false
}

// Summary returns the operation's documentation summary.
func (o *Operation) Summary() string {
	return o.summary
}

// Tags returns the union of the operation's own tags and its binding's.
func (o *Operation) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	add := func(ts []string) {
		for _, t := range ts {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	add(o.tags)
	if o.binding != nil {
		add(o.binding.tags)
	}
	return tags
}

// ParamDocs returns the documented non-path parameters of the operation.
func (o *Operation) ParamDocs() []ParamDoc {
	return o.paramDocs
}

// IsBound reports whether the operation has been bound to a resource API.
func (o *Operation) IsBound() bool {
	return o.binding != nil
}

// SortKey returns the registration sequence number assigned by the
// container or resource API the operation was registered with. It orders
// operations deterministically, independent of map iteration order.
func (o *Operation) SortKey() int {
	return o.sortKey
}

// Middleware exposes the operation's middleware list for composition-time
// appends. The list is shared by reference with the binding's hooks.
func (o *Operation) Middleware() *MiddlewareList {
	return o.middleware
}

// RouteKey identifies the endpoint: the finalized path plus the sorted
// method set. Two operations with equal route keys are routing collisions.
func (o *Operation) RouteKey() string {
	methods := make([]string, len(o.methods))
	for i, m := range o.methods {
		methods[i] = string(m)
	}
	sort.Strings(methods)
	return o.path.String() + "|" + strings.Join(methods, ",")
}

// Equal reports whether the two operations refer to the same endpoint,
// i.e. finalized path and method set match. Callbacks are not compared.
func (o *Operation) Equal(other *Operation) bool {
	return other != nil && o.RouteKey() == other.RouteKey()
}

func (o *Operation) String() string {
	return fmt.Sprintf("%s %s", joinMethods(o.methods), o.path)
}

// Operations implements the [Child] interface, yielding the operation
// at its path relative to the accumulated prefix.
func (o *Operation) Operations(base UrlPath) iter.Seq2[UrlPath, *Operation] {
	return func(yield func(UrlPath, *Operation) bool) {
		yield(base.MustJoin(o.path), o)
	}
}
