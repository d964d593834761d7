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

// Child is anything which can be composed into a [Container]: an
// [Operation], a nested [Container] or a [ResourceAPI].
type Child interface {
	// Operations yields (full-path, operation) pairs, accumulating the
	// given path prefix.
	Operations(base UrlPath) iter.Seq2[UrlPath, *Operation]
}

type containerConfig struct {
	name   string
	prefix *UrlPath
}

// ContainerOption configures a [Container] under construction.
type ContainerOption func(*containerConfig)

// Named sets the container name. Unless an explicit prefix is given the
// name doubles as the container's path prefix.
func Named(name string) ContainerOption {
	return func(cfg *containerConfig) {
		cfg.name = name
	}
}

// Prefix sets an explicit path prefix, overriding the name-derived one.
func Prefix(path UrlPath) ContainerOption {
	return func(cfg *containerConfig) {
		cfg.prefix = &path
	}
}

// Container composes operations, resource APIs and nested containers
// into a path-prefixed tree. A container's effective path is its own
// prefix appended to its parent's, applied lazily at flattening time.
type Container struct {
	children []Child
	name     string
	prefix   UrlPath
	seq      int
}

// NewContainer builds an empty [Container]; children are composed in
// with [Container.Add].
func NewContainer(opts ...ContainerOption) *Container {
	cfg := &containerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newContainer(cfg)
}

func newContainer(cfg *containerConfig) *Container {
	c := &Container{
		name: cfg.name,
	}
	switch {
	case cfg.prefix != nil:
		c.prefix = *cfg.prefix
	case cfg.name != "":
		c.prefix = MustParsePath(cfg.name)
	default:
		c.prefix = NoPath
	}
	return c
}

// Name returns the container name.
func (c *Container) Name() string {
	return c.name
}

// PathPrefix returns the container's own path prefix.
func (c *Container) PathPrefix() UrlPath {
	return c.prefix
}

// Add composes children into the container. Each directly added
// [Operation] is assigned its registration sequence number.
func (c *Container) Add(children ...Child) *Container {
	for _, child := range children {
		if op, ok := child.(*Operation); ok {
			op.sortKey = c.seq
			c.seq++
		}
		c.children = append(c.children, child)
	}
	return c
}

// Operation declares and registers an operation in one step.
func (c *Container) Operation(path UrlPath, callback Callback, opts ...OperationOption) *Operation {
	op := NewOperation(path, callback, opts...)
	c.Add(op)
	return op
}

// Operations yields all (full-path, operation) pairs below the container,
// in child registration order.
func (c *Container) Operations(base UrlPath) iter.Seq2[UrlPath, *Operation] {
	return func(yield func(UrlPath, *Operation) bool) {
		prefix := c.prefix
		if !base.IsEmpty() {
			prefix = base.MustJoin(c.prefix)
		}
		for _, child := range c.children {
			for p, op := range child.Operations(prefix) {
				if !yield(p, op) {
					return
				}
			}
		}
	}
}

// Version is a container holding one version of an API, usually the
// first child of the interface. Its default name is "v{version}".
type Version struct {
	Container

	version int
}

// NewVersion builds a [Version] container.
func NewVersion(version int, opts ...ContainerOption) *Version {
	cfg := &containerConfig{
		name: fmt.Sprintf("v%d", version),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Version{
		Container: *newContainer(cfg),
		version:   version,
	}
}

// VersionNumber returns the version this container holds.
func (v *Version) VersionNumber() int {
	return v.version
}

type resourceAPIOptions struct {
	name   string
	prefix UrlPath
	tags   []string
	hooks  []any
}

// ResourceAPIOption configures a [ResourceAPI] under construction.
type ResourceAPIOption func(*resourceAPIOptions)

// ResourceName overrides the path segment derived from the resource name.
func ResourceName(name string) ResourceAPIOption {
	return func(o *resourceAPIOptions) {
		o.name = name
	}
}

// ResourcePrefix prepends a path prefix to the resource API's segment.
func ResourcePrefix(prefix UrlPath) ResourceAPIOption {
	return func(o *resourceAPIOptions) {
		o.prefix = prefix
	}
}

// ResourceTags applies documentation tags to every registered operation.
func ResourceTags(tags ...string) ResourceAPIOption {
	return func(o *resourceAPIOptions) {
		o.tags = append(o.tags, tags...)
	}
}

// BindHooks supplies middleware values, e.g. authorization hooks, which
// every registered operation appends to its own middleware list at bind
// time.
func BindHooks(hooks ...any) ResourceAPIOption {
	return func(o *resourceAPIOptions) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// ResourceAPI is a declarative grouping of operations associated with
// one resource type. Registration happens explicitly through
// [ResourceAPI.Route], replacing hidden collection magic: operations are
// sequenced in registration order and bound to the API immediately.
type ResourceAPI struct {
	name       string
	resource   ResourceType
	prefix     UrlPath
	tags       []string
	hooks      []any
	operations []*Operation
	seq        int
}

// NewResourceAPI builds a [ResourceAPI] for a resource type. Without an
// explicit name it derives its path segment from the lower-cased
// resource name.
func NewResourceAPI(rt ResourceType, opts ...ResourceAPIOption) *ResourceAPI {
	o := &resourceAPIOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.name == "" {
		o.name = strings.ToLower(rt.Name())
	}
	return &ResourceAPI{
		name:     o.name,
		resource: rt,
		prefix:   o.prefix.Segment(o.name),
		tags:     o.tags,
		hooks:    o.hooks,
	}
}

// Route registers operations with the API, assigning registration
// sequence numbers and binding each operation to this resource API.
func (r *ResourceAPI) Route(ops ...*Operation) *ResourceAPI {
	for _, op := range ops {
		op.sortKey = r.seq
		r.seq++
		op.bindTo(r)
		r.operations = append(r.operations, op)
	}
	sort.SliceStable(r.operations, func(i, j int) bool {
		return r.operations[i].sortKey < r.operations[j].sortKey
	})
	return r
}

// Name returns the API's path segment name.
func (r *ResourceAPI) Name() string {
	return r.name
}

// Resource returns the resource type the API is modelled on.
func (r *ResourceAPI) Resource() ResourceType {
	return r.resource
}

// PathPrefix returns the API's own path prefix including its name segment.
func (r *ResourceAPI) PathPrefix() UrlPath {
	return r.prefix
}

// Operations yields the registered operations in declaration order.
func (r *ResourceAPI) Operations(base UrlPath) iter.Seq2[UrlPath, *Operation] {
	return func(yield func(UrlPath, *Operation) bool) {
		prefix := r.prefix
		if !base.IsEmpty() {
			prefix = base.MustJoin(r.prefix)
		}
		for _, op := range r.operations {
			for p, o := range op.Operations(prefix) {
				if !yield(p, o) {
					return
				}
			}
		}
	}
}
