// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"fmt"
	"strings"
)

// ParamType enumerates the value types a path parameter can declare.
// The values match the type names used by OpenAPI schemas.
type ParamType string

const (
	Integer ParamType = "integer"
	Number  ParamType = "number"
	String  ParamType = "string"
	Boolean ParamType = "boolean"
	Array   ParamType = "array"
	Object  ParamType = "object"
)

var paramTypeNames = map[string]ParamType{
	"Integer": Integer,
	"Number":  Number,
	"String":  String,
	"Boolean": Boolean,
	"Array":   Array,
	"Object":  Object,
}

// Name returns the capitalized type name used in path templates,
// e.g. "Integer" for [Integer].
func (t ParamType) Name() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PathParam is a typed parameter placeholder within a [UrlPath].
//
// TypeArgs carries an optional type argument string, e.g. a regex or
// an enum list, which adapters and documentation generators may interpret.
type PathParam struct {
	Name     string
	Type     ParamType
	TypeArgs string
}

// KeyFieldPlaceholder is the conventional parameter name which is
// substituted with a resource's key field name when an operation is
// bound to a [ResourceAPI].
const KeyFieldPlaceholder = "key_field"

// KeyParam returns the conventional key-field path parameter. Its name is
// replaced with the bound resource's key field at bind time.
func KeyParam() PathParam {
	return PathParam{Name: KeyFieldPlaceholder, Type: Integer}
}

type pathNode struct {
	literal string
	param   *PathParam
}

// NodeFormatter renders a [PathParam] into its string form within a path.
// Adapters supply their own formatter to match the target router's
// placeholder syntax.
type NodeFormatter func(PathParam) string

// DefaultNodeFormatter renders a parameter so it can be consumed
// by [ParsePath], i.e. "{name:Type}" or "{name:Type:args}".
func DefaultNodeFormatter(p PathParam) string {
	parts := []string{p.Name, p.Type.Name()}
	if p.TypeArgs != "" {
		parts = append(parts, p.TypeArgs)
	}
	return "{" + strings.Join(parts, ":") + "}"
}

// UrlPath is an immutable ordered sequence of path nodes. Each node is
// either a literal segment or a typed [PathParam]. An absolute path's
// first node is the empty literal.
type UrlPath struct {
	nodes []pathNode
}

// NoPath is the empty path used by containers without a path prefix.
var NoPath = UrlPath{}

// RootPath is the degenerate single-empty-node path which formats as "/".
var RootPath = UrlPath{nodes: []pathNode{{}}}

// ParsePath parses a path template. Segments of the form "{name}",
// "{name:Type}" or "{name:Type:args}" become typed parameters; an omitted
// type defaults to Integer and an unknown type name is a parse error.
// A trailing slash is ignored.
func ParsePath(s string) (UrlPath, error) {
	if s == "" {
		return NoPath, nil
	}

	var nodes []pathNode
	for _, seg := range strings.Split(strings.TrimRight(s, "/"), "/") {
		if !strings.ContainsAny(seg, "{}") {
			nodes = append(nodes, pathNode{literal: seg})
			continue
		}

		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			return NoPath, fmt.Errorf("invalid path param: %s", seg)
		}

		parts := strings.SplitN(seg[1:len(seg)-1], ":", 3)
		if parts[0] == "" {
			return NoPath, fmt.Errorf("invalid path param: %s", seg)
		}

		param := PathParam{Name: parts[0], Type: Integer}
		if len(parts) > 1 {
			t, ok := paramTypeNames[parts[1]]
			if !ok {
				return NoPath, fmt.Errorf("unknown param type %q in: %s", parts[1], seg)
			}
			param.Type = t
		}
		if len(parts) > 2 {
			param.TypeArgs = parts[2]
		}
		nodes = append(nodes, pathNode{param: &param})
	}

	return UrlPath{nodes: nodes}, nil
}

// MustParsePath is like [ParsePath] but panics on a malformed template.
// It is intended for path templates declared as literals.
func MustParsePath(s string) UrlPath {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PathOf builds a path from literal segments and [PathParam] values.
// Elements must be either string or PathParam.
func PathOf(elems ...any) UrlPath {
	nodes := make([]pathNode, 0, len(elems))
	for _, el := range elems {
		switch v := el.(type) {
		case string:
			nodes = append(nodes, pathNode{literal: v})
		case PathParam:
			param := v
			nodes = append(nodes, pathNode{param: &param})
		default:
			panic(fmt.Sprintf("unable to convert %T to a path node", el))
		}
	}
	return UrlPath{nodes: nodes}
}

// Segment returns a new path with a literal segment appended.
func (p UrlPath) Segment(s string) UrlPath {
	return p.append(pathNode{literal: s})
}

// Param returns a new path with a typed parameter appended.
func (p UrlPath) Param(name string, t ParamType) UrlPath {
	return p.append(pathNode{param: &PathParam{Name: name, Type: t}})
}

func (p UrlPath) append(n pathNode) UrlPath {
	nodes := make([]pathNode, len(p.nodes), len(p.nodes)+1)
	copy(nodes, p.nodes)
	return UrlPath{nodes: append(nodes, n)}
}

// IsAbsolute reports whether the path starts with an empty literal,
// i.e. was declared with a leading "/".
func (p UrlPath) IsAbsolute() bool {
	return len(p.nodes) > 0 && p.nodes[0].param == nil && p.nodes[0].literal == ""
}

// IsEmpty reports whether the path has no nodes.
func (p UrlPath) IsEmpty() bool {
	return len(p.nodes) == 0
}

// Len returns the number of nodes in the path.
func (p UrlPath) Len() int {
	return len(p.nodes)
}

// Join concatenates other onto p, returning a new path. Joining an
// absolute right-hand path is a construction error as it would splice
// an absolute path mid-tree.
func (p UrlPath) Join(other UrlPath) (UrlPath, error) {
	if other.IsAbsolute() {
		return NoPath, fmt.Errorf("cannot join absolute path %q onto %q", other, p)
	}
	nodes := make([]pathNode, 0, len(p.nodes)+len(other.nodes))
	nodes = append(nodes, p.nodes...)
	nodes = append(nodes, other.nodes...)
	return UrlPath{nodes: nodes}, nil
}

// MustJoin is like [Join] but panics when the right-hand path is absolute.
func (p UrlPath) MustJoin(other UrlPath) UrlPath {
	joined, err := p.Join(other)
	if err != nil {
		panic(err)
	}
	return joined
}

// Slice returns a new path over the node range [i, j).
func (p UrlPath) Slice(i, j int) UrlPath {
	nodes := make([]pathNode, j-i)
	copy(nodes, p.nodes[i:j])
	return UrlPath{nodes: nodes}
}

// PathParams returns the typed parameters of the path in order.
func (p UrlPath) PathParams() []PathParam {
	var params []PathParam
	for _, n := range p.nodes {
		if n.param != nil {
			params = append(params, *n.param)
		}
	}
	return params
}

// BindParamNames returns a new path with any parameter whose name appears
// in names renamed to the mapped value. It is used to substitute the
// conventional key-field placeholder with a resource's key field name.
func (p UrlPath) BindParamNames(names map[string]string) UrlPath {
	nodes := make([]pathNode, len(p.nodes))
	copy(nodes, p.nodes)
	for i, n := range p.nodes {
		if n.param == nil {
			continue
		}
		name, ok := names[n.param.Name]
		if !ok {
			continue
		}
		param := *n.param
		param.Name = name
		nodes[i] = pathNode{param: &param}
	}
	return UrlPath{nodes: nodes}
}

// Format renders the path, delegating parameter nodes to the given
// formatter. A nil formatter falls back to [DefaultNodeFormatter].
func (p UrlPath) Format(formatter NodeFormatter) string {
	if len(p.nodes) == 1 && p.nodes[0].param == nil && p.nodes[0].literal == "" {
		return "/"
	}
	if formatter == nil {
		formatter = DefaultNodeFormatter
	}

	segs := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		if n.param != nil {
			segs[i] = formatter(*n.param)
			continue
		}
		segs[i] = n.literal
	}
	return strings.Join(segs, "/")
}

// String renders the path with the default formatter.
func (p UrlPath) String() string {
	return p.Format(nil)
}

// Equal reports structural equality of the two paths.
func (p UrlPath) Equal(other UrlPath) bool {
	if len(p.nodes) != len(other.nodes) {
		return false
	}
	for i, n := range p.nodes {
		o := other.nodes[i]
		if (n.param == nil) != (o.param == nil) {
			return false
		}
		if n.param == nil {
			if n.literal != o.literal {
				return false
			}
			continue
		}
		if *n.param != *o.param {
			return false
		}
	}
	return true
}
