// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "strings"

// Method is an HTTP method. Values use the lowercase form defined by
// the OpenAPI specification.
type Method string

const (
	MethodGet     Method = "get"
	MethodPut     Method = "put"
	MethodPost    Method = "post"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
	MethodHead    Method = "head"
	MethodPatch   Method = "patch"
	MethodTrace   Method = "trace"
)

// ParseMethod maps a wire-form method name, in any case, onto a [Method].
func ParseMethod(s string) Method {
	return Method(strings.ToLower(s))
}

func (m Method) String() string {
	return string(m)
}

func joinMethods(methods []Method) string {
	ss := make([]string, len(methods))
	for i, m := range methods {
		ss[i] = string(m)
	}
	return strings.Join(ss, ",")
}
