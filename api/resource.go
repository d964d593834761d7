// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"fmt"
	"strings"
)

// ResourceType is the opaque resource capability consumed by the core.
// The resource package provides a struct-backed implementation.
type ResourceType interface {
	// Name identifies the resource, e.g. "widget". A [ResourceAPI]
	// without an explicit name derives its path segment from it.
	Name() string

	// KeyField returns the attribute name used as the primary identifier
	// in path templates, or "" when the resource declares no key.
	KeyField() string

	// New returns a pointer to a fresh instance for decoding into.
	New() any
}

// ValidationError is raised by a resource capability when an instance
// fails validation. Fields maps field names to messages; it may be nil
// for a flat message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}
