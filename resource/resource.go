// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package resource provides a struct-backed implementation of the
// [api.ResourceType] capability, with validation delegated to
// go-playground/validator struct tags.
package resource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/apiweave/apiweave/api"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type resourceType[T any] struct {
	name     string
	keyField string
}

type options struct {
	name string
}

// Option configures a resource type derived with [Of].
type Option func(*options)

// WithName overrides the name derived from the struct type.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Of derives an [api.ResourceType] from a struct type. The resource name
// is the struct type name; the key field is the field carrying the
// `api:"key"` struct tag, named after its json tag when present.
//
// Example:
//
//	type Widget struct {
//	    ID   int    `json:"id" api:"key"`
//	    Name string `json:"name" validate:"required"`
//	}
//
//	widgets := resource.Of[Widget]()
func Of[T any](opts ...Option) api.ResourceType {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("resource type must be a struct, got %s", t.Kind()))
	}

	name := o.name
	if name == "" {
		name = t.Name()
	}

	return resourceType[T]{
		name:     name,
		keyField: keyFieldOf(t),
	}
}

func keyFieldOf(t reflect.Type) string {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !strings.Contains(f.Tag.Get("api"), "key") {
			continue
		}

		jsonTag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if jsonTag != "" && jsonTag != "-" {
			return jsonTag
		}
		return strings.ToLower(f.Name)
	}
	return ""
}

func (r resourceType[T]) Name() string {
	return r.name
}

func (r resourceType[T]) KeyField() string {
	return r.keyField
}

func (r resourceType[T]) New() any {
	return new(T)
}

// Validate runs struct-tag validation over a resource instance. Failures
// surface as an [api.ValidationError] carrying a field to message
// mapping, which the dispatch pipeline maps to 400 Bad Request.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &api.ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &api.ValidationError{
		Message: "Failed validation",
		Fields:  fields,
	}
}
