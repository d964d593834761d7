// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"context"
)

// Test fixtures shared across the package tests.

// widget is a test resource payload.
type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// widgetType is a test ResourceType for widget.
type widgetType struct{}

func (widgetType) Name() string {
	return "Widget"
}

func (widgetType) KeyField() string {
	return "id"
}

func (widgetType) New() any {
	return &widget{}
}

// namelessType declares no key field so operations bound to it fall back
// to the default key field name.
type namelessType struct{}

func (namelessType) Name() string {
	return "Nameless"
}

func (namelessType) KeyField() string {
	return ""
}

func (namelessType) New() any {
	return &struct{}{}
}

// fakeRequest is an in-memory Request implementation for driving the
// dispatch pipeline without a transport.
type fakeRequest struct {
	method  Method
	path    string
	query   *MultiValueMap
	headers *MultiValueMap
	cookies *MultiValueMap
	post    *MultiValueMap
	body    []byte
	bodyErr error
}

func newFakeRequest(method Method, path string) *fakeRequest {
	return &fakeRequest{
		method:  method,
		path:    path,
		query:   NewMultiValueMap(),
		headers: NewMultiValueMap(),
		cookies: NewMultiValueMap(),
		post:    NewMultiValueMap(),
	}
}

func (r *fakeRequest) withHeader(key, value string) *fakeRequest {
	r.headers.Add(key, value)
	return r
}

func (r *fakeRequest) withQuery(key, value string) *fakeRequest {
	r.query.Add(key, value)
	return r
}

func (r *fakeRequest) withBody(body []byte) *fakeRequest {
	r.body = body
	return r
}

func (r *fakeRequest) Context() context.Context {
	return context.Background()
}

func (r *fakeRequest) Scheme() string {
	return "http"
}

func (r *fakeRequest) Host() string {
	return "example.test"
}

func (r *fakeRequest) Method() Method {
	return r.method
}

func (r *fakeRequest) Path() string {
	return r.path
}

func (r *fakeRequest) Query() *MultiValueMap {
	return r.query
}

func (r *fakeRequest) Headers() *MultiValueMap {
	return r.headers
}

func (r *fakeRequest) Cookies() *MultiValueMap {
	return r.cookies
}

func (r *fakeRequest) Post() *MultiValueMap {
	return r.post
}

func (r *fakeRequest) Body() ([]byte, error) {
	return r.body, r.bodyErr
}
