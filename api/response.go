// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "net/http"

const contentTypeHeader = "content-type"

// Response is the structured outbound response produced by the dispatch
// pipeline. Body holds the already-encoded payload; a nil body means an
// empty response.
type Response struct {
	Body    []byte
	Status  int
	Headers *MultiValueMap
}

// NewResponse builds a [Response]. A nil headers map is initialized so
// callers can always set headers on the result.
func NewResponse(body []byte, status int, headers *MultiValueMap) *Response {
	if headers == nil {
		headers = NewMultiValueMap()
	}
	return &Response{
		Body:    body,
		Status:  status,
		Headers: headers,
	}
}

// ResponseFromStatus builds an empty response carrying only a status code
// and optional headers.
func ResponseFromStatus(status int, headers map[string]string) *Response {
	resp := NewResponse(nil, status, nil)
	for k, v := range headers {
		resp.Headers.Set(k, v)
	}
	return resp
}

// ContentType is a convenience accessor over the content-type header entry.
func (r *Response) ContentType() string {
	return r.Headers.Get(contentTypeHeader)
}

// SetContentType sets the content-type header entry.
func (r *Response) SetContentType(contentType string) {
	r.Headers.Set(contentTypeHeader, contentType)
}

// StatusText returns the standard reason phrase for the response status.
func (r *Response) StatusText() string {
	return http.StatusText(r.Status)
}
