// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package chiserve

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/apiweave/apiweave/api"

	"github.com/z5labs/sdk-go/try"
)

// httpRequest exposes a *http.Request through the transport neutral
// request interface. Header keys are lowercased and the body is read at
// most once, then served from a buffer.
type httpRequest struct {
	r *http.Request

	query   *api.MultiValueMap
	headers *api.MultiValueMap
	cookies *api.MultiValueMap
	post    *api.MultiValueMap

	bodyRead bool
	body     []byte
	bodyErr  error
}

func newRequest(r *http.Request) *httpRequest {
	return &httpRequest{r: r}
}

func (hr *httpRequest) Context() context.Context {
	return hr.r.Context()
}

func (hr *httpRequest) Scheme() string {
	if hr.r.TLS != nil {
		return "https"
	}
	return "http"
}

func (hr *httpRequest) Host() string {
	return hr.r.Host
}

func (hr *httpRequest) Method() api.Method {
	return api.ParseMethod(hr.r.Method)
}

func (hr *httpRequest) Path() string {
	return hr.r.URL.Path
}

func (hr *httpRequest) Query() *api.MultiValueMap {
	if hr.query == nil {
		hr.query = multiValueMapOfValues(hr.r.URL.Query())
	}
	return hr.query
}

func (hr *httpRequest) Headers() *api.MultiValueMap {
	if hr.headers == nil {
		m := api.NewMultiValueMap()
		for k, vs := range hr.r.Header {
			key := strings.ToLower(k)
			for _, v := range vs {
				m.Add(key, v)
			}
		}
		hr.headers = m
	}
	return hr.headers
}

func (hr *httpRequest) Cookies() *api.MultiValueMap {
	if hr.cookies == nil {
		m := api.NewMultiValueMap()
		for _, c := range hr.r.Cookies() {
			m.Add(c.Name, c.Value)
		}
		hr.cookies = m
	}
	return hr.cookies
}

// Post parses form fields from the buffered body when the request
// carries a urlencoded form, so a later Body call still sees the raw
// payload.
func (hr *httpRequest) Post() *api.MultiValueMap {
	if hr.post != nil {
		return hr.post
	}
	hr.post = api.NewMultiValueMap()

	ct := api.StripContentTypeParams(hr.Headers().Get("content-type"))
	if ct != "application/x-www-form-urlencoded" {
		return hr.post
	}

	b, err := hr.Body()
	if err != nil {
		return hr.post
	}
	form, err := url.ParseQuery(string(b))
	if err != nil {
		return hr.post
	}
	hr.post = multiValueMapOfValues(form)
	return hr.post
}

func (hr *httpRequest) Body() ([]byte, error) {
	if !hr.bodyRead {
		hr.bodyRead = true
		hr.body, hr.bodyErr = readAll(hr.r.Body)
	}
	return hr.body, hr.bodyErr
}

func readAll(rc io.ReadCloser) (_ []byte, err error) {
	defer try.Close(&err, rc)

	return io.ReadAll(rc)
}

func multiValueMapOfValues(values url.Values) *api.MultiValueMap {
	m := api.NewMultiValueMap()
	for k, vs := range values {
		for _, v := range vs {
			m.Add(k, v)
		}
	}
	return m
}
