// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "strings"

// ContentTypeResolver attempts to extract a MIME type from a request.
// An empty return value means the resolver could not determine one.
type ContentTypeResolver func(Request) string

// StripContentTypeParams parses the bare content type out of a header
// value, e.g. "application/json; charset=utf8" yields "application/json".
func StripContentTypeParams(value string) string {
	if value == "" {
		return ""
	}
	ct, _, _ := strings.Cut(value, ";")
	return strings.TrimSpace(ct)
}

// ResolveContentType evaluates resolvers in list order and returns the
// first non-empty result after stripping parameters, or "" when every
// resolver yields nothing.
func ResolveContentType(resolvers []ContentTypeResolver, req Request) string {
	for _, resolve := range resolvers {
		ct := StripContentTypeParams(resolve(req))
		if ct != "" {
			return ct
		}
	}
	return ""
}

// ContentTypeHeader resolves the content type from the content-type header.
func ContentTypeHeader() ContentTypeResolver {
	return func(req Request) string {
		return req.Headers().Get("content-type")
	}
}

// AcceptsHeader resolves the content type from the accept header. The
// accept header expresses the client's response preference, which is why
// the response chain consults it before the content-type header.
//
// The header may list several media ranges ("application/json,
// text/plain;q=0.9") and wildcards ("*/*" being the curl default).
// Wildcard entries express no preference and are skipped so the chain
// falls through; the first concrete media type wins.
func AcceptsHeader() ContentTypeResolver {
	return func(req Request) string {
		for _, entry := range strings.Split(req.Headers().Get("accept"), ",") {
			ct := StripContentTypeParams(entry)
			if ct == "" || strings.HasSuffix(ct, "/*") {
				continue
			}
			return ct
		}
		return ""
	}
}

// DefaultContentType always resolves to the given content type. Place it
// last in a chain to provide a fallback.
func DefaultContentType(contentType string) ContentTypeResolver {
	return func(Request) string {
		return contentType
	}
}

// DefaultRequestResolvers is the standard chain for resolving the request
// body's content type: content-type header, then accept header, then JSON.
func DefaultRequestResolvers() []ContentTypeResolver {
	return []ContentTypeResolver{
		ContentTypeHeader(),
		AcceptsHeader(),
		DefaultContentType(JSONContentType),
	}
}

// DefaultResponseResolvers is the standard chain for resolving the
// response content type: accept header, then content-type header, then
// JSON. The ordering is deliberately the reverse of the request chain.
func DefaultResponseResolvers() []ContentTypeResolver {
	return []ContentTypeResolver{
		AcceptsHeader(),
		ContentTypeHeader(),
		DefaultContentType(JSONContentType),
	}
}
