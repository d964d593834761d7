// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"bytes"
	"net/http"
	"reflect"
	"unicode/utf8"
)

// Body decode code indexes. 98 is deliberately reused across distinct
// causes so a client cannot infer which check failed.
const (
	codeDecodeFailure     = 96
	codeListNotAllowed    = 97
	codeWrongResourceType = 98
	codeUndecodableBody   = 99
)

// DecodeBody decodes the request body into an instance of the given
// resource type using the negotiated request codec. A JSON-style list
// body decodes into a slice of instances when allowMultiple is set and
// is rejected otherwise. All failures surface as 400-class [HTTPError]s.
func DecodeBody(ctx *Context, rt ResourceType, allowMultiple bool) (any, error) {
	body, err := ctx.Request.Body()
	if err != nil {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeUndecodableBody),
			WithMessage("Unable to decode request body."),
			WithDeveloperMessage(err.Error()),
		)
	}
	if !utf8.Valid(body) {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeUndecodableBody),
			WithMessage("Unable to decode request body."),
		)
	}

	codec := ctx.RequestCodec()
	if codec == nil {
		codec = JSON()
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return decodeBodyList(codec, trimmed, rt, allowMultiple)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeWrongResourceType),
			WithMessage("Invalid resource type."),
		)
	}

	instance := rt.New()
	if err := codec.Decode(trimmed, instance); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeDecodeFailure),
			WithMessage("Unable to decode body."),
			WithDeveloperMessage(err.Error()),
		)
	}
	return instance, nil
}

func decodeBodyList(codec Codec, body []byte, rt ResourceType, allowMultiple bool) (any, error) {
	slicePtr := reflect.New(reflect.SliceOf(reflect.TypeOf(rt.New())))
	if err := codec.Decode(body, slicePtr.Interface()); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeDecodeFailure),
			WithMessage("Unable to decode body."),
			WithDeveloperMessage(err.Error()),
		)
	}

	// Reject null entries before the multiplicity check so a list body
	// cannot be used to probe which resource types are defined.
	items := slicePtr.Elem()
	for i := 0; i < items.Len(); i++ {
		if items.Index(i).IsNil() {
			return nil, NewHTTPError(http.StatusBadRequest,
				WithCodeIndex(codeWrongResourceType),
				WithMessage("Invalid resource type."),
			)
		}
	}

	if !allowMultiple {
		return nil, NewHTTPError(http.StatusBadRequest,
			WithCodeIndex(codeListNotAllowed),
			WithMessage("Expected a single resource not a list."),
		)
	}
	return items.Interface(), nil
}

// CreateResponse encodes a resource via the negotiated response codec
// into a [Response]. A nil body yields 204 No Content; an unset status
// defaults to 200 OK.
func CreateResponse(ctx *Context, body any, status int, headers map[string]string) (*Response, error) {
	if body == nil {
		if status == 0 {
			status = http.StatusNoContent
		}
		return ResponseFromStatus(status, headers), nil
	}

	codec := ctx.ResponseCodec()
	if codec == nil {
		codec = JSON()
	}
	encoded, err := codec.Encode(body)
	if err != nil {
		return nil, err
	}

	if status == 0 {
		status = http.StatusOK
	}
	resp := ResponseFromStatus(status, headers)
	resp.Body = encoded
	resp.SetContentType(codec.ContentType())
	return resp, nil
}
