// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/z5labs/sdk-go/ptr"
)

// PagingMode selects how a listing operation exposes paging metadata:
// as response headers, as a wrapping [Listing] body, or both.
type PagingMode uint8

const (
	PagingHeaders PagingMode = 1 << iota
	PagingBody

	PagingBoth = PagingHeaders | PagingBody
)

// Paging metadata response headers.
const (
	HeaderPageLimit  = "X-Page-Limit"
	HeaderPageOffset = "X-Page-Offset"
	HeaderTotalCount = "X-Total-Count"
)

// Listing wraps a page of results with its paging metadata.
type Listing struct {
	Results    any  `json:"results"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	TotalCount *int `json:"total_count,omitempty"`
}

// ListCallback is the handler wrapped by a listing operation. It receives
// the clamped offset and limit derived from the query string and returns
// the page of items plus the total count, or -1 when the total is unknown.
type ListCallback func(ctx *Context, offset, limit int) (any, int, error)

// DefaultOffset sets the offset used when the query string omits one.
func DefaultOffset(offset int) OperationOption {
	return func(oo *OperationOptions) {
		oo.defaultOffset = offset
	}
}

// DefaultLimit sets the limit used when the query string omits one.
func DefaultLimit(limit int) OperationOption {
	return func(oo *OperationOptions) {
		oo.defaultLimit = limit
	}
}

// MaxLimit caps the effective limit. Zero means unbounded above.
func MaxLimit(limit int) OperationOption {
	return func(oo *OperationOptions) {
		oo.maxLimit = limit
	}
}

// Paging selects the [PagingMode] for a listing operation. The default
// exposes paging metadata both as headers and in the body wrapper.
func Paging(mode PagingMode) OperationOption {
	return func(oo *OperationOptions) {
		oo.pagingMode = mode
	}
}

// NewListOperation builds a listing [Operation]. On execution it derives
// offset and limit from the query parameters, clamps them (offset >= 0;
// 1 <= limit <= MaxLimit when set), injects both into Context.PathArgs and
// passes them to the callback. The page is wrapped according to the
// configured [PagingMode].
func NewListOperation(path UrlPath, callback ListCallback, opts ...OperationOption) *Operation {
	cfg := &OperationOptions{
		defaultLimit: 50,
		pagingMode:   PagingBoth,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	op := NewOperation(path, nil, opts...)
	op.paramDocs = append(op.paramDocs,
		ParamDoc{Name: "offset", In: InQuery, Type: Integer, Description: "Offset to start listing from."},
		ParamDoc{Name: "limit", In: InQuery, Type: Integer, Description: "Limit on the number of listings returned."},
	)
	op.execute = func(ctx *Context) (any, error) {
		return executeListing(ctx, callback, cfg)
	}
	return op
}

func executeListing(ctx *Context, callback ListCallback, cfg *OperationOptions) (any, error) {
	offset, err := pagingArg(ctx, "offset", cfg.defaultOffset)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	limit, err := pagingArg(ctx, "limit", cfg.defaultLimit)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	} else if cfg.maxLimit > 0 && limit > cfg.maxLimit {
		limit = cfg.maxLimit
	}

	ctx.PathArgs["offset"] = offset
	ctx.PathArgs["limit"] = limit

	items, total, err := callback(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, nil
	}

	var body any = items
	if cfg.pagingMode&PagingBody != 0 {
		listing := &Listing{
			Results: items,
			Offset:  offset,
			Limit:   limit,
		}
		if total >= 0 {
			listing.TotalCount = ptr.Ref(total)
		}
		body = listing
	}

	if cfg.pagingMode&PagingHeaders == 0 {
		return body, nil
	}

	headers := map[string]string{
		HeaderPageLimit:  strconv.Itoa(limit),
		HeaderPageOffset: strconv.Itoa(offset),
	}
	if total >= 0 {
		headers[HeaderTotalCount] = strconv.Itoa(total)
	}
	return CreateResponse(ctx, body, 0, headers)
}

func pagingArg(ctx *Context, name string, def int) (int, error) {
	raw := ctx.Request.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewHTTPError(http.StatusBadRequest,
			WithMessage("Invalid "+name+" value."),
			WithDeveloperMessage(err.Error()),
		)
	}
	return v, nil
}
