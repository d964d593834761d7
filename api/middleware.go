// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "sort"

// The middleware hook interfaces below partition dispatch into five named
// phases. A middleware value implements only the phases it needs; the
// [MiddlewareList] sorts each phase by priority and skips values that do
// not implement a phase.

// PreRequestHandler runs before content negotiation. Returning an error
// aborts the request through the 500 handler (or the caller in debug mode).
type PreRequestHandler interface {
	PreRequest(*Context) error
}

// PreDispatchHandler runs before the operation callback. Hooks may mutate
// Context.PathArgs in place; the map is shared by reference with every
// later stage and the callback.
type PreDispatchHandler interface {
	PreDispatch(*Context) error
}

// PostDispatchHandler transforms the callback result. Each stage's output
// feeds the next.
type PostDispatchHandler interface {
	PostDispatch(*Context, any) (any, error)
}

// PostRequestHandler transforms the assembled [Response] before it is
// returned to the adapter.
type PostRequestHandler interface {
	PostRequest(*Context, *Response) *Response
}

// ErrorHook is offered unhandled errors and may produce a substitute
// resource. Returning nil passes the error to the next hook.
type ErrorHook interface {
	Handle500(*Context, error) any
}

// Prioritized lets a middleware value order itself within a phase.
// Lower values run first; the default priority is 10.
type Prioritized interface {
	Priority() int
}

const defaultPriority = 10

type middlewareEntry struct {
	value    any
	priority int
	seq      int
}

// MiddlewareList holds middleware values and serves them per phase in
// priority order. The list is built before traffic begins and must not
// be appended to during dispatch.
type MiddlewareList struct {
	entries []middlewareEntry
}

// NewMiddlewareList builds a [MiddlewareList] from the given values.
func NewMiddlewareList(values ...any) *MiddlewareList {
	l := &MiddlewareList{}
	for _, v := range values {
		l.Append(v)
	}
	return l
}

// Append adds a middleware value to the list.
func (l *MiddlewareList) Append(value any) {
	priority := defaultPriority
	if p, ok := value.(Prioritized); ok {
		priority = p.Priority()
	}
	l.entries = append(l.entries, middlewareEntry{
		value:    value,
		priority: priority,
		seq:      len(l.entries),
	})
}

// Len returns the number of middleware values held.
func (l *MiddlewareList) Len() int {
	return len(l.entries)
}

func (l *MiddlewareList) sorted(reverse bool) []middlewareEntry {
	entries := make([]middlewareEntry, len(l.entries))
	copy(entries, l.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if reverse {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].priority < entries[j].priority
	})
	return entries
}

// PreRequest returns the pre-request hooks in priority order.
func (l *MiddlewareList) PreRequest() []PreRequestHandler {
	var hooks []PreRequestHandler
	for _, e := range l.sorted(false) {
		if h, ok := e.value.(PreRequestHandler); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// PreDispatch returns the pre-dispatch hooks in priority order.
func (l *MiddlewareList) PreDispatch() []PreDispatchHandler {
	var hooks []PreDispatchHandler
	for _, e := range l.sorted(false) {
		if h, ok := e.value.(PreDispatchHandler); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// PostDispatch returns the post-dispatch hooks in priority order.
func (l *MiddlewareList) PostDispatch() []PostDispatchHandler {
	var hooks []PostDispatchHandler
	for _, e := range l.sorted(false) {
		if h, ok := e.value.(PostDispatchHandler); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// PostRequest returns the post-request hooks in priority order.
func (l *MiddlewareList) PostRequest() []PostRequestHandler {
	var hooks []PostRequestHandler
	for _, e := range l.sorted(false) {
		if h, ok := e.value.(PostRequestHandler); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// ErrorHooks returns the handle-500 hooks in reverse priority order, so
// the most specific handlers get the first chance at an unhandled error.
func (l *MiddlewareList) ErrorHooks() []ErrorHook {
	var hooks []ErrorHook
	for _, e := range l.sorted(true) {
		if h, ok := e.value.(ErrorHook); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}
