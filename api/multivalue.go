// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package api

import "sort"

// MultiValueMap is an ordered multi-map used uniformly for query strings,
// headers, cookies and POST bodies so callers never special-case
// single-vs-multi-valued fields.
//
// Each key holds an append-ordered list of values. Single-value reads
// return the last value added (last-write-wins), matching common web
// framework query and form semantics.
type MultiValueMap struct {
	keys   []string
	values map[string][]string
}

// NewMultiValueMap returns an empty [MultiValueMap].
func NewMultiValueMap() *MultiValueMap {
	return &MultiValueMap{
		values: make(map[string][]string),
	}
}

// MultiValueMapOf builds a [MultiValueMap] from a plain map. Keys are
// recorded in sorted order for determinism.
func MultiValueMapOf(m map[string][]string) *MultiValueMap {
	mv := NewMultiValueMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range m[k] {
			mv.Add(k, v)
		}
	}
	return mv
}

// Get returns the last value added for key, or "" when absent.
func (m *MultiValueMap) Get(key string) string {
	if m == nil {
		return ""
	}
	vs := m.values[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// GetDefault returns the last value added for key, or def when absent.
func (m *MultiValueMap) GetDefault(key, def string) string {
	if !m.Has(key) {
		return def
	}
	return m.Get(key)
}

// GetList returns all values for key in insertion order. An absent key
// yields a nil slice, not an error.
func (m *MultiValueMap) GetList(key string) []string {
	if m == nil {
		return nil
	}
	return m.values[key]
}

// Has reports whether key holds at least one value.
func (m *MultiValueMap) Has(key string) bool {
	if m == nil {
		return false
	}
	return len(m.values[key]) > 0
}

// Set replaces the entire value list for key with a single value.
func (m *MultiValueMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = []string{value}
}

// Add appends a value to the list held for key.
func (m *MultiValueMap) Add(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Pop removes and returns the last value added for key. The second
// return value reports whether the key was present.
func (m *MultiValueMap) Pop(key string) (string, bool) {
	vs := m.values[key]
	if len(vs) == 0 {
		return "", false
	}
	v := vs[len(vs)-1]
	if len(vs) == 1 {
		delete(m.values, key)
		for i, k := range m.keys {
			if k == key {
				m.keys = append(m.keys[:i], m.keys[i+1:]...)
				break
			}
		}
		return v, true
	}
	m.values[key] = vs[:len(vs)-1]
	return v, true
}

// Keys returns the keys in first-insertion order.
func (m *MultiValueMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of distinct keys.
func (m *MultiValueMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
