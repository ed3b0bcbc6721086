// Package query builds the canonical transaction-list query from filter and
// sort state. Building is pure and total: identical state always produces
// byte-identical output, which the list cache and the tests rely on.
package query

import (
	"fmt"
	"net/url"
	"strings"
)

// Recognized filter keys. Empty string values mean "unset" and are never
// serialized.
const (
	KeyDateFrom    = "dateFrom"
	KeyDateTo      = "dateTo"
	KeyType        = "type"
	KeyCategory    = "category"
	KeyPerson      = "person"
	KeyDescription = "description"
	KeyAmountMin   = "amountMin"
	KeyAmountMax   = "amountMax"
)

// Sort parameter names, emitted after all filters.
const (
	paramSortBy        = "sort_by"
	paramSortDirection = "sort_direction"
)

// filterKeys fixes the canonical emission order.
var filterKeys = []string{
	KeyDateFrom,
	KeyDateTo,
	KeyType,
	KeyCategory,
	KeyPerson,
	KeyDescription,
	KeyAmountMin,
	KeyAmountMax,
}

// FilterState maps filter keys to staged string values.
type FilterState map[string]string

// NewFilterState returns an all-unset filter state.
func NewFilterState() FilterState {
	return make(FilterState, len(filterKeys))
}

// Set stages a filter value. Unknown keys are a programmer error and are
// reported rather than silently accepted.
func (f FilterState) Set(key, value string) error {
	if !KnownFilterKey(key) {
		return fmt.Errorf("unknown filter key %q", key)
	}
	f[key] = value
	return nil
}

// Clone returns an independent copy.
func (f FilterState) Clone() FilterState {
	c := make(FilterState, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// KnownFilterKey reports whether key is one of the recognized filter keys.
func KnownFilterKey(key string) bool {
	for _, k := range filterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState holds the active sort column. Direction is meaningless when
// Field is empty.
type SortState struct {
	Field     string
	Direction Direction
}

// Toggle computes the next sort state for a column click: the same field
// flips direction, a new field resets to ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		next := Asc
		if s.Direction == Asc {
			next = Desc
		}
		return SortState{Field: field, Direction: next}
	}
	return SortState{Field: field, Direction: Asc}
}

// Param is a single query parameter. Order matters, so parameters travel as
// a slice rather than url.Values.
type Param struct {
	Key   string
	Value string
}

// Build produces the ordered parameter list: filters first in canonical key
// order, then sort_by and sort_direction when a sort field is selected.
// Unset (empty) filter values are omitted.
func Build(f FilterState, s SortState) []Param {
	params := make([]Param, 0, len(filterKeys)+2)
	for _, key := range filterKeys {
		if v := f[key]; v != "" {
			params = append(params, Param{Key: key, Value: v})
		}
	}
	if s.Field != "" {
		dir := s.Direction
		if dir == "" {
			dir = Asc
		}
		params = append(params,
			Param{Key: paramSortBy, Value: s.Field},
			Param{Key: paramSortDirection, Value: string(dir)},
		)
	}
	return params
}

// Encode renders params as a query string, preserving order. url.Values is
// not used because its Encode sorts keys alphabetically.
func Encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
