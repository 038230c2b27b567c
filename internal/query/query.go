// Package query filters, paginates and projects inventory listings.
package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000

	containsSuffix = "_contains"
)

// reserved parameters are never treated as filters
var reserved = map[string]bool{"skip": true, "limit": true, "fields": true}

// Filter matches one JSON field of a record. Contains filters are
// case-insensitive substring matches, the others case-insensitive equality.
type Filter struct {
	Field    string
	Value    string
	Contains bool
}

// Params is a parsed listing request
type Params struct {
	Skip    int
	Limit   int
	Fields  []string
	Filters []Filter
}

// DefaultParams returns the first page with no filters
func DefaultParams() Params {
	return Params{Limit: DefaultLimit}
}

// ParseParams reads skip, limit, fields and filters from query values.
// Filters are ordered by parameter name.
func ParseParams(values url.Values) (Params, error) {
	p := DefaultParams()

	if raw := values.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return p, fmt.Errorf("skip must be a non-negative integer, got %q", raw)
		}
		p.Skip = skip
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return p, fmt.Errorf("limit must be an integer between 1 and %d, got %q", MaxLimit, raw)
		}
		p.Limit = limit
	}
	if raw := values.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				p.Fields = append(p.Fields, f)
			}
		}
	}

	names := make([]string, 0, len(values))
	for name := range values {
		if !reserved[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		value := values.Get(name)
		if field, ok := strings.CutSuffix(name, containsSuffix); ok && field != "" {
			p.Filters = append(p.Filters, Filter{Field: field, Value: value, Contains: true})
			continue
		}
		p.Filters = append(p.Filters, Filter{Field: name, Value: value})
	}
	return p, nil
}

// Match reports whether record passes the filter. A missing field compares
// as the empty string.
func (f Filter) Match(record map[string]any) bool {
	actual := strings.ToLower(render(record[f.Field]))
	want := strings.ToLower(f.Value)
	if f.Contains {
		return strings.Contains(actual, want)
	}
	return actual == want
}

// Apply filters items by their JSON representation, then pages and projects
// the survivors
func Apply[T any](items []T, p Params) ([]map[string]any, error) {
	out := make([]map[string]any, 0)
	skipped := 0
	for i := range items {
		record, err := ToRecord(items[i])
		if err != nil {
			return nil, err
		}
		if !matchAll(record, p.Filters) {
			continue
		}
		if skipped < p.Skip {
			skipped++
			continue
		}
		if p.Limit > 0 && len(out) >= p.Limit {
			break
		}
		out = append(out, Project(record, p.Fields))
	}
	return out, nil
}

// ToRecord converts v to its JSON object form
func ToRecord(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

// Project keeps only fields that are present in record. No fields keeps
// the whole record.
func Project(record map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return record
	}
	projected := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := record[f]; ok {
			projected[f] = v
		}
	}
	return projected
}

func matchAll(record map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(record) {
			return false
		}
	}
	return true
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
