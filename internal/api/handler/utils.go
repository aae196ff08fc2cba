package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"codearena/internal/domain/model"
)

// csvParam reads a comma-separated query parameter. An absent parameter is
// nil (no filter); a present-but-empty one is an explicit empty list,
// which matches nothing.
func csvParam(r *http.Request, key string) []string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func boolParam(r *http.Request, key string) *bool {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key) == "true"
	return &v
}

func boolFlag(r *http.Request, key string) bool {
	return r.URL.Query().Get(key) == "true"
}

// timeRangeParam reads <key>From/<key>To as RFC3339 timestamps; either
// side may be absent for an unbounded range.
func timeRangeParam(r *http.Request, key string) *model.TimeRange {
	var tr model.TimeRange
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get(key+"From")); err == nil {
		tr.From = &from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get(key+"To")); err == nil {
		tr.To = &to
	}
	if tr.From == nil && tr.To == nil {
		return nil
	}
	return &tr
}

// listOptions reads startIndex, itemCount and sort (field:asc,field:desc)
// from the query string.
func listOptions(r *http.Request) model.ListOptions {
	var lo model.ListOptions
	if v, err := strconv.ParseInt(r.URL.Query().Get("startIndex"), 10, 64); err == nil && v >= 0 {
		lo.StartIndex = &v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("itemCount"), 10, 64); err == nil && v > 0 {
		lo.ItemCount = &v
	}
	for _, directive := range csvParam(r, "sort") {
		field, order, _ := strings.Cut(directive, ":")
		if field == "" {
			continue
		}
		lo.Sort = append(lo.Sort, model.SortField{Field: field, Ascending: order != "desc"})
	}
	return lo
}
