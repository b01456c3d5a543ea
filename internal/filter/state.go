// Package filter holds the marketplace's attribute filter: the state behind
// the filter dialog and the predicate that decides which listings show.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Price limits of the range control.
const (
	MinPriceLimit = 0
	MaxPriceLimit = 500
	PriceStep     = 5
)

// State is the currently applied filter. An empty CarType means any type.
type State struct {
	MinPrice float64  `json:"min_price"`
	MaxPrice float64  `json:"max_price"`
	CarType  string   `json:"type"`
	Tags     []string `json:"tags"`
}

// Defaults returns the filter that matches every listing priced within limits.
func Defaults() State {
	return State{
		MinPrice: MinPriceLimit,
		MaxPrice: MaxPriceLimit,
		Tags:     []string{},
	}
}

// Clear resets s to the defaults.
func (s *State) Clear() {
	*s = Defaults()
}

// Apply replaces s with the dialog's values, reconciled the way the range
// control would: non-finite bounds fall back to their limit, bounds are
// floored and clamped to the limits, and a reversed range is swapped.
// Tags are deduplicated.
func (s *State) Apply(minPrice, maxPrice float64, carType string, tags []string) {
	lo := clampPrice(minPrice, MinPriceLimit)
	hi := clampPrice(maxPrice, MaxPriceLimit)
	if lo > hi {
		lo, hi = hi, lo
	}

	*s = State{
		MinPrice: lo,
		MaxPrice: hi,
		CarType:  carType,
		Tags:     dedupe(tags),
	}
}

// ToggleTag adds tag if it is not selected and removes it if it is.
func (s *State) ToggleTag(tag string) {
	for i, t := range s.Tags {
		if t == tag {
			s.Tags = append(s.Tags[:i:i], s.Tags[i+1:]...)
			return
		}
	}
	s.Tags = append(s.Tags, tag)
}

// IsDefault reports whether s filters nothing beyond the price limits.
func (s State) IsDefault() bool {
	return s.MinPrice == MinPriceLimit && s.MaxPrice == MaxPriceLimit &&
		s.CarType == "" && len(s.Tags) == 0
}

// ParseQuery builds a State from query parameters: min_price, max_price, type
// and tag (repeated or comma separated). Missing or unparseable prices fall
// back to the limits.
func ParseQuery(v url.Values) State {
	minPrice := parsePrice(v.Get("min_price"), MinPriceLimit)
	maxPrice := parsePrice(v.Get("max_price"), MaxPriceLimit)

	var tags []string
	for _, raw := range v["tag"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	var s State
	s.Apply(minPrice, maxPrice, strings.TrimSpace(v.Get("type")), tags)
	return s
}

func parsePrice(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}

func clampPrice(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	v = math.Floor(v)
	if v < MinPriceLimit {
		return MinPriceLimit
	}
	if v > MaxPriceLimit {
		return MaxPriceLimit
	}
	return v
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
