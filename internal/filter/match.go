package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/evcraddock/car-finder/internal/listing"
)

// Matches reports whether l passes every clause of s: price within range,
// car type among the listing's tags, and every selected tag present.
func Matches(l listing.Listing, s State) bool {
	if l.Price < s.MinPrice || l.Price > s.MaxPrice {
		return false
	}

	if s.CarType != "" {
		want := fold(s.CarType)
		found := false
		for _, t := range l.Tags {
			if fold(t) == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(s.Tags) == 0 {
		return true
	}

	have := make(map[string]bool, len(l.Tags))
	for _, t := range l.Tags {
		have[fold(strings.TrimSpace(t))] = true
	}
	for _, t := range s.Tags {
		if !have[fold(strings.TrimSpace(t))] {
			return false
		}
	}
	return true
}

// Evaluate returns the listings that match s, in their original order.
// The input is not modified.
func Evaluate(listings []listing.Listing, s State) []listing.Listing {
	out := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, s) {
			out = append(out, l)
		}
	}
	return out
}

// fold compares by Unicode case folding. A cases.Caser is stateful, so each
// call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
