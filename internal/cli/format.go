package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/car-finder/internal/filter"
	"github.com/evcraddock/car-finder/internal/listing"
	"github.com/evcraddock/car-finder/internal/review"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListingTable prints listings as a formatted table.
func printListingTable(out io.Writer, cars []listing.Listing) error {
	if len(cars) == 0 {
		_, err := fmt.Fprintln(out, "No cars found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tPRICE/DAY\tLOCATION\tRATING\tTAGS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t---------\t--------\t------\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, c := range cars {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncate(c.ID, 12), truncate(c.Name, 30), "$"+formatPrice(c.Price),
			truncate(c.Location, 24), formatRating(c.Rating),
			truncate(strings.Join(c.Tags, ", "), 30)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(out, "\nTotal: %d cars\n", len(cars))
	return err
}

// describeFilter summarises an active filter on one line.
func describeFilter(s filter.State) string {
	parts := []string{fmt.Sprintf("$%s-$%s/day", formatPrice(s.MinPrice), formatPrice(s.MaxPrice))}
	if s.CarType != "" {
		parts = append(parts, "type "+s.CarType)
	}
	if len(s.Tags) > 0 {
		parts = append(parts, "with "+strings.Join(s.Tags, ", "))
	}
	return strings.Join(parts, "; ")
}

// printCarSummary prints a single car in text format.
func printCarSummary(w io.Writer, c listing.Listing) {
	fmt.Fprintf(w, "%s\n", c.Name)
	fmt.Fprintf(w, "  ID:        %s\n", c.ID)
	fmt.Fprintf(w, "  Price:     $%s/day\n", formatPrice(c.Price))
	fmt.Fprintf(w, "  Location:  %s\n", c.Location)
	if c.Category != "" {
		fmt.Fprintf(w, "  Type:      %s\n", c.Category)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "  Features:  %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintf(w, "  Image:     %s\n", c.Image)
	if len(c.Photos) > 1 {
		fmt.Fprintf(w, "  Photos:    %d\n", len(c.Photos))
	}
	if c.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", c.Description)
	}
}

// printSummary prints the average rating and the star breakdown.
func printSummary(w io.Writer, s review.Summary) {
	if s.Count == 0 {
		fmt.Fprintln(w, "No reviews yet.")
		return
	}

	noun := "reviews"
	if s.Count == 1 {
		noun = "review"
	}
	fmt.Fprintf(w, "Rating: %s (%d %s)\n", formatRating(s.Average), s.Count, noun)
	for _, b := range s.Breakdown {
		fmt.Fprintf(w, "  %d %s %3.0f%%\n", b.Stars, bar(b.Percent, 20), b.Percent*100)
	}
}

// printReviewList prints reviews in text format.
func printReviewList(w io.Writer, reviews []review.Review) {
	for _, r := range reviews {
		fmt.Fprintf(w, "\n[%s] %s %s\n", r.CreatedAt.Format("2006-01-02"), stars(r.Rating), r.Reviewer.Name)
		if r.Comment != "" {
			fmt.Fprintf(w, "  %s\n", r.Comment)
		}
		if r.Likes > 0 || r.Dislikes > 0 {
			fmt.Fprintf(w, "  +%d / -%d\n", r.Likes, r.Dislikes)
		}
	}
}

// formatPrice formats a daily price with thousands separators, dropping the
// cents when the amount is whole.
func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	out := strings.Join(parts, ",")
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// formatRating formats a rating out of five, or "-" when unrated.
func formatRating(r float64) string {
	if r <= 0 {
		return "-"
	}
	return strconv.FormatFloat(r, 'f', -1, 64) + "/5"
}

// stars renders a 1-5 rating as filled and empty stars.
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// bar renders a fraction as a fixed-width bar.
func bar(fraction float64, width int) string {
	n := int(fraction*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("#", n) + strings.Repeat(".", width-n)
}

// truncate shortens s to max runes, adding "..." if truncated.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
