package review

import (
	"context"
	"fmt"
	"math"
)

// Bucket is the share of reviews with a given star count.
type Bucket struct {
	Stars   int     `json:"stars"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary aggregates the ratings of a car.
type Summary struct {
	Average   float64  `json:"average"`
	Count     int      `json:"count"`
	Breakdown []Bucket `json:"breakdown"`
}

// Summarize computes the average (rounded to two decimals), the count and a
// five-to-one star breakdown. Percent is a fraction of the total; all zero
// when there are no reviews.
func Summarize(reviews []Review) Summary {
	s := Summary{
		Count:     len(reviews),
		Breakdown: make([]Bucket, 5),
	}

	var counts [6]int
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			counts[r.Rating]++
		}
	}

	for i := range s.Breakdown {
		stars := 5 - i
		s.Breakdown[i] = Bucket{Stars: stars, Count: counts[stars]}
		if s.Count > 0 {
			s.Breakdown[i].Percent = float64(counts[stars]) / float64(s.Count)
		}
	}

	if s.Count > 0 {
		s.Average = math.Round(float64(sum)/float64(s.Count)*100) / 100
	}
	return s
}

// Result is a car's reviews together with their summary.
type Result struct {
	Reviews []Review `json:"reviews"`
	Summary Summary  `json:"summary"`
}

// Aggregator loads and summarizes the reviews of a car.
type Aggregator struct {
	src Source
}

// NewAggregator creates an aggregator over src.
func NewAggregator(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// ForCar loads the reviews of carID, leaving out those written by hostID,
// and summarizes them. anonymous names reviewers without a profile.
func (a *Aggregator) ForCar(ctx context.Context, carID, hostID, anonymous string) (*Result, error) {
	rows, err := a.src.ListForCar(ctx, carID, hostID, Limit)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews for car %s: %w", carID, err)
	}

	reviews := make([]Review, 0, len(rows))
	for _, r := range rows {
		reviews = append(reviews, FromRow(r, anonymous))
	}

	return &Result{Reviews: reviews, Summary: Summarize(reviews)}, nil
}
