package learning

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// WeightSummary describes the spread of stored calibration multipliers
type WeightSummary struct {
	PageType string  `json:"page_type,omitempty"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Boosted  int     `json:"boosted"`  // weights above 1.0
	Dampened int     `json:"dampened"` // weights below 1.0
}

// SummarizeWeights computes summary statistics over a set of weights.
// An empty set yields a zero summary.
func SummarizeWeights(weights []CalibrationWeight) (WeightSummary, error) {
	summary := WeightSummary{Count: len(weights)}
	if len(weights) == 0 {
		return summary, nil
	}

	data := make([]float64, len(weights))
	for i, w := range weights {
		data[i] = w.Weight
		switch {
		case w.Weight > 1.0:
			summary.Boosted++
		case w.Weight < 1.0:
			summary.Dampened++
		}
	}

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, fmt.Errorf("mean: %w", err)
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, fmt.Errorf("median: %w", err)
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return summary, fmt.Errorf("standard deviation: %w", err)
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, fmt.Errorf("min: %w", err)
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, fmt.Errorf("max: %w", err)
	}
	return summary, nil
}

// WeightStats loads the weights for a page type (all when empty) and
// summarizes them.
func (s *Store) WeightStats(ctx context.Context, pageType string) (WeightSummary, error) {
	weights, err := s.ListWeights(ctx, pageType)
	if err != nil {
		return WeightSummary{}, err
	}
	summary, err := SummarizeWeights(weights)
	if err != nil {
		return summary, fmt.Errorf("summarize weights: %w", err)
	}
	summary.PageType = pageType
	return summary, nil
}
