package movie

import "math"

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// RatingSummary is the denormalized (averageRating, ratingsCount) pair kept
// on every movie row.
type RatingSummary struct {
	Average float64
	Count   int
}

// ComputeRatingSummary derives the summary from the complete rating set of a
// movie. The mean is rounded to two decimals; an empty set yields 0/0.
func ComputeRatingSummary(ratings []float64) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return RatingSummary{
		Average: RoundRating(sum / float64(len(ratings))),
		Count:   len(ratings),
	}
}

// RoundRating rounds to the two-decimal precision of the rating columns.
func RoundRating(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// IsValidRating reports whether v lies in [MinRating, MaxRating].
func IsValidRating(v float64) bool {
	return !math.IsNaN(v) && v >= MinRating && v <= MaxRating
}
