package model

import "time"

// Rating bounds for a review submission.
const (
	MinRating = 1
	MaxRating = 5
)

// Submission represents a single customer review record as exposed by the
// feedback API. AI-generated fields are optional and may be empty.
type Submission struct {
	ID        string // Empty for records created before IDs were assigned.
	Rating    int    // 0 when the source record had no usable rating.
	Review    string
	UserReply string
	AISummary string
	AIActions string
	Timestamp time.Time // Zero when the source record had no timestamp.
}

// HasValidRating reports whether the rating is within MinRating..MaxRating.
func (s Submission) HasValidRating() bool {
	return s.Rating >= MinRating && s.Rating <= MaxRating
}

// ValidRating returns the rating, or 0 when it is missing or out of range.
func (s Submission) ValidRating() int {
	if !s.HasValidRating() {
		return 0
	}
	return s.Rating
}
