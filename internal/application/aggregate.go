package application

import (
	"math"
	"strconv"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// StarValues lists star ratings in display order, highest first.
var StarValues = [5]int{5, 4, 3, 2, 1}

// DayKeyLayout is the layout used to derive day keys from timestamps.
const DayKeyLayout = "2006-01-02"

// AverageRating is the mean rating of a review set. Valid is false for an
// empty set.
type AverageRating struct {
	Value float64
	Valid bool
}

// Format renders the average with two decimals, or the sentinel when the
// average is unavailable.
func (a AverageRating) Format(sentinel string) string {
	if !a.Valid {
		return sentinel
	}
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

// StarCounts holds review counts per star, indexed in StarValues order
// (index 0 is 5 stars, index 4 is 1 star).
type StarCounts [5]int

// For returns the count for the given star value, or 0 for values outside 1..5.
func (c StarCounts) For(star int) int {
	if star < model.MinRating || star > model.MaxRating {
		return 0
	}
	return c[model.MaxRating-star]
}

// Sum returns the number of reviews with a valid rating.
func (c StarCounts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// DayGroups partitions reviews by day key. Keys preserves first-seen order.
type DayGroups struct {
	Keys   []string
	groups map[string][]model.Submission
}

// Get returns the reviews for a day key in their original relative order.
func (g DayGroups) Get(key string) ([]model.Submission, bool) {
	subs, ok := g.groups[key]
	return subs, ok
}

// Count returns the number of reviews grouped under a day key.
func (g DayGroups) Count(key string) int {
	return len(g.groups[key])
}

// Stats is the full set of aggregates derived from a review list.
type Stats struct {
	Total   int
	Average AverageRating
	Counts  StarCounts
	ByDay   DayGroups
}

// Aggregate derives all statistics for subs. Day keys are computed in loc;
// a nil loc means time.Local.
func Aggregate(subs []model.Submission, loc *time.Location) Stats {
	return Stats{
		Total:   len(subs),
		Average: AverageOf(subs),
		Counts:  CountByStar(subs),
		ByDay:   GroupByDay(subs, loc),
	}
}

// AverageOf computes the mean rating rounded to two decimals. Missing or
// out-of-range ratings contribute 0 to the sum but still count toward the total.
func AverageOf(subs []model.Submission) AverageRating {
	if len(subs) == 0 {
		return AverageRating{}
	}

	sum := 0
	for _, s := range subs {
		sum += s.ValidRating()
	}

	mean := float64(sum) / float64(len(subs))
	return AverageRating{Value: math.Round(mean*100) / 100, Valid: true}
}

// CountByStar counts reviews with exactly each star rating. Missing ratings
// match no star.
func CountByStar(subs []model.Submission) StarCounts {
	var counts StarCounts
	for _, s := range subs {
		if s.HasValidRating() {
			counts[model.MaxRating-s.Rating]++
		}
	}
	return counts
}

// GroupByDay groups reviews by calendar day in loc. Reviews without a
// timestamp are grouped under the empty key.
func GroupByDay(subs []model.Submission, loc *time.Location) DayGroups {
	groups := DayGroups{
		Keys:   []string{},
		groups: make(map[string][]model.Submission),
	}

	for _, s := range subs {
		key := DayKey(s.Timestamp, loc)
		if _, seen := groups.groups[key]; !seen {
			groups.Keys = append(groups.Keys, key)
		}
		groups.groups[key] = append(groups.groups[key], s)
	}

	return groups
}

// DayKey truncates ts to a calendar day in loc. The zero time maps to "".
func DayKey(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(DayKeyLayout)
}
