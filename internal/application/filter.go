package application

import (
	"fmt"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// ApplyFilter selects the subset of subs matching f and returns it with a
// descriptive label. groups must be derived from the same subs. The result
// is always computed from the arguments, never cached.
func ApplyFilter(subs []model.Submission, groups DayGroups, f model.Filter) ([]model.Submission, string) {
	switch f.Kind {
	case model.FilterRating:
		filtered := make([]model.Submission, 0, len(subs))
		for _, s := range subs {
			if s.Rating == f.Rating {
				filtered = append(filtered, s)
			}
		}
		return filtered, FilterLabel(f)

	case model.FilterDay:
		day, ok := groups.Get(f.Day)
		if !ok {
			day = []model.Submission{}
		}
		return day, FilterLabel(f)

	default:
		return subs, ""
	}
}

// FilterLabel returns the human-readable description of an active filter.
func FilterLabel(f model.Filter) string {
	switch f.Kind {
	case model.FilterRating:
		return fmt.Sprintf("showing only %d-star reviews", f.Rating)
	case model.FilterDay:
		return fmt.Sprintf("showing only reviews from %s", f.Day)
	default:
		return ""
	}
}
