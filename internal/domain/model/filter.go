package model

// FilterKind distinguishes the available review filters.
type FilterKind string

const (
	FilterNone   FilterKind = ""
	FilterRating FilterKind = "rating"
	FilterDay    FilterKind = "day"
)

// Filter is a client-side selection criterion. Exactly one of Rating or Day
// is meaningful, depending on Kind.
type Filter struct {
	Kind   FilterKind
	Rating int
	Day    string
}

// NoFilter returns the empty filter.
func NoFilter() Filter {
	return Filter{}
}

// RatingFilter returns a filter selecting reviews with exactly the given rating.
func RatingFilter(rating int) Filter {
	return Filter{Kind: FilterRating, Rating: rating}
}

// DayFilter returns a filter selecting reviews from the given day key.
func DayFilter(day string) Filter {
	return Filter{Kind: FilterDay, Day: day}
}

// IsActive reports whether the filter narrows the review set.
func (f Filter) IsActive() bool {
	return f.Kind == FilterRating || f.Kind == FilterDay
}

// IsRating reports whether the filter selects by star rating.
func (f Filter) IsRating() bool {
	return f.Kind == FilterRating
}
