// Package viewmodel defines presentation-ready structs for the dashboard
// templates. Values are preformatted; templates never compute aggregates.
package viewmodel

// StarBarViewModel is one row of the per-star distribution chart.
type StarBarViewModel struct {
	Star    int
	Count   int
	Percent int // Share of the total, 0..100, rounded down.
	Active  bool
}

// DayViewModel is one entry of the per-day trend list.
type DayViewModel struct {
	Key    string // Empty for reviews without a timestamp.
	Label  string
	Count  int
	Active bool
}

// ReviewViewModel holds presentation-ready data for a single review record.
type ReviewViewModel struct {
	Rating        int
	FilledStars   string
	EmptyStars    string
	Review        string
	UserReplyHTML string
	SummaryHTML   string
	ActionsHTML   string
	Date          string
	Timestamp     string
}

// InsightViewModel is the group summary panel next to a rating filter.
type InsightViewModel struct {
	Visible  bool
	Loading  bool
	Rating   int
	TextHTML string
}

// DashboardViewModel holds all data needed to render either dashboard.
type DashboardViewModel struct {
	Title       string
	View        string
	Total       int
	Average     string
	Stars       []StarBarViewModel
	Days        []DayViewModel
	Reviews     []ReviewViewModel
	FilterLabel string
	Filtered    bool
	Insight     InsightViewModel
	UpdatedAt   string
	PollMillis  int64
	CSRFToken   string
}

// SubmitResultViewModel carries the outcome of a review submission back to
// the user form.
type SubmitResultViewModel struct {
	ReplyHTML string
	Error     string
}
