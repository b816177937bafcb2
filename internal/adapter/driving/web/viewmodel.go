package web

import (
	"strings"
	"time"

	vm "github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driving/web/viewmodel"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/application"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// Average sentinels shown when no reviews are known.
const (
	adminAverageSentinel = "-"
	userAverageSentinel  = "0.00"
)

const (
	noDateLabel   = "No date"
	dateLayout    = "Jan 2, 2006"
	updatedLayout = "15:04:05"
)

// toDashboardViewModel converts a dashboard snapshot into template data.
// loc is the viewer's time zone for display dates.
func toDashboardViewModel(snap application.Snapshot, loc *time.Location, poll time.Duration, csrf string) vm.DashboardViewModel {
	if loc == nil {
		loc = time.Local
	}

	title := "Share Your Experience"
	sentinel := userAverageSentinel
	if snap.View == model.ViewAdmin {
		title = "Admin Analytics"
		sentinel = adminAverageSentinel
	}

	d := vm.DashboardViewModel{
		Title:       title,
		View:        string(snap.View),
		Total:       snap.Stats.Total,
		Average:     snap.Stats.Average.Format(sentinel),
		Stars:       toStarBars(snap.Stats, snap.Filter),
		Days:        toDays(snap.Stats, snap.Filter),
		Reviews:     toReviewViewModels(snap.Filtered, loc),
		FilterLabel: snap.FilterLabel,
		Filtered:    snap.Filter.IsActive(),
		Insight:     toInsightViewModel(snap.Filter, snap.Insight),
		PollMillis:  poll.Milliseconds(),
		CSRFToken:   csrf,
	}
	if !snap.UpdatedAt.IsZero() {
		d.UpdatedAt = snap.UpdatedAt.In(loc).Format(updatedLayout)
	}
	return d
}

func toStarBars(stats application.Stats, f model.Filter) []vm.StarBarViewModel {
	bars := make([]vm.StarBarViewModel, 0, len(application.StarValues))
	for _, star := range application.StarValues {
		count := stats.Counts.For(star)
		percent := 0
		if stats.Total > 0 {
			percent = count * 100 / stats.Total
		}
		bars = append(bars, vm.StarBarViewModel{
			Star:    star,
			Count:   count,
			Percent: percent,
			Active:  f.IsRating() && f.Rating == star,
		})
	}
	return bars
}

func toDays(stats application.Stats, f model.Filter) []vm.DayViewModel {
	days := make([]vm.DayViewModel, 0, len(stats.ByDay.Keys))
	for _, key := range stats.ByDay.Keys {
		label := key
		if key == "" {
			label = noDateLabel
		}
		days = append(days, vm.DayViewModel{
			Key:    key,
			Label:  label,
			Count:  stats.ByDay.Count(key),
			Active: f.Kind == model.FilterDay && f.Day == key,
		})
	}
	return days
}

func toReviewViewModels(subs []model.Submission, loc *time.Location) []vm.ReviewViewModel {
	vms := make([]vm.ReviewViewModel, 0, len(subs))
	for _, s := range subs {
		filled := s.ValidRating()
		r := vm.ReviewViewModel{
			Rating:        filled,
			FilledStars:   strings.Repeat("★", filled),
			EmptyStars:    strings.Repeat("★", model.MaxRating-filled),
			Review:        s.Review,
			UserReplyHTML: RenderMarkdown(s.UserReply),
			SummaryHTML:   RenderMarkdown(s.AISummary),
			ActionsHTML:   RenderMarkdown(s.AIActions),
		}
		if !s.Timestamp.IsZero() {
			local := s.Timestamp.In(loc)
			r.Date = local.Format(dateLayout)
			r.Timestamp = local.Format(time.RFC3339)
		}
		vms = append(vms, r)
	}
	return vms
}

func toInsightViewModel(f model.Filter, in model.Insight) vm.InsightViewModel {
	if !f.IsRating() || in.State == model.InsightIdle || in.State == "" {
		return vm.InsightViewModel{}
	}
	return vm.InsightViewModel{
		Visible:  true,
		Loading:  in.State == model.InsightLoading,
		Rating:   f.Rating,
		TextHTML: RenderMarkdown(in.Text),
	}
}
