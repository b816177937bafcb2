package model

// InsightState is the lifecycle state of a group summary request.
type InsightState string

const (
	InsightIdle    InsightState = "idle"
	InsightLoading InsightState = "loading"
	InsightReady   InsightState = "ready"
)

// Insight is the current group summary shown next to a rating filter.
// Text is only populated in the ready state.
type Insight struct {
	State InsightState
	Text  string
}
