package feedbackapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// submissionDTO is one element of the GET /submissions array.
type submissionDTO struct {
	ID        string     `json:"id"`
	Rating    wireRating `json:"rating"`
	Review    string     `json:"review"`
	Timestamp wireTime   `json:"timestamp"`
	UserReply string     `json:"user_reply"`
	AISummary string     `json:"ai_summary"`
	AIActions string     `json:"ai_actions"`
}

type submitRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	UserReply string `json:"user_reply"`
}

type starSummaryRequest struct {
	Reviews []string `json:"reviews"`
	Rating  int      `json:"rating"`
}

type starSummaryResponse struct {
	GroupAction string `json:"group_action"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// wireRating decodes an integral JSON number. Strings, fractions, null and
// any other value decode to 0 without failing the record.
type wireRating int

func (r *wireRating) UnmarshalJSON(data []byte) error {
	*r = 0

	// json.Number also accepts numeric strings.
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	if v, err := n.Int64(); err == nil {
		*r = wireRating(v)
		return nil
	}
	v, err := n.Float64()
	if err != nil || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return nil
	}
	*r = wireRating(v)
	return nil
}

// wireTime holds the raw timestamp string. Non-string values decode to the
// empty string, which becomes the zero time.
type wireTime string

func (t *wireTime) UnmarshalJSON(data []byte) error {
	*t = ""

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*t = wireTime(s)
	return nil
}

// timestampLayouts lists accepted timestamp formats. Layouts without a zone
// are records written in UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// toModel converts the wire record. An unparseable timestamp becomes the zero
// time rather than failing the whole list.
func (d submissionDTO) toModel() (model.Submission, error) {
	ts, err := parseTimestamp(string(d.Timestamp))
	return model.Submission{
		ID:        d.ID,
		Rating:    int(d.Rating),
		Review:    d.Review,
		UserReply: d.UserReply,
		AISummary: d.AISummary,
		AIActions: d.AIActions,
		Timestamp: ts,
	}, err
}
