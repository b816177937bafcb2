// Package yelpcsv reads labeled reviews from a Yelp dataset CSV export.
package yelpcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// Column names read from the header row.
const (
	TextColumn  = "text"
	StarsColumn = "stars"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// LoadFile reads labeled reviews from the CSV file at path.
func LoadFile(path string) ([]model.LabeledReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// Load reads labeled reviews from r. Columns are located by header name and
// may appear in any order. Rows with empty text or an unparseable star value
// are kept with Stars 0 so callers decide how to filter them.
func Load(r io.Reader) ([]model.LabeledReview, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	textIdx, starsIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case TextColumn:
			textIdx = i
		case StarsColumn:
			starsIdx = i
		}
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, TextColumn)
	}
	if starsIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, StarsColumn)
	}

	var rows []model.LabeledReview
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if textIdx >= len(rec) || starsIdx >= len(rec) {
			continue
		}

		rows = append(rows, model.LabeledReview{
			Text:  rec[textIdx],
			Stars: parseStars(rec[starsIdx]),
		})
	}

	return rows, nil
}

// parseStars accepts integral values written as "4" or "4.0".
func parseStars(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}
