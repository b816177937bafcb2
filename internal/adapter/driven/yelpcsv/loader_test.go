package yelpcsv_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/adapter/driven/yelpcsv"
	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

func TestLoad_ReadsColumnsByName(t *testing.T) {
	input := "business_id,stars,text,useful\n" +
		"b1,5,\"Great tacos, friendly staff\",2\n" +
		"b2,2.0,Slow service,0\n"

	rows, err := yelpcsv.Load(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []model.LabeledReview{
		{Text: "Great tacos, friendly staff", Stars: 5},
		{Text: "Slow service", Stars: 2},
	}, rows)
}

func TestLoad_MultilineText(t *testing.T) {
	input := "text,stars\n\"First line\nsecond line\",4\n"

	rows, err := yelpcsv.Load(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First line\nsecond line", rows[0].Text)
	assert.Equal(t, 4, rows[0].Stars)
}

func TestLoad_BadStarsBecomeZero(t *testing.T) {
	input := "text,stars\nA,\nB,four\nC,3.5\nD,1\n"

	rows, err := yelpcsv.Load(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, 0, rows[0].Stars)
	assert.Equal(t, 0, rows[1].Stars)
	assert.Equal(t, 0, rows[2].Stars)
	assert.Equal(t, 1, rows[3].Stars)
}

func TestLoad_SkipsShortRecords(t *testing.T) {
	input := "stars,text\n5\n3,ok\n"

	rows, err := yelpcsv.Load(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []model.LabeledReview{{Text: "ok", Stars: 3}}, rows)
}

func TestLoad_HeaderCaseAndBOM(t *testing.T) {
	input := "\ufeffText, Stars \nhello,5\n"

	rows, err := yelpcsv.Load(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []model.LabeledReview{{Text: "hello", Stars: 5}}, rows)
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no text", input: "stars,useful\n5,1\n"},
		{name: "no stars", input: "text,useful\nhi,1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := yelpcsv.Load(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, yelpcsv.ErrMissingColumn)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yelp.csv")
	require.NoError(t, os.WriteFile(path, []byte("text,stars\nnice,4\n"), 0o600))

	rows, err := yelpcsv.LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, []model.LabeledReview{{Text: "nice", Stars: 4}}, rows)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := yelpcsv.LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
