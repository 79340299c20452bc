package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukane-philemon/srecords/internal/db"
)

func entries(marks ...float64) []Entry {
	var es []Entry
	for i, mark := range marks {
		es = append(es, Entry{Name: DefaultName(i), Mark: mark})
	}
	return es
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name         string
		entries      []Entry
		average      float64
		aboveAverage []Entry
	}{{
		name:         "one above average",
		entries:      entries(50, 70, 90),
		average:      70,
		aboveAverage: []Entry{{Name: "Student 3", Mark: 90}},
	}, {
		name:    "equal marks",
		entries: entries(40, 40),
		average: 40,
	}, {
		name:    "single entry",
		entries: entries(-5),
		average: -5,
	}, {
		name:         "input order kept",
		entries:      []Entry{{"Zed", 99}, {"Amy", 10}, {"Bob", 80}},
		average:      63,
		aboveAverage: []Entry{{"Zed", 99}, {"Bob", 80}},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			analysis, err := Analyze(test.entries)
			require.NoError(t, err)
			assert.InDelta(t, test.average, analysis.Average, 1e-9)
			assert.Equal(t, test.aboveAverage, analysis.AboveAverage)
		})
	}

	_, err := Analyze(nil)
	assert.Error(t, err)
}

func TestAnalyzeMatchesMean(t *testing.T) {
	es := entries(12.5, 99.25, -3, 0, 47.75, 100)
	analysis, err := Analyze(es)
	require.NoError(t, err)

	var sum float64
	for _, e := range es {
		sum += e.Mark
	}
	assert.InDelta(t, sum/float64(len(es)), analysis.Average, 1e-9)

	for _, e := range es {
		if e.Mark > analysis.Average {
			assert.Contains(t, analysis.AboveAverage, e)
		} else {
			assert.NotContains(t, analysis.AboveAverage, e)
		}
	}
}

func TestNormalize(t *testing.T) {
	normalized, err := Normalize([]Entry{{Name: "", Mark: 10}, {Name: "  Anna Lee ", Mark: 20}, {Name: "José", Mark: -4}})
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"Student 1", 10}, {"Anna Lee", 20}, {"José", -4}}, normalized)

	_, err = Normalize([]Entry{{Name: "Bola", Mark: 50}, {Name: "Anna Lee 2", Mark: 60}})
	assert.ErrorIs(t, err, db.ErrInvalidRequest)

	_, err = Normalize([]Entry{{Name: "Bola", Mark: 100.5}})
	assert.ErrorIs(t, err, db.ErrInvalidRequest)

	_, err = Normalize([]Entry{{Name: "Bola", Mark: 100}})
	assert.NoError(t, err)

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, db.ErrInvalidRequest)

	_, err = Normalize(make([]Entry, MaxEntries+1))
	assert.ErrorIs(t, err, db.ErrInvalidRequest)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Anna Lee"))
	assert.True(t, ValidName("Zoë"))
	assert.False(t, ValidName("Anna Lee 2"))
	assert.False(t, ValidName("O'Neil"))
	assert.False(t, ValidName("Anna-Lee"))
}

func TestAnalysisText(t *testing.T) {
	analysis, err := Analyze([]Entry{{"Ada", 50}, {"Ben", 70}, {"Cy", 90}})
	require.NoError(t, err)
	assert.Equal(t, "Average Mark = 70.00\nStudents with marks above average:\nCy: 90\n", analysis.Text())

	analysis, err = Analyze([]Entry{{"Ada", 40}, {"Ben", 40}})
	require.NoError(t, err)
	assert.Equal(t, "Average Mark = 40.00\nStudents with marks above average:\nNo student scored above average.\n", analysis.Text())
}

func TestRenderHistory(t *testing.T) {
	createdAt := time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)
	batches := []*Batch{{
		Students:  []Entry{{"Ada", 72.5}, {"Ben", 40}},
		Average:   56.25,
		CreatedAt: &createdAt,
	}, {
		Students: []Entry{{"Cy", 10}},
		Average:  10,
	}}

	want := "Saved at: 18-10-2026 02:05 PM\nAverage: 56.25\nAda: 72.5\nBen: 40\n---\n" +
		"Saved at: unknown\nAverage: 10.00\nCy: 10\n---\n"
	assert.Equal(t, want, RenderHistory(batches))
	assert.Equal(t, "No saved records.\n", RenderHistory(nil))
}

func TestFormatTime(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	morning := time.Date(2026, 1, 2, 9, 7, 0, 0, lagos)
	assert.Equal(t, "02-01-2026 08:07 AM", FormatTime(&morning))
	assert.Equal(t, "unknown", FormatTime(nil))
	assert.Equal(t, "unknown", FormatTime(&time.Time{}))
}
