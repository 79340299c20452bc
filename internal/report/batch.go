package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ukane-philemon/srecords/internal/db"
)

const (
	// MaxMark is the highest mark accepted for a batch entry. There is no
	// lower bound.
	MaxMark = 100.0
	// MaxEntries caps the number of entries in a single batch.
	MaxEntries = 500

	// TimeLayout renders batch timestamps as DD-MM-YYYY hh:mm AM/PM.
	TimeLayout = "02-01-2006 03:04 PM"

	noneAboveAverage = "No student scored above average."
)

// Entry is a single student mark in a batch.
type Entry struct {
	Name string  `json:"name" bson:"name"`
	Mark float64 `json:"mark" bson:"mark"`
}

// Batch is one saved set of student marks. CreatedAt is nil for batches
// saved before timestamps were recorded.
type Batch struct {
	Students  []Entry    `json:"students" bson:"students"`
	Average   float64    `json:"average" bson:"average"`
	CreatedAt *time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Analysis is the result of analysing a batch.
type Analysis struct {
	Average float64
	// AboveAverage holds the entries with a mark strictly greater than
	// Average, in input order.
	AboveAverage []Entry
}

// ValidName reports whether name is made up of letters and spaces only.
func ValidName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

// DefaultName is the name given to the entry at index i when none was
// provided.
func DefaultName(i int) string {
	return fmt.Sprintf("Student %d", i+1)
}

// Normalize validates entries and substitutes default names for blank ones.
// The first invalid entry aborts the whole batch with db.ErrInvalidRequest.
func Normalize(entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one student is required", db.ErrInvalidRequest)
	}

	if len(entries) > MaxEntries {
		return nil, fmt.Errorf("%w: a batch cannot have more than %d students", db.ErrInvalidRequest, MaxEntries)
	}

	normalized := make([]Entry, len(entries))
	for index, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = DefaultName(index)
		} else if !ValidName(name) {
			return nil, fmt.Errorf("%w: name %q of student %d must contain only letters and spaces",
				db.ErrInvalidRequest, entry.Name, index+1)
		}

		if entry.Mark > MaxMark {
			return nil, fmt.Errorf("%w: mark %s of %s exceeds the maximum mark (%s)",
				db.ErrInvalidRequest, formatMark(entry.Mark), name, formatMark(MaxMark))
		}

		normalized[index] = Entry{Name: name, Mark: entry.Mark}
	}

	return normalized, nil
}

// Analyze computes the average mark of entries and the entries above it.
func Analyze(entries []Entry) (*Analysis, error) {
	if len(entries) == 0 {
		return nil, errors.New("cannot analyze an empty batch")
	}

	var total float64
	for _, entry := range entries {
		total += entry.Mark
	}

	analysis := &Analysis{
		Average: total / float64(len(entries)),
	}
	for _, entry := range entries {
		if entry.Mark > analysis.Average {
			analysis.AboveAverage = append(analysis.AboveAverage, entry)
		}
	}

	return analysis, nil
}

// Text renders the analysis the way it is shown after a batch is saved.
func (a *Analysis) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Average Mark = %.2f\n", a.Average)
	sb.WriteString("Students with marks above average:\n")
	if len(a.AboveAverage) == 0 {
		sb.WriteString(noneAboveAverage + "\n")
	}
	for _, entry := range a.AboveAverage {
		writeEntry(&sb, entry)
	}
	return sb.String()
}

// RenderHistory renders saved batches, one block per batch, in the order
// given.
func RenderHistory(batches []*Batch) string {
	if len(batches) == 0 {
		return "No saved records.\n"
	}

	var sb strings.Builder
	for _, batch := range batches {
		fmt.Fprintf(&sb, "Saved at: %s\n", FormatTime(batch.CreatedAt))
		fmt.Fprintf(&sb, "Average: %.2f\n", batch.Average)
		for _, entry := range batch.Students {
			writeEntry(&sb, entry)
		}
		sb.WriteString("---\n")
	}
	return sb.String()
}

// FormatTime formats t in UTC using TimeLayout. A nil t renders as
// "unknown".
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(TimeLayout)
}

func writeEntry(sb *strings.Builder, entry Entry) {
	fmt.Fprintf(sb, "%s: %s\n", entry.Name, formatMark(entry.Mark))
}

func formatMark(mark float64) string {
	return strconv.FormatFloat(mark, 'f', -1, 64)
}
