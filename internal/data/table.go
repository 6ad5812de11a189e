package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
)

const (
	// Side is the width and height of a digit image.
	Side = 28
	// Pixels is the number of features of every example.
	Pixels = Side * Side
	// Classes is the number of digit classes.
	Classes = 10
	// MaxValue is the largest raw pixel intensity.
	MaxValue = 255.0
)

// ErrMalformed is returned for records that cannot be parsed into labels and features.
var ErrMalformed = errors.New("malformed record")

// Table holds the labels and the features of a set of examples.
// Row i of Features belongs to Labels[i].
type Table struct {
	Labels   []int
	Features [][]float64
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Labels)
}

// Width returns the number of features per row.
func (t Table) Width() int {
	if len(t.Features) == 0 {
		return 0
	}
	return len(t.Features[0])
}

// Head returns the first n rows, or all of them if there are fewer.
func (t Table) Head(n int) Table {
	if n > t.Len() || n < 0 {
		n = t.Len()
	}
	return t.Slice(0, n)
}

// Slice returns the rows in [from, to).
// The returned table shares the underlying rows.
func (t Table) Slice(from, to int) Table {
	return Table{
		Labels:   t.Labels[from:to],
		Features: t.Features[from:to],
	}
}

// Split divides the table at the given row into two disjoint tables.
func (t Table) Split(at int) (Table, Table) {
	if at > t.Len() {
		at = t.Len()
	}
	return t.Slice(0, at), t.Slice(at, t.Len())
}

// Reindex returns a new table with the rows in the given order.
func (t Table) Reindex(idx []int) Table {
	labels := make([]int, len(idx))
	features := make([][]float64, len(idx))
	for i, j := range idx {
		labels[i] = t.Labels[j]
		features[i] = t.Features[j]
	}
	return Table{
		Labels:   labels,
		Features: features,
	}
}

// Shuffle returns a new table with the rows in a random order.
func (t Table) Shuffle(rng *rand.Rand) Table {
	return t.Reindex(rng.Perm(t.Len()))
}

// Parse extracts the labels from the first column and the scaled features from the rest.
func Parse(records [][]string) (Table, error) {
	t := Table{
		Labels:   make([]int, len(records)),
		Features: make([][]float64, len(records)),
	}
	width := -1
	for i, record := range records {
		if len(record) < 2 {
			return Table{}, fmt.Errorf("row %d has %d columns: %w", i, len(record), ErrMalformed)
		}
		if width < 0 {
			width = len(record)
		} else if len(record) != width {
			return Table{}, fmt.Errorf("row %d has %d columns instead of %d: %w", i, len(record), width, ErrMalformed)
		}
		label, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return Table{}, fmt.Errorf("row %d label '%s': %w", i, record[0], ErrMalformed)
		}
		if label < 0 || label >= Classes {
			return Table{}, fmt.Errorf("row %d label %d out of range: %w", i, label, ErrMalformed)
		}
		raw := make([]float64, len(record)-1)
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return Table{}, fmt.Errorf("row %d column %d '%s': %w", i, j+1, cell, ErrMalformed)
			}
			raw[j] = v
		}
		t.Labels[i] = label
		t.Features[i] = Scale(raw)
	}
	return t, nil
}

// Scale divides all values by the max pixel value in place and returns the slice.
func Scale(raw []float64) []float64 {
	for i := range raw {
		raw[i] = raw[i] / MaxValue
	}
	return raw
}
