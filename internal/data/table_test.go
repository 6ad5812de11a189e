package data

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// records creates rows of a label followed by width pixel values.
func records(rows, width int) [][]string {
	rr := make([][]string, rows)
	for i := 0; i < rows; i++ {
		r := make([]string, width+1)
		r[0] = strconv.Itoa(i % Classes)
		for j := 1; j <= width; j++ {
			r[j] = strconv.Itoa((i + j) % 256)
		}
		rr[i] = r
	}
	return rr
}

func TestParse(t *testing.T) {
	table, err := Parse(records(300, Pixels))
	require.NoError(t, err)
	// row 254 starts with the max intensity
	assert.Equal(t, 1.0, table.Features[254][0])
	assert.Equal(t, 1.0/MaxValue, table.Features[0][0])

	assert.Equal(t, 300, table.Len())
	assert.Equal(t, Pixels, table.Width())
	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, i%Classes, table.Labels[i])
		for _, v := range table.Features[i] {
			assert.True(t, v >= 0 && v <= 1, fmt.Sprintf("value %v out of range", v))
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	type test struct {
		records [][]string
	}

	tests := map[string]test{
		"label-not-a-number": {
			records: [][]string{{"x", "1", "2"}},
		},
		"label-out-of-range": {
			records: [][]string{{"10", "1", "2"}},
		},
		"pixel-not-a-number": {
			records: [][]string{{"1", "1", "y"}},
		},
		"ragged": {
			records: [][]string{{"1", "1", "2"}, {"1", "1"}},
		},
		"no-features": {
			records: [][]string{{"1"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.records)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestScale(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 0.2}, Scale([]float64{0, 255, 51}))
}

func TestPartition(t *testing.T) {
	table, err := Parse(records(12000, 2))
	require.NoError(t, err)
	// mark every row with a unique id to check for overlaps
	for i := range table.Features {
		table.Features[i][0] = float64(i)
	}

	sets := Partition(table, 10000, 7500, rand.New(rand.NewSource(1)))
	assert.Equal(t, 7500, sets.Training.Len())
	assert.Equal(t, 2500, sets.Validation.Len())

	seen := make(map[float64]bool)
	for _, set := range []Table{sets.Training, sets.Validation} {
		for _, row := range set.Features {
			id := row[0]
			assert.False(t, seen[id], "row %v appears twice", id)
			assert.True(t, id < 10000, "row %v is not in the head of the table", id)
			seen[id] = true
		}
	}
	assert.Equal(t, 10000, len(seen))
}

func TestTable_Split(t *testing.T) {
	table, err := Parse(records(10, 2))
	require.NoError(t, err)

	a, b := table.Split(7)
	assert.Equal(t, 7, a.Len())
	assert.Equal(t, 3, b.Len())

	a, b = table.Split(20)
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 0, b.Len())
}
