package data

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, batches *Batches, limit int) []Batch {
	bb := make([]Batch, 0)
	for i := 0; i < limit; i++ {
		b, err := batches.Next()
		if errors.Is(err, io.EOF) {
			return bb
		}
		require.NoError(t, err)
		bb = append(bb, b)
	}
	return bb
}

func TestPredictInput(t *testing.T) {
	type test struct {
		rows      int
		batchSize int
		batches   int
	}

	tests := map[string]test{
		"exact":       {rows: 20, batchSize: 5, batches: 4},
		"remainder":   {rows: 23, batchSize: 5, batches: 5},
		"single":      {rows: 3, batchSize: 10, batches: 1},
		"one-per-row": {rows: 7, batchSize: 1, batches: 7},
		"empty":       {rows: 0, batchSize: 3, batches: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := Parse(records(tt.rows, 4))
			require.NoError(t, err)

			batches, err := PredictInput(table, tt.batchSize)()
			require.NoError(t, err)
			assert.Equal(t, tt.batches, batches.Len())

			bb := drain(t, batches, 1000)
			assert.Equal(t, tt.batches, len(bb))
			total := 0
			for _, b := range bb {
				assert.True(t, b.Len() <= tt.batchSize)
				for i, label := range b.Labels {
					// prediction keeps the original order
					assert.Equal(t, (total+i)%Classes, label)
				}
				total += b.Len()
			}
			assert.Equal(t, tt.rows, total)
		})
	}
}

func TestTrainingInput_Epochs(t *testing.T) {
	table, err := Parse(records(10, 4))
	require.NoError(t, err)

	batches, err := TrainingInput(table, 3, WithEpochs(2), WithSeed(42))()
	require.NoError(t, err)

	bb := drain(t, batches, 1000)
	// 4 batches per epoch
	assert.Equal(t, 8, len(bb))

	counts := make(map[int]int)
	for _, b := range bb {
		for _, label := range b.Labels {
			counts[label]++
		}
	}
	for label := 0; label < Classes; label++ {
		assert.Equal(t, 2, counts[label])
	}
}

func TestTrainingInput_Forever(t *testing.T) {
	table, err := Parse(records(10, 4))
	require.NoError(t, err)

	batches, err := TrainingInput(table, 4, WithSeed(1))()
	require.NoError(t, err)

	bb := drain(t, batches, 100)
	assert.Equal(t, 100, len(bb))
}

func TestTrainingInput_ReshufflesOnEveryCall(t *testing.T) {
	table, err := Parse(records(50, 2))
	require.NoError(t, err)

	input := TrainingInput(table, 50, WithEpochs(1), WithShuffle(false), WithSeed(7))
	first, err := input()
	require.NoError(t, err)
	second, err := input()
	require.NoError(t, err)

	a := drain(t, first, 10)
	b := drain(t, second, 10)
	require.Equal(t, 1, len(a))
	require.Equal(t, 1, len(b))
	assert.ElementsMatch(t, a[0].Labels, b[0].Labels)
	assert.NotEqual(t, a[0].Features, b[0].Features)
}

func TestInput_Limits(t *testing.T) {
	table, err := Parse(records(10, 4))
	require.NoError(t, err)

	_, err = PredictInput(table, 0)()
	assert.Error(t, err)

	limit := MaxBytes
	defer func() {
		MaxBytes = limit
	}()
	MaxBytes = 100
	_, err = TrainingInput(table, 2)()
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = PredictInput(table, 2)()
	assert.ErrorIs(t, err, ErrTooLarge)
}
