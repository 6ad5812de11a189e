package introspect

import (
	"context"
	"testing"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/estimator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digits(rows int) data.Table {
	t := data.Table{
		Labels:   make([]int, rows),
		Features: make([][]float64, rows),
	}
	for i := 0; i < rows; i++ {
		t.Labels[i] = i % data.Classes
		t.Features[i] = make([]float64, data.Pixels)
		for j := 0; j < data.Pixels; j += 1 + t.Labels[i] {
			t.Features[i][j] = 1
		}
	}
	return t
}

func TestImages(t *testing.T) {
	m, err := estimator.NewDNNClassifier(estimator.Config{
		HiddenUnits: []int{7, 5},
		ClipNorm:    5,
		Seed:        1,
		Root:        t.TempDir(),
	})
	require.NoError(t, err)

	_, err = Images(m, FirstHiddenLayer)
	assert.ErrorIs(t, err, ErrNotTrained)

	require.NoError(t, m.Train(context.Background(), data.TrainingInput(digits(20), 5), 2))

	images, err := Images(m, FirstHiddenLayer)
	require.NoError(t, err)
	require.Equal(t, 7, len(images))
	kernel, err := m.VariableValue(FirstHiddenLayer)
	require.NoError(t, err)
	for j, img := range images {
		require.Equal(t, data.Side*data.Side, len(img))
		assert.Equal(t, kernel.At(100, j), img[100])
	}

	r, c, err := Shape(m, FirstHiddenLayer)
	require.NoError(t, err)
	assert.Equal(t, data.Pixels, r)
	assert.Equal(t, 7, c)

	_, err = Images(m, "dnn/hiddenlayer_9/kernel")
	assert.ErrorIs(t, err, estimator.ErrVariableNotFound)

	// the second layer is not connected to the pixels
	_, err = Images(m, "dnn/hiddenlayer_1/kernel")
	assert.Error(t, err)
}
