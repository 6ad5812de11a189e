package explore

import (
	"bytes"
	"testing"

	"github.com/drakos74/digits/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// blocks creates rows where every label lights up its own block of pixels.
func blocks(rows int) data.Table {
	t := data.Table{
		Labels:   make([]int, rows),
		Features: make([][]float64, rows),
	}
	for i := 0; i < rows; i++ {
		label := i % 2
		features := make([]float64, data.Pixels)
		for j := label * 100; j < label*100+50; j++ {
			features[j] = 1
		}
		t.Labels[i] = label
		t.Features[i] = features
	}
	return t
}

func TestDescribe(t *testing.T) {
	d, err := Describe(blocks(10))
	require.NoError(t, err)
	assert.Equal(t, 10, d.Rows)
	assert.Equal(t, 5, d.Labels[0])
	assert.Equal(t, 5, d.Labels[1])
	assert.Equal(t, 0, d.Labels[2])
	assert.Equal(t, data.Pixels, len(d.Pixels))
	assert.Equal(t, 100, d.Active())
	assert.Equal(t, 0.5, d.Pixels[0].Avg())
	assert.Equal(t, 0.0, d.Pixels[60].Max())

	var buf bytes.Buffer
	require.NoError(t, d.Print(&buf, 0, 72))
	assert.Contains(t, buf.String(), "10 rows, 100 of 784 pixels active")
	assert.Contains(t, buf.String(), "0.500")
	assert.Error(t, d.Print(&buf, 1000))

	_, err = Describe(data.Table{})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, []int{72, 350, 406}, SamplePixels)

	var buf bytes.Buffer
	require.NoError(t, Summarize(&buf, "Validation examples", blocks(6), SamplePixels...))
	out := buf.String()
	assert.Contains(t, out, "Validation examples:\n6 rows, 100 of 784 pixels active")
	assert.Contains(t, out, "350")
	assert.Contains(t, out, "406")

	assert.Error(t, Summarize(&buf, "empty", data.Table{}))
}

func TestExample(t *testing.T) {
	var buf bytes.Buffer
	table := blocks(4)
	i, err := Example(&buf, table, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.True(t, i >= 0 && i < table.Len())
	assert.Contains(t, buf.String(), "Label: ")
}

func TestClusters(t *testing.T) {
	c, err := Clusters(blocks(20), 2, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, len(c.Sizes))
	assert.Equal(t, 20, c.Sizes[0]+c.Sizes[1])
	assert.Greater(t, c.Purity, 0.0)
	assert.LessOrEqual(t, c.Purity, 1.0)

	_, err = Clusters(blocks(1), 2, 30)
	assert.Error(t, err)
}
