package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drakos74/digits/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapShade(t *testing.T) {
	type test struct {
		value float64
		shade rune
	}

	tests := map[string]test{
		"zero":     {value: 0, shade: ' '},
		"negative": {value: -1, shade: ' '},
		"half":     {value: 0.5, shade: '▒'},
		"full":     {value: 1, shade: '█'},
		"above":    {value: 2, shade: '█'},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, string(tt.shade), string(MapShade(tt.value)))
		})
	}
}

func TestMapDiverging(t *testing.T) {
	assert.Equal(t, '#', MapDiverging(2, 2))
	assert.Equal(t, '≡', MapDiverging(-2, 2))
	assert.Equal(t, '·', MapDiverging(0, 2))
	assert.Equal(t, '·', MapDiverging(1, 0))
}

func TestLossCurve(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	err := LossCurve(&buf, "dnn", []float64{2.3, 1.1, 0.6}, []float64{2.2, 1.2, 0.7}, Config{Height: 5, PNGDir: dir})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "LogLoss vs. Periods (dnn)")
	assert.Contains(t, out, "final training: 0.60, validation: 0.70")
	assert.FileExists(t, filepath.Join(dir, "dnn_loss.png"))

	err = LossCurve(&buf, "dnn", nil, nil, Config{})
	assert.Error(t, err)
}

func TestConfusion(t *testing.T) {
	cm, err := metrics.Confusion(3, []int{0, 1, 2, 2}, []int{0, 1, 2, 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	dir := t.TempDir()
	require.NoError(t, Confusion(&buf, "linear", cm, Config{PNGDir: dir}))
	out := buf.String()
	assert.Contains(t, out, "Confusion matrix (linear)")
	assert.Contains(t, out, "█ 1.00")
	assert.Contains(t, out, "0.50")
	assert.FileExists(t, filepath.Join(dir, "linear_confusion.png"))

	assert.Error(t, Confusion(&buf, "linear", nil, Config{}))
}

func TestGrid(t *testing.T) {
	type test struct {
		images int
		perRow int
		rows   int
	}

	tests := map[string]test{
		"single-row": {images: 4, perRow: 10, rows: 1},
		"exact":      {images: 20, perRow: 10, rows: 2},
		"partial":    {images: 25, perRow: 10, rows: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			side := 3
			images := make([][]float64, tt.images)
			for i := range images {
				images[i] = make([]float64, side*side)
				images[i][i%(side*side)] = float64(i%3) - 1
			}
			var buf bytes.Buffer
			require.NoError(t, Grid(&buf, images, side, tt.perRow))
			assert.Equal(t, tt.rows, Rows(tt.images, tt.perRow))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			// side lines per grid row plus a blank separator between grid rows
			assert.Equal(t, tt.rows*side+tt.rows-1, len(lines))
			cols := tt.perRow
			if tt.images < cols {
				cols = tt.images
			}
			assert.Equal(t, cols*side+cols-1, len([]rune(lines[0])))

			dir := t.TempDir()
			require.NoError(t, SaveGrid(dir, "dnn", images, side, tt.perRow))
			_, err := os.Stat(filepath.Join(dir, "dnn_weights.png"))
			assert.NoError(t, err)
		})
	}

	var buf bytes.Buffer
	assert.Error(t, Grid(&buf, [][]float64{{1, 2}}, 3, 10))
	assert.Error(t, SaveGrid(t.TempDir(), "dnn", [][]float64{{1, 2}}, 3, 10))
	assert.Error(t, SaveGrid(t.TempDir(), "dnn", nil, 3, 10))
}

func TestImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Image(&buf, "label 7", []float64{0, 1, 1, 0}, 2))
	assert.Equal(t, "label 7\n █\n█ \n", buf.String())
}
