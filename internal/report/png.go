package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/drakos74/digits/internal/storage"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotSize = 6 * vg.Inch
	shades   = 255
)

// SaveGrid writes the images as one heat map with perRow images per row, blue for negative and red for positive.
func SaveGrid(dir, name string, images [][]float64, side, perRow int) error {
	if len(images) == 0 {
		return fmt.Errorf("no images to save")
	}
	if perRow < 1 {
		perRow = PerRow
	}
	limit := 0.0
	for i, img := range images {
		if len(img) != side*side {
			return fmt.Errorf("image %d has %d values instead of %d", i, len(img), side*side)
		}
		for _, v := range img {
			limit = math.Max(limit, math.Abs(v))
		}
	}
	if limit == 0 {
		limit = 1
	}
	cols := perRow
	if len(images) < cols {
		cols = len(images)
	}
	rows := Rows(len(images), perRow)
	// one blank line between the tiles
	mosaic := mat.NewDense(rows*(side+1)-1, cols*(side+1)-1, nil)
	for k, img := range images {
		r0 := (k / perRow) * (side + 1)
		c0 := (k % perRow) * (side + 1)
		for i, v := range img {
			mosaic.Set(r0+i/side, c0+i%side, v)
		}
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMax(limit)
	colors.SetMin(-limit)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s first hidden layer weights", name)
	p.HideAxes()
	heat := plotter.NewHeatMap(grid{m: mosaic}, colors.Palette(shades))
	heat.Min = -limit
	heat.Max = limit
	p.Add(heat)
	return save(p, dir, fmt.Sprintf("%s_weights.png", name))
}

// SaveConfusion writes the normalized confusion matrix as a heat map.
func SaveConfusion(dir, name string, normalized [][]float64) error {
	n := len(normalized)
	if n == 0 {
		return fmt.Errorf("empty confusion matrix")
	}
	m := mat.NewDense(n, n, nil)
	for i, row := range normalized {
		m.SetRow(i, row)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Confusion matrix (%s)", name)
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"
	heat := plotter.NewHeatMap(grid{m: m}, palette.Heat(shades, 1))
	heat.Min = 0
	heat.Max = 1
	p.Add(heat)
	return save(p, dir, fmt.Sprintf("%s_confusion.png", name))
}

// SaveLossCurve draws the training (red) and validation (blue) log-loss per period.
func SaveLossCurve(dir, name string, training, validation []float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("LogLoss vs. Periods (%s)", name)
	p.X.Label.Text = "Periods"
	p.Y.Label.Text = "LogLoss"

	series := []struct {
		label  string
		values []float64
		color  color.Color
	}{
		{label: "training", values: training, color: color.RGBA{R: 200, A: 255}},
		{label: "validation", values: validation, color: color.RGBA{B: 200, A: 255}},
	}
	for _, s := range series {
		xys := make(plotter.XYs, len(s.values))
		for i, v := range s.values {
			xys[i].X = float64(i)
			xys[i].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("could not plot %s loss: %w", s.label, err)
		}
		line.Color = s.color
		p.Add(line)
		p.Legend.Add(s.label, line)
	}
	return save(p, dir, fmt.Sprintf("%s_loss.png", name))
}

// grid exposes a matrix as a heat map grid, with the first row at the top.
type grid struct {
	m *mat.Dense
}

func (g grid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g grid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g grid) X(c int) float64 {
	return float64(c)
}

func (g grid) Y(r int) float64 {
	return float64(r)
}

func save(p *plot.Plot, dir, fileName string) error {
	path, err := storage.MakePath(dir, fileName)
	if err != nil {
		return err
	}
	if err := p.Save(plotSize, plotSize, path); err != nil {
		return fmt.Errorf("could not save '%s': %w", path, err)
	}
	log.Info().Str("file", path).Msg("saved plot")
	return nil
}
