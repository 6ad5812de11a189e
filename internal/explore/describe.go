// Package explore summarises a digit table before training.
package explore

import (
	"fmt"
	"io"
	"strconv"

	"github.com/drakos74/digits/internal/buffer"
	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/report"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/rand"
)

// Pixel is the index of the pixel at the given row and column of an image.
func Pixel(row, col int) int {
	return row*data.Side + col
}

// SamplePixels lie on the top rows, the center and just below the center of an image.
var SamplePixels = []int{Pixel(2, 16), Pixel(12, 14), Pixel(14, 14)}

// Description holds the statistics of every pixel and the label distribution.
type Description struct {
	Rows   int
	Labels []int
	Pixels []*buffer.Stats
}

// Describe collects the statistics of the table.
func Describe(t data.Table) (Description, error) {
	d := Description{
		Rows:   t.Len(),
		Labels: make([]int, data.Classes),
	}
	if t.Len() == 0 {
		return d, fmt.Errorf("empty table")
	}
	collector := buffer.NewStatsCollector(t.Width())
	for i, label := range t.Labels {
		if label < 0 || label >= data.Classes {
			return d, fmt.Errorf("label %d at row %d: %w", label, i, data.ErrMalformed)
		}
		if len(t.Features[i]) != t.Width() {
			return d, fmt.Errorf("row %d has %d features instead of %d: %w", i, len(t.Features[i]), t.Width(), data.ErrMalformed)
		}
		d.Labels[label]++
		collector.Push(t.Features[i]...)
	}
	d.Pixels = collector.Stats()
	return d, nil
}

// Active counts the pixels that are not blank in every row.
func (d Description) Active() int {
	active := 0
	for _, s := range d.Pixels {
		if s.Max() > 0 {
			active++
		}
	}
	return active
}

// Print renders the label distribution and the statistics of the given pixels.
func (d Description) Print(w io.Writer, pixels ...int) error {
	fmt.Fprintf(w, "%d rows, %d of %d pixels active\n", d.Rows, d.Active(), len(d.Pixels))

	labels := tablewriter.NewWriter(w)
	labels.SetHeader([]string{"label", "count", "share"})
	for label, count := range d.Labels {
		labels.Append([]string{
			strconv.Itoa(label),
			strconv.Itoa(count),
			fmt.Sprintf("%0.3f", float64(count)/float64(d.Rows)),
		})
	}
	labels.Render()

	if len(pixels) == 0 {
		return nil
	}
	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{"pixel", "count", "mean", "std", "min", "max"})
	for _, p := range pixels {
		if p < 0 || p >= len(d.Pixels) {
			return fmt.Errorf("pixel %d outside of %d", p, len(d.Pixels))
		}
		s := d.Pixels[p]
		stats.Append([]string{
			strconv.Itoa(p),
			strconv.Itoa(s.Count()),
			fmt.Sprintf("%0.3f", s.Avg()),
			fmt.Sprintf("%0.3f", s.SampleStDev()),
			fmt.Sprintf("%0.3f", s.Min()),
			fmt.Sprintf("%0.3f", s.Max()),
		})
	}
	stats.Render()
	return nil
}

// Summarize describes the table under a title and prints the statistics of the given pixels.
func Summarize(w io.Writer, title string, t data.Table, pixels ...int) error {
	d, err := Describe(t)
	if err != nil {
		return fmt.Errorf("could not describe %s: %w", title, err)
	}
	fmt.Fprintf(w, "%s:\n", title)
	return d.Print(w, pixels...)
}

// Example renders a random row of the table with its label and returns its index.
func Example(w io.Writer, t data.Table, rng *rand.Rand) (int, error) {
	if t.Len() == 0 {
		return 0, fmt.Errorf("empty table")
	}
	i := rng.Intn(t.Len())
	return i, report.Image(w, fmt.Sprintf("Label: %d", t.Labels[i]), t.Features[i], data.Side)
}
