package report

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Grid renders square images side by side, perRow images on each row.
// Values are shaded on a diverging scale around 0.
func Grid(w io.Writer, images [][]float64, side, perRow int) error {
	if len(images) == 0 {
		return fmt.Errorf("no images to render")
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

	for from := 0; from < len(images); from += perRow {
		to := from + perRow
		if to > len(images) {
			to = len(images)
		}
		var sb strings.Builder
		for r := 0; r < side; r++ {
			for k, img := range images[from:to] {
				if k > 0 {
					sb.WriteRune(' ')
				}
				for c := 0; c < side; c++ {
					sb.WriteRune(MapDiverging(img[r*side+c], limit))
				}
			}
			sb.WriteRune('\n')
		}
		sb.WriteRune('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// Rows is the number of grid rows needed for n images.
func Rows(n, perRow int) int {
	return int(math.Ceil(float64(n) / float64(perRow)))
}

// Image renders a single image on the [0,1] scale with a caption.
func Image(w io.Writer, caption string, img []float64, side int) error {
	if len(img) != side*side {
		return fmt.Errorf("image has %d values instead of %d", len(img), side*side)
	}
	var sb strings.Builder
	sb.WriteString(caption)
	sb.WriteRune('\n')
	for r := 0; r < side; r++ {
		for c := 0; c < side; c++ {
			sb.WriteRune(MapShade(img[r*side+c]))
		}
		sb.WriteRune('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
