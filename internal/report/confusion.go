package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/drakos74/digits/internal/metrics"
	"github.com/olekukonko/tablewriter"
)

// Confusion renders the row normalized confusion matrix as a shaded table.
// Rows are the true labels, columns the predicted ones.
func Confusion(w io.Writer, name string, cm *metrics.ConfusionMatrix, cfg Config) error {
	if cm == nil || cm.Classes == 0 {
		return fmt.Errorf("no confusion matrix for %s", name)
	}
	normalized := cm.Normalize()

	if _, err := fmt.Fprintf(w, "Confusion matrix (%s)\n", name); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	header := make([]string, cm.Classes+1)
	header[0] = "true \\ predicted"
	for j := 0; j < cm.Classes; j++ {
		header[j+1] = strconv.Itoa(j)
	}
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, row := range normalized {
		cells := make([]string, cm.Classes+1)
		cells[0] = strconv.Itoa(i)
		for j, v := range row {
			cells[j+1] = fmt.Sprintf("%c %0.2f", MapShade(v), v)
		}
		table.Append(cells)
	}
	table.Render()

	if cfg.PNGDir != "" {
		return SaveConfusion(cfg.PNGDir, name, normalized)
	}
	return nil
}
