package report

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
)

// LossCurve plots the training and validation log-loss per period.
func LossCurve(w io.Writer, name string, training, validation []float64, cfg Config) error {
	cfg = cfg.WithDefaults()
	if len(training) == 0 || len(validation) == 0 {
		return fmt.Errorf("no loss values for %s", name)
	}
	graph := asciigraph.PlotMany([][]float64{training, validation},
		asciigraph.Height(cfg.Height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("LogLoss vs. Periods (%s)", name)))
	_, err := fmt.Fprintf(w, "%s\n  final training: %0.2f, validation: %0.2f\n",
		graph, training[len(training)-1], validation[len(validation)-1])
	if err != nil {
		return err
	}
	if cfg.PNGDir != "" {
		return SaveLossCurve(cfg.PNGDir, name, training, validation)
	}
	return nil
}
