package explore

import (
	"fmt"

	"github.com/cdipaolo/goml/cluster"
	"github.com/drakos74/digits/internal/data"
	"github.com/rs/zerolog/log"
)

// Clustering is the outcome of grouping the rows without their labels.
type Clustering struct {
	// Sizes is the number of rows per cluster.
	Sizes []int
	// Majority is the most frequent label per cluster.
	Majority []int
	// Purity is the share of rows whose label is the majority of their cluster.
	Purity float64
}

// Clusters groups the rows with k-means and measures how well the groups follow the labels.
func Clusters(t data.Table, k, iterations int) (Clustering, error) {
	if k < 1 || t.Len() < k {
		return Clustering{}, fmt.Errorf("cannot create %d clusters out of %d rows", k, t.Len())
	}
	model := cluster.NewKMeans(k, iterations, t.Features)
	if err := model.Learn(); err != nil {
		return Clustering{}, fmt.Errorf("could not train k-means: %w", err)
	}
	guesses := model.Guesses()
	if len(guesses) != t.Len() {
		return Clustering{}, fmt.Errorf("could not align guesses with data [ %d | %d ]", len(guesses), t.Len())
	}

	counts := make([][]int, k)
	for i := range counts {
		counts[i] = make([]int, data.Classes)
	}
	for i, g := range guesses {
		counts[g][t.Labels[i]]++
	}

	c := Clustering{
		Sizes:    make([]int, k),
		Majority: make([]int, k),
	}
	matched := 0
	for g, labels := range counts {
		best := 0
		for label, n := range labels {
			c.Sizes[g] += n
			if n > labels[best] {
				best = label
			}
		}
		c.Majority[g] = best
		matched += labels[best]
	}
	c.Purity = float64(matched) / float64(t.Len())
	log.Info().Int("k", k).Float64("purity", c.Purity).Msg("k-means clusters")
	return c, nil
}
