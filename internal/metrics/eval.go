// Package metrics evaluates predictions and exports training progress.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Epsilon bounds probabilities away from 0 and 1 in the log-loss.
const Epsilon = 1e-15

// ErrMismatch is returned when labels and predictions do not line up.
var ErrMismatch = errors.New("labels and predictions do not match")

// LogLoss is the mean cross entropy of the true labels under the predicted probabilities.
func LogLoss(labels []int, probabilities [][]float64) (float64, error) {
	if len(labels) == 0 || len(labels) != len(probabilities) {
		return 0, fmt.Errorf("%d labels for %d predictions: %w", len(labels), len(probabilities), ErrMismatch)
	}
	loss := 0.0
	for i, label := range labels {
		p := probabilities[i]
		if label < 0 || label >= len(p) {
			return 0, fmt.Errorf("label %d outside of %d classes: %w", label, len(p), ErrMismatch)
		}
		loss -= math.Log(math.Max(Epsilon, math.Min(1-Epsilon, p[label])))
	}
	return loss / float64(len(labels)), nil
}

// Accuracy is the fraction of predictions equal to the label.
func Accuracy(labels []int, predicted []int) (float64, error) {
	if len(labels) == 0 || len(labels) != len(predicted) {
		return 0, fmt.Errorf("%d labels for %d predictions: %w", len(labels), len(predicted), ErrMismatch)
	}
	c := make(evaluation.ConfusionMatrix)
	for i, label := range labels {
		record(c, label, predicted[i])
	}
	return evaluation.GetAccuracy(c), nil
}
