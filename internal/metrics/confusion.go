package metrics

import (
	"fmt"
	"strconv"

	"github.com/sjwhitworth/golearn/evaluation"
)

// ConfusionMatrix counts predictions per true class (rows) and predicted class (columns).
type ConfusionMatrix struct {
	Classes int
	Counts  [][]int
	// Evaluation holds the same counts keyed by class name.
	Evaluation evaluation.ConfusionMatrix
}

// NewConfusionMatrix creates an empty matrix for the given number of classes.
func NewConfusionMatrix(classes int) *ConfusionMatrix {
	counts := make([][]int, classes)
	for i := range counts {
		counts[i] = make([]int, classes)
	}
	return &ConfusionMatrix{
		Classes:    classes,
		Counts:     counts,
		Evaluation: make(evaluation.ConfusionMatrix),
	}
}

// Confusion builds the matrix for the given labels and predictions.
func Confusion(classes int, labels []int, predicted []int) (*ConfusionMatrix, error) {
	if len(labels) != len(predicted) {
		return nil, fmt.Errorf("%d labels for %d predictions: %w", len(labels), len(predicted), ErrMismatch)
	}
	cm := NewConfusionMatrix(classes)
	for i, label := range labels {
		if err := cm.Update(label, predicted[i]); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

// Update records one prediction.
func (cm *ConfusionMatrix) Update(label, predicted int) error {
	if label < 0 || label >= cm.Classes || predicted < 0 || predicted >= cm.Classes {
		return fmt.Errorf("pair (%d, %d) outside of %d classes: %w", label, predicted, cm.Classes, ErrMismatch)
	}
	cm.Counts[label][predicted]++
	record(cm.Evaluation, label, predicted)
	return nil
}

// Total is the number of recorded predictions.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range cm.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Accuracy is the share of the diagonal.
func (cm *ConfusionMatrix) Accuracy() float64 {
	if cm.Total() == 0 {
		return 0
	}
	return evaluation.GetAccuracy(cm.Evaluation)
}

// Summary is the per class precision, recall and f1 report.
func (cm *ConfusionMatrix) Summary() string {
	return evaluation.GetSummary(cm.Evaluation)
}

// Normalize divides every row by its sum, rows without examples stay 0.
func (cm *ConfusionMatrix) Normalize() [][]float64 {
	normalized := make([][]float64, cm.Classes)
	for i, row := range cm.Counts {
		normalized[i] = make([]float64, cm.Classes)
		sum := 0
		for _, c := range row {
			sum += c
		}
		if sum == 0 {
			continue
		}
		for j, c := range row {
			normalized[i][j] = float64(c) / float64(sum)
		}
	}
	return normalized
}

func record(c evaluation.ConfusionMatrix, label, predicted int) {
	ref := strconv.Itoa(label)
	if _, ok := c[ref]; !ok {
		c[ref] = make(map[string]int)
	}
	c[ref][strconv.Itoa(predicted)]++
}
