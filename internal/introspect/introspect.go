// Package introspect turns the learned weights of a model into images.
package introspect

import (
	"errors"
	"fmt"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/estimator"
)

// FirstHiddenLayer is the kernel connecting the pixels to the first hidden layer.
const FirstHiddenLayer = "dnn/hiddenlayer_0/kernel"

// ErrNotTrained is returned for models that did not take any training step.
var ErrNotTrained = errors.New("model is not trained")

// Images reads the named pixels x units variable and returns one 28x28 image per unit.
func Images(m estimator.Estimator, name string) ([][]float64, error) {
	if m.GlobalStep() == 0 {
		return nil, fmt.Errorf("could not read '%s': %w", name, ErrNotTrained)
	}
	w, err := m.VariableValue(name)
	if err != nil {
		return nil, err
	}
	rows, cols := w.Dims()
	if rows != data.Pixels {
		return nil, fmt.Errorf("'%s' has %d rows instead of %d pixels", name, rows, data.Pixels)
	}
	images := make([][]float64, cols)
	for j := range images {
		images[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			images[j][i] = w.At(i, j)
		}
	}
	return images, nil
}

// Shape returns the dimensions of the named variable.
func Shape(m estimator.Estimator, name string) (int, int, error) {
	w, err := m.VariableValue(name)
	if err != nil {
		return 0, 0, err
	}
	r, c := w.Dims()
	return r, c, nil
}
