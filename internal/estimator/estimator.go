// Package estimator implements classifiers that are trained for a number of steps
// from a data.Input and expose their parameters as named variables.
package estimator

import (
	"context"
	"errors"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/storage"
	"gonum.org/v1/gonum/mat"
)

// GlobalStep is the variable holding the number of training steps done.
const GlobalStep = "global_step"

// ErrVariableNotFound is returned when reading an unknown variable.
var ErrVariableNotFound = errors.New("variable not found")

// Prediction is the output of a classifier for a single example.
type Prediction struct {
	ClassID       int
	Probabilities []float64
}

// Estimator is a classifier that owns its parameters.
type Estimator interface {
	// Train advances the model by the given number of steps, one batch per step.
	// Training stops early if the input runs out of batches.
	Train(ctx context.Context, input data.Input, steps int) error
	// Predict returns one prediction per example of the input.
	Predict(ctx context.Context, input data.Input) ([]Prediction, error)
	// VariableNames lists the named variables in lexical order.
	VariableNames() []string
	// VariableValue returns a copy of the named variable.
	VariableValue(name string) (*mat.Dense, error)
	// GlobalStep returns the number of training steps done.
	GlobalStep() int
	// Dir is the model directory.
	Dir() string
}

// Config holds the hyper-parameters shared by all estimators.
type Config struct {
	LearningRate float64 `json:"learning_rate"`
	ClipNorm     float64 `json:"clip_norm"`
	HiddenUnits  []int   `json:"hidden_units"`
	Trees        int     `json:"trees"`
	Seed         uint64  `json:"seed"`
	// Features is the size of the input vector.
	Features int `json:"features"`
	// Classes is the number of output classes.
	Classes int `json:"classes"`
	// Root is the parent of the generated model dirs.
	Root string `json:"root"`
	// ModelDir re-uses an existing model dir and warm starts from its checkpoint.
	ModelDir string `json:"model_dir"`
	// Checkpoints creates the storage of a model dir, json files by default.
	Checkpoints storage.Shard `json:"-"`
}

// WithDefaults fills in the zero values.
func (c Config) WithDefaults() Config {
	if c.Features == 0 {
		c.Features = data.Pixels
	}
	if c.Classes == 0 {
		c.Classes = data.Classes
	}
	if c.LearningRate == 0 {
		c.LearningRate = 0.05
	}
	if c.Trees == 0 {
		c.Trees = 20
	}
	return c
}

// Factory creates a new estimator for the given config.
type Factory func(cfg Config) (Estimator, error)

// Linear is the factory for linear classifiers.
func Linear(cfg Config) (Estimator, error) {
	e, err := NewLinearClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DNN is the factory for deep neural network classifiers.
func DNN(cfg Config) (Estimator, error) {
	e, err := NewDNNClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Perceptron is the factory for per-sample feed forward networks.
func Perceptron(cfg Config) (Estimator, error) {
	e, err := NewPerceptronClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Forest is the factory for random forest classifiers.
func Forest(cfg Config) (Estimator, error) {
	e, err := NewForestClassifier(cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Classes returns the predicted class of every prediction.
func Classes(predictions []Prediction) []int {
	classes := make([]int, len(predictions))
	for i, p := range predictions {
		classes[i] = p.ClassID
	}
	return classes
}

// Probabilities returns the class probabilities of every prediction.
func Probabilities(predictions []Prediction) [][]float64 {
	probabilities := make([][]float64, len(predictions))
	for i, p := range predictions {
		probabilities[i] = p.Probabilities
	}
	return probabilities
}
