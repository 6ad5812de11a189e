// Package train runs the periodic training of an estimator and reports its progress.
package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/estimator"
	"github.com/drakos74/digits/internal/metrics"
	"github.com/drakos74/digits/internal/report"
	"github.com/rs/zerolog/log"
)

// ErrInvalidConfig is returned for configs that cannot be split into periods.
var ErrInvalidConfig = errors.New("invalid training config")

// Config defines a training run of a single model.
type Config struct {
	estimator.Config
	Enabled   bool `json:"enabled"`
	Steps     int  `json:"steps"`
	BatchSize int  `json:"batch_size"`
	Periods   int  `json:"periods"`
}

func (c Config) validate() error {
	if c.Periods < 1 {
		return fmt.Errorf("periods must be positive but was %d: %w", c.Periods, ErrInvalidConfig)
	}
	if c.Steps < c.Periods {
		return fmt.Errorf("%d steps for %d periods: %w", c.Steps, c.Periods, ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive but was %d: %w", c.BatchSize, ErrInvalidConfig)
	}
	return nil
}

// Result is the outcome of a training run.
type Result struct {
	Name           string
	TrainingLoss   []float64
	ValidationLoss []float64
	Accuracy       float64
	Confusion      *metrics.ConfusionMatrix
	Model          estimator.Estimator
}

type options struct {
	out    io.Writer
	report report.Config
}

// Option adjusts where and how the progress is reported.
type Option func(o *options)

// WithWriter sends the progress lines and plots to w.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithReport sets the rendering config.
func WithReport(cfg report.Config) Option {
	return func(o *options) {
		o.report = cfg
	}
}

// Periodic trains the model created by the factory in cfg.Periods periods of cfg.Steps/cfg.Periods steps.
// After each period it computes the log-loss on the training and validation sets.
// At the end it evaluates the accuracy and confusion matrix on the validation set.
func Periodic(ctx context.Context, name string, factory estimator.Factory, cfg Config, sets data.Sets, opts ...Option) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	model, err := factory(cfg.Config)
	if err != nil {
		return nil, fmt.Errorf("could not create %s model: %w", name, err)
	}

	stepsPerPeriod := cfg.Steps / cfg.Periods
	inputOpts := make([]data.InputOption, 0)
	if cfg.Seed != 0 {
		inputOpts = append(inputOpts, data.WithSeed(cfg.Seed))
	}
	trainingInput := data.TrainingInput(sets.Training, cfg.BatchSize, inputOpts...)
	predictTraining := data.PredictInput(sets.Training, cfg.BatchSize)
	predictValidation := data.PredictInput(sets.Validation, cfg.BatchSize)

	log.Info().
		Str("model", name).
		Str("dir", model.Dir()).
		Int("steps", cfg.Steps).
		Int("periods", cfg.Periods).
		Int("batch", cfg.BatchSize).
		Msg("start training")

	result := &Result{
		Name:           name,
		TrainingLoss:   make([]float64, 0, cfg.Periods),
		ValidationLoss: make([]float64, 0, cfg.Periods),
		Model:          model,
	}

	fmt.Fprintln(o.out, "Training model...")
	fmt.Fprintln(o.out, "LogLoss error (on validation data):")
	for period := 0; period < cfg.Periods; period++ {
		if err := model.Train(ctx, trainingInput, stepsPerPeriod); err != nil {
			return nil, fmt.Errorf("could not train %s in period %d: %w", name, period, err)
		}
		metrics.Observer.Steps(name, stepsPerPeriod)

		trainingLoss, err := logLoss(ctx, model, predictTraining, sets.Training)
		if err != nil {
			return nil, fmt.Errorf("could not evaluate %s on training data: %w", name, err)
		}
		validationLoss, err := logLoss(ctx, model, predictValidation, sets.Validation)
		if err != nil {
			return nil, fmt.Errorf("could not evaluate %s on validation data: %w", name, err)
		}
		metrics.Observer.Loss(name, metrics.Training, trainingLoss)
		metrics.Observer.Loss(name, metrics.Validation, validationLoss)

		fmt.Fprintf(o.out, "  period %02d : %0.2f\n", period, validationLoss)
		result.TrainingLoss = append(result.TrainingLoss, trainingLoss)
		result.ValidationLoss = append(result.ValidationLoss, validationLoss)
	}
	fmt.Fprintln(o.out, "Model training finished.")

	removed, err := estimator.CleanupEvents(model.Dir())
	if err != nil {
		log.Warn().Err(err).Str("dir", model.Dir()).Msg("could not remove event files")
	}
	log.Debug().Str("model", name).Int("files", removed).Msg("removed event files")

	predictions, err := model.Predict(ctx, predictValidation)
	if err != nil {
		return nil, fmt.Errorf("could not predict %s on validation data: %w", name, err)
	}
	classes := estimator.Classes(predictions)
	result.Confusion, err = metrics.Confusion(data.Classes, sets.Validation.Labels, classes)
	if err != nil {
		return nil, err
	}
	result.Accuracy = result.Confusion.Accuracy()
	metrics.Observer.Accuracy(name, metrics.Validation, result.Accuracy)
	fmt.Fprintf(o.out, "Final accuracy (on validation data): %0.2f\n", result.Accuracy)
	fmt.Fprintln(o.out, result.Confusion.Summary())

	if err := report.LossCurve(o.out, name, result.TrainingLoss, result.ValidationLoss, o.report); err != nil {
		return nil, fmt.Errorf("could not plot loss of %s: %w", name, err)
	}
	if err := report.Confusion(o.out, name, result.Confusion, o.report); err != nil {
		return nil, fmt.Errorf("could not plot confusion matrix of %s: %w", name, err)
	}
	return result, nil
}

// Evaluate returns the accuracy of the model on the given table.
func Evaluate(ctx context.Context, model estimator.Estimator, t data.Table, batchSize int) (float64, error) {
	predictions, err := model.Predict(ctx, data.PredictInput(t, batchSize))
	if err != nil {
		return 0, fmt.Errorf("could not predict: %w", err)
	}
	return metrics.Accuracy(t.Labels, estimator.Classes(predictions))
}

func logLoss(ctx context.Context, model estimator.Estimator, input data.Input, t data.Table) (float64, error) {
	predictions, err := model.Predict(ctx, input)
	if err != nil {
		return 0, err
	}
	return metrics.LogLoss(t.Labels, estimator.Probabilities(predictions))
}

// Linear trains a linear classifier.
func Linear(ctx context.Context, cfg Config, sets data.Sets, opts ...Option) (*Result, error) {
	return Periodic(ctx, "linear", estimator.Linear, cfg, sets, opts...)
}

// DNN trains a deep neural network classifier.
func DNN(ctx context.Context, cfg Config, sets data.Sets, opts ...Option) (*Result, error) {
	return Periodic(ctx, "dnn", estimator.DNN, cfg, sets, opts...)
}

// Forest trains a random forest classifier.
func Forest(ctx context.Context, cfg Config, sets data.Sets, opts ...Option) (*Result, error) {
	return Periodic(ctx, "forest", estimator.Forest, cfg, sets, opts...)
}

// Perceptron trains a per-sample feed forward network.
func Perceptron(ctx context.Context, cfg Config, sets data.Sets, opts ...Option) (*Result, error) {
	return Periodic(ctx, "perceptron", estimator.Perceptron, cfg, sets, opts...)
}
