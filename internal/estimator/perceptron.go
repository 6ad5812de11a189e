package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/storage"
	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
	"github.com/drakos74/go-ex-machina/xmachina/net"
	"github.com/drakos74/go-ex-machina/xmachina/net/ff"
	"github.com/drakos74/go-ex-machina/xmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PerceptronClassifier is a feed forward network trained one example at a time.
// Its weights live inside the network, so it only exposes the global step.
type PerceptronClassifier struct {
	*base
	net      *ff.Network
	features int
	classes  int
}

// NewPerceptronClassifier creates a network with sigmoid hidden layers and a softmax output.
func NewPerceptronClassifier(cfg Config) (*PerceptronClassifier, error) {
	cfg = cfg.WithDefaults()
	hidden := cfg.HiddenUnits
	if len(hidden) == 0 {
		hidden = []int{42}
	}
	b, err := newBase("perceptron", cfg)
	if err != nil {
		return nil, err
	}

	rate := xml.Learn(cfg.LearningRate, cfg.LearningRate)
	initW := xmath.Rand(-1, 1, math.Sqrt)
	initB := xmath.Rand(-1, 1, math.Sqrt)
	network := ff.New(cfg.Features, cfg.Classes)
	for _, units := range hidden {
		network = network.Add(units, net.NewBuilder().
			WithModule(xml.Base().
				WithRate(rate).
				WithActivation(xml.Sigmoid)).
			WithWeights(initW, initB).
			Factory(net.NewActivationCell))
	}
	// the soft cell keeps the size of its input, so the classes need their own layer
	network = network.
		Add(cfg.Classes, net.NewBuilder().
			WithModule(xml.Base().
				WithRate(rate).
				WithActivation(xml.Sigmoid)).
			WithWeights(initW, initB).
			Factory(net.NewActivationCell)).
		Add(cfg.Classes, net.NewBuilder().CellFactory(net.NewSoftCell))
	network.Loss(xml.Pow)

	p := &PerceptronClassifier{
		base:     b,
		net:      network,
		features: cfg.Features,
		classes:  cfg.Classes,
	}
	if err := p.restore(); err != nil {
		return nil, fmt.Errorf("could not warm start perceptron: %w", err)
	}
	return p, nil
}

func (p *PerceptronClassifier) fit(batch data.Batch) (float64, error) {
	loss := 0.0
	for i, features := range batch.Features {
		if len(features) != p.features {
			return 0, fmt.Errorf("row %d has %d features instead of %d", i, len(features), p.features)
		}
		label := batch.Labels[i]
		if label < 0 || label >= p.classes {
			return 0, fmt.Errorf("label %d out of range", label)
		}
		expected := xmath.Vec(p.classes)
		expected[label] = 1
		diff, _ := p.net.Train(xmath.Vec(p.features).With(features...), expected)
		loss += diff.Sum()
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	return loss / float64(batch.Len()), nil
}

func (p *PerceptronClassifier) Train(ctx context.Context, input data.Input, steps int) error {
	if err := p.run(ctx, input, steps, p.fit); err != nil {
		return err
	}
	if err := p.store.Store(p.key(), checkpoint{Step: p.step}); err != nil {
		return fmt.Errorf("could not save checkpoint: %w", err)
	}
	return nil
}

func (p *PerceptronClassifier) Predict(ctx context.Context, input data.Input) ([]Prediction, error) {
	return p.predict(ctx, input, func(batch data.Batch) ([][]float64, error) {
		probabilities := make([][]float64, batch.Len())
		for i, features := range batch.Features {
			if len(features) != p.features {
				return nil, fmt.Errorf("row %d has %d features instead of %d", i, len(features), p.features)
			}
			out := p.net.Predict(xmath.Vec(p.features).With(features...))
			probabilities[i] = normalize(out)
		}
		return probabilities, nil
	})
}

func (p *PerceptronClassifier) VariableNames() []string {
	return []string{GlobalStep}
}

func (p *PerceptronClassifier) VariableValue(name string) (*mat.Dense, error) {
	if name != GlobalStep {
		return nil, fmt.Errorf("'%s' in %s: %w", name, p.dir, ErrVariableNotFound)
	}
	return mat.NewDense(1, 1, []float64{float64(p.step)}), nil
}

// restore only recovers the step, the network weights are not persisted.
func (p *PerceptronClassifier) restore() error {
	var cp checkpoint
	err := p.store.Load(p.key(), &cp)
	if errors.Is(err, storage.NotFoundErr) {
		return nil
	}
	if err != nil {
		return err
	}
	p.step = cp.Step
	return nil
}

// normalize turns the network output into a probability distribution.
func normalize(out []float64) []float64 {
	probabilities := make([]float64, len(out))
	for i, v := range out {
		if v > 0 && !math.IsNaN(v) {
			probabilities[i] = v
		}
	}
	sum := floats.Sum(probabilities)
	if sum == 0 {
		for i := range probabilities {
			probabilities[i] = 1 / float64(len(probabilities))
		}
		return probabilities
	}
	floats.Scale(1/sum, probabilities)
	return probabilities
}
