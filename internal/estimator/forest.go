package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/storage"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// FeatureImportance is the variable holding the importance of every input feature.
const FeatureImportance = "forest/feature_importance"

// ForestClassifier is a random forest rebuilt on every step from all the examples seen so far.
type ForestClassifier struct {
	*base
	trees    int
	features int
	classes  int
	x        [][]float64
	y        []int
	forest   *randomforest.Forest
}

// forestCheckpoint keeps the consumed examples, the forest is rebuilt from them.
type forestCheckpoint struct {
	Step int         `json:"step"`
	X    [][]float64 `json:"x"`
	Y    []int       `json:"y"`
}

// NewForestClassifier creates an untrained forest.
func NewForestClassifier(cfg Config) (*ForestClassifier, error) {
	cfg = cfg.WithDefaults()
	b, err := newBase("forest", cfg)
	if err != nil {
		return nil, err
	}
	f := &ForestClassifier{
		base:     b,
		trees:    cfg.Trees,
		features: cfg.Features,
		classes:  cfg.Classes,
	}
	if err := f.restore(); err != nil {
		return nil, fmt.Errorf("could not warm start forest: %w", err)
	}
	return f, nil
}

func (f *ForestClassifier) fit(batch data.Batch) (float64, error) {
	loss := 0.0
	for i, features := range batch.Features {
		if len(features) != f.features {
			return 0, fmt.Errorf("row %d has %d features instead of %d", i, len(features), f.features)
		}
		label := batch.Labels[i]
		if label < 0 || label >= f.classes {
			return 0, fmt.Errorf("label %d out of range", label)
		}
		// loss on examples the forest has not seen yet
		p := f.vote(features)
		loss -= math.Log(clamp(p[label]))
		f.x = append(f.x, features)
		f.y = append(f.y, label)
	}
	f.build()
	if batch.Len() == 0 {
		return 0, nil
	}
	return loss / float64(batch.Len()), nil
}

func (f *ForestClassifier) build() {
	if len(f.x) == 0 {
		return
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: f.x, Class: f.y}
	forest.Train(f.trees)
	f.forest = forest
}

// vote returns the share of trees per class, uniform before the first step.
func (f *ForestClassifier) vote(features []float64) []float64 {
	p := make([]float64, f.classes)
	if f.forest == nil {
		for i := range p {
			p[i] = 1 / float64(f.classes)
		}
		return p
	}
	votes := f.forest.Vote(features)
	copy(p, votes)
	return normalize(p)
}

func (f *ForestClassifier) Train(ctx context.Context, input data.Input, steps int) error {
	if err := f.run(ctx, input, steps, f.fit); err != nil {
		return err
	}
	if err := f.store.Store(f.key(), forestCheckpoint{
		Step: f.step,
		X:    f.x,
		Y:    f.y,
	}); err != nil {
		return fmt.Errorf("could not save checkpoint: %w", err)
	}
	return nil
}

func (f *ForestClassifier) Predict(ctx context.Context, input data.Input) ([]Prediction, error) {
	return f.predict(ctx, input, func(batch data.Batch) ([][]float64, error) {
		probabilities := make([][]float64, batch.Len())
		for i, features := range batch.Features {
			if len(features) != f.features {
				return nil, fmt.Errorf("row %d has %d features instead of %d", i, len(features), f.features)
			}
			probabilities[i] = f.vote(features)
		}
		return probabilities, nil
	})
}

func (f *ForestClassifier) VariableNames() []string {
	names := []string{FeatureImportance, GlobalStep}
	sort.Strings(names)
	return names
}

func (f *ForestClassifier) VariableValue(name string) (*mat.Dense, error) {
	switch name {
	case GlobalStep:
		return mat.NewDense(1, 1, []float64{float64(f.step)}), nil
	case FeatureImportance:
		importance := make([]float64, f.features)
		if f.forest != nil {
			copy(importance, f.forest.FeatureImportance)
		}
		return mat.NewDense(f.features, 1, importance), nil
	}
	return nil, fmt.Errorf("'%s' in %s: %w", name, f.dir, ErrVariableNotFound)
}

func (f *ForestClassifier) restore() error {
	var cp forestCheckpoint
	err := f.store.Load(f.key(), &cp)
	if errors.Is(err, storage.NotFoundErr) {
		return nil
	}
	if err != nil {
		return err
	}
	f.step = cp.Step
	f.x = cp.X
	f.y = cp.Y
	f.build()
	log.Info().Str("dir", f.dir).Int("step", f.step).Int("examples", len(f.x)).Msg("restored forest")
	return nil
}
