package estimator

import (
	"fmt"
)

const (
	linearWeights = "linear/linear_model/pixels/weights"
	linearBias    = "linear/linear_model/bias_weights"
)

// LinearClassifier is a softmax regression over the raw pixels.
type LinearClassifier struct {
	*network
}

// NewLinearClassifier creates a zero initialised linear classifier.
// If the model dir already holds a checkpoint, training continues from it.
func NewLinearClassifier(cfg Config) (*LinearClassifier, error) {
	cfg = cfg.WithDefaults()
	b, err := newBase("linear", cfg)
	if err != nil {
		return nil, err
	}
	n := newNetwork(b, cfg, []*dense{
		{
			kernel: newVariable(linearWeights, cfg.Features, cfg.Classes, zeros),
			bias:   newVariable(linearBias, 1, cfg.Classes, zeros),
		},
	})
	if err := n.restore(); err != nil {
		return nil, fmt.Errorf("could not warm start linear classifier: %w", err)
	}
	return &LinearClassifier{network: n}, nil
}
