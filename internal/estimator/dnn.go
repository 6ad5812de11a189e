package estimator

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// DNNClassifier is a feed forward network with relu hidden layers and a softmax output.
type DNNClassifier struct {
	*network
}

// NewDNNClassifier creates a network with one hidden layer per entry of HiddenUnits.
// If the model dir already holds a checkpoint, training continues from it.
func NewDNNClassifier(cfg Config) (*DNNClassifier, error) {
	cfg = cfg.WithDefaults()
	if len(cfg.HiddenUnits) == 0 {
		return nil, fmt.Errorf("dnn classifier needs at least one hidden layer")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	b, err := newBase("dnn", cfg)
	if err != nil {
		return nil, err
	}
	layers := make([]*dense, 0, len(cfg.HiddenUnits)+1)
	in := cfg.Features
	for k, units := range cfg.HiddenUnits {
		if units < 1 {
			return nil, fmt.Errorf("hidden layer %d has %d units", k, units)
		}
		layers = append(layers, &dense{
			kernel: newVariable(fmt.Sprintf("dnn/hiddenlayer_%d/kernel", k), in, units, glorot(rng, in, units)),
			bias:   newVariable(fmt.Sprintf("dnn/hiddenlayer_%d/bias", k), 1, units, zeros),
			relu:   true,
		})
		in = units
	}
	layers = append(layers, &dense{
		kernel: newVariable("dnn/logits/kernel", in, cfg.Classes, glorot(rng, in, cfg.Classes)),
		bias:   newVariable("dnn/logits/bias", 1, cfg.Classes, zeros),
	})
	n := newNetwork(b, cfg, layers)
	if err := n.restore(); err != nil {
		return nil, fmt.Errorf("could not warm start dnn classifier: %w", err)
	}
	return &DNNClassifier{network: n}, nil
}
