package estimator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// initialAccumulator is the starting value of the adagrad accumulators.
	initialAccumulator = 0.1
	// epsilon bounds the probabilities away from 0 for the loss.
	epsilon = 1e-15
)

// variable is a named parameter with its adagrad accumulator.
type variable struct {
	name  string
	value *mat.Dense
	acc   *mat.Dense
}

func newVariable(name string, r, c int, init func() float64) *variable {
	values := make([]float64, r*c)
	for i := range values {
		values[i] = init()
	}
	acc := make([]float64, r*c)
	for i := range acc {
		acc[i] = initialAccumulator
	}
	return &variable{
		name:  name,
		value: mat.NewDense(r, c, values),
		acc:   mat.NewDense(r, c, acc),
	}
}

// update applies one adagrad step with the gradient clipped by its own norm.
func (v *variable) update(grad *mat.Dense, rate, clip float64) {
	g := grad.RawMatrix().Data
	if clip > 0 {
		if norm := floats.Norm(g, 2); norm > clip {
			floats.Scale(clip/norm, g)
		}
	}
	p := v.value.RawMatrix().Data
	a := v.acc.RawMatrix().Data
	for i := range g {
		a[i] += g[i] * g[i]
		p[i] -= rate * g[i] / math.Sqrt(a[i])
	}
}

// dense is a fully connected layer.
type dense struct {
	kernel *variable
	bias   *variable
	relu   bool
}

func (d *dense) forward(x mat.Matrix) *mat.Dense {
	var z mat.Dense
	z.Mul(x, d.kernel.value)
	b := d.bias.value.RawRowView(0)
	z.Apply(func(i, j int, v float64) float64 {
		v += b[j]
		if d.relu && v < 0 {
			return 0
		}
		return v
	}, &z)
	return &z
}

// network is a stack of dense layers with a softmax output trained on cross entropy.
type network struct {
	*base
	layers    []*dense
	variables map[string]*variable
	rate      float64
	clip      float64
	features  int
	classes   int
}

func newNetwork(b *base, cfg Config, layers []*dense) *network {
	variables := make(map[string]*variable)
	for _, l := range layers {
		variables[l.kernel.name] = l.kernel
		variables[l.bias.name] = l.bias
	}
	return &network{
		base:      b,
		layers:    layers,
		variables: variables,
		rate:      cfg.LearningRate,
		clip:      cfg.ClipNorm,
		features:  cfg.Features,
		classes:   cfg.Classes,
	}
}

func (n *network) matrix(rows [][]float64) (*mat.Dense, error) {
	x := mat.NewDense(len(rows), n.features, nil)
	for i, row := range rows {
		if len(row) != n.features {
			return nil, fmt.Errorf("row %d has %d features instead of %d", i, len(row), n.features)
		}
		x.SetRow(i, row)
	}
	return x, nil
}

// forward returns the input of every layer followed by the output probabilities.
func (n *network) forward(x *mat.Dense) []*mat.Dense {
	activations := make([]*mat.Dense, 0, len(n.layers)+1)
	activations = append(activations, x)
	a := x
	for _, l := range n.layers {
		a = l.forward(a)
		activations = append(activations, a)
	}
	softmax(a)
	return activations
}

func (n *network) fit(batch data.Batch) (float64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	x, err := n.matrix(batch.Features)
	if err != nil {
		return 0, err
	}
	activations := n.forward(x)
	p := activations[len(activations)-1]

	size := float64(batch.Len())
	loss := 0.0
	// gradient of the mean cross entropy w.r.t. the logits
	dz := mat.DenseCopyOf(p)
	for i, label := range batch.Labels {
		if label < 0 || label >= n.classes {
			return 0, fmt.Errorf("label %d out of range", label)
		}
		loss -= math.Log(clamp(p.At(i, label)))
		dz.Set(i, label, dz.At(i, label)-1)
	}
	dz.Scale(1/size, dz)

	for l := len(n.layers) - 1; l >= 0; l-- {
		layer := n.layers[l]
		in := activations[l]

		var dw mat.Dense
		dw.Mul(in.T(), dz)
		_, cols := dz.Dims()
		db := mat.NewDense(1, cols, nil)
		for j := 0; j < cols; j++ {
			db.Set(0, j, mat.Sum(dz.ColView(j)))
		}

		var next *mat.Dense
		if l > 0 {
			var da mat.Dense
			da.Mul(dz, layer.kernel.value.T())
			// relu derivative on the previous layer output
			da.Apply(func(i, j int, v float64) float64 {
				if in.At(i, j) <= 0 {
					return 0
				}
				return v
			}, &da)
			next = &da
		}

		layer.kernel.update(&dw, n.rate, n.clip)
		layer.bias.update(db, n.rate, n.clip)
		dz = next
	}
	return loss / size, nil
}

func (n *network) Train(ctx context.Context, input data.Input, steps int) error {
	if err := n.run(ctx, input, steps, n.fit); err != nil {
		return err
	}
	return n.save()
}

func (n *network) Predict(ctx context.Context, input data.Input) ([]Prediction, error) {
	return n.predict(ctx, input, func(batch data.Batch) ([][]float64, error) {
		if batch.Len() == 0 {
			return nil, nil
		}
		x, err := n.matrix(batch.Features)
		if err != nil {
			return nil, err
		}
		activations := n.forward(x)
		p := activations[len(activations)-1]
		probabilities := make([][]float64, batch.Len())
		for i := range probabilities {
			probabilities[i] = mat.Row(nil, i, p)
		}
		return probabilities, nil
	})
}

func (n *network) VariableNames() []string {
	names := make([]string, 0, len(n.variables)+1)
	for name := range n.variables {
		names = append(names, name)
	}
	names = append(names, GlobalStep)
	sort.Strings(names)
	return names
}

func (n *network) VariableValue(name string) (*mat.Dense, error) {
	if name == GlobalStep {
		return mat.NewDense(1, 1, []float64{float64(n.step)}), nil
	}
	v, ok := n.variables[name]
	if !ok {
		return nil, fmt.Errorf("'%s' in %s: %w", name, n.dir, ErrVariableNotFound)
	}
	return mat.DenseCopyOf(v.value), nil
}

// checkpoint is the persisted state of a network.
type checkpoint struct {
	Step      int                   `json:"step"`
	Variables map[string]tensorData `json:"variables"`
}

type tensorData struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
	Acc  []float64 `json:"acc"`
}

// save overwrites the single checkpoint of the model dir.
func (n *network) save() error {
	cp := checkpoint{
		Step:      n.step,
		Variables: make(map[string]tensorData, len(n.variables)),
	}
	for name, v := range n.variables {
		r, c := v.value.Dims()
		cp.Variables[name] = tensorData{
			Rows: r,
			Cols: c,
			Data: v.value.RawMatrix().Data,
			Acc:  v.acc.RawMatrix().Data,
		}
	}
	if err := n.store.Store(n.key(), cp); err != nil {
		return fmt.Errorf("could not save checkpoint: %w", err)
	}
	return nil
}

// restore loads the checkpoint of the model dir, if there is one.
func (n *network) restore() error {
	var cp checkpoint
	err := n.store.Load(n.key(), &cp)
	if errors.Is(err, storage.NotFoundErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not load checkpoint: %w", err)
	}
	for name, t := range cp.Variables {
		v, ok := n.variables[name]
		if !ok {
			return fmt.Errorf("checkpoint '%s': %w", name, ErrVariableNotFound)
		}
		r, c := v.value.Dims()
		if r != t.Rows || c != t.Cols {
			return fmt.Errorf("checkpoint '%s' has shape (%d, %d) instead of (%d, %d)", name, t.Rows, t.Cols, r, c)
		}
		copy(v.value.RawMatrix().Data, t.Data)
		copy(v.acc.RawMatrix().Data, t.Acc)
	}
	n.step = cp.Step
	log.Info().Str("dir", n.dir).Int("step", n.step).Msg("restored checkpoint")
	return nil
}

// softmax replaces every row with its probabilities.
func softmax(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		top := floats.Max(row)
		sum := 0.0
		for j, v := range row {
			row[j] = math.Exp(v - top)
			sum += row[j]
		}
		floats.Scale(1/sum, row)
	}
}

func clamp(p float64) float64 {
	return math.Max(epsilon, math.Min(1-epsilon, p))
}

func zeros() float64 {
	return 0
}

// glorot draws from the uniform distribution used for dense kernels.
func glorot(rng *rand.Rand, in, out int) func() float64 {
	limit := math.Sqrt(6 / float64(in+out))
	return func() float64 {
		return (rng.Float64()*2 - 1) * limit
	}
}
