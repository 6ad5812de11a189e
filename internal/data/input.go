package data

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/rand"
)

// MaxBytes is the largest feature payload an input will batch in memory.
var MaxBytes int64 = 2 << 30

// ShuffleBuffer is the number of batches shuffled together between epochs.
const ShuffleBuffer = 10000

// ErrTooLarge is returned when the dataset exceeds MaxBytes.
var ErrTooLarge = errors.New("dataset too large for in-memory batching")

// Batch is a slice of consecutive examples.
type Batch struct {
	Features [][]float64
	Labels   []int
}

// Len returns the number of examples in the batch.
func (b Batch) Len() int {
	return len(b.Labels)
}

// Input creates a fresh stream of batches on every call.
type Input func() (*Batches, error)

// Batches iterates over the batches of a table.
type Batches struct {
	table   Table
	batches [][]int
	cursor  int
	epoch   int
	epochs  int
	shuffle bool
	rng     *rand.Rand
}

// Len returns the number of batches per epoch.
func (b *Batches) Len() int {
	return len(b.batches)
}

// Next returns the next batch, or io.EOF when all epochs are consumed.
func (b *Batches) Next() (Batch, error) {
	if len(b.batches) == 0 {
		return Batch{}, io.EOF
	}
	if b.cursor >= len(b.batches) {
		b.epoch++
		if b.epochs > 0 && b.epoch >= b.epochs {
			return Batch{}, io.EOF
		}
		b.cursor = 0
		b.shuffleBatches()
	}
	idx := b.batches[b.cursor]
	b.cursor++
	batch := Batch{
		Features: make([][]float64, len(idx)),
		Labels:   make([]int, len(idx)),
	}
	for i, j := range idx {
		batch.Features[i] = b.table.Features[j]
		batch.Labels[i] = b.table.Labels[j]
	}
	return batch, nil
}

// shuffleBatches permutes the batch order within windows of ShuffleBuffer batches.
func (b *Batches) shuffleBatches() {
	if !b.shuffle {
		return
	}
	for from := 0; from < len(b.batches); from += ShuffleBuffer {
		to := from + ShuffleBuffer
		if to > len(b.batches) {
			to = len(b.batches)
		}
		window := b.batches[from:to]
		b.rng.Shuffle(len(window), func(i, j int) {
			window[i], window[j] = window[j], window[i]
		})
	}
}

type inputConfig struct {
	epochs  int
	shuffle bool
	seed    uint64
}

// InputOption adjusts the behaviour of a training input.
type InputOption func(cfg *inputConfig)

// WithEpochs limits the number of passes over the data, 0 means forever.
func WithEpochs(epochs int) InputOption {
	return func(cfg *inputConfig) {
		cfg.epochs = epochs
	}
}

// WithShuffle enables or disables shuffling of the batches.
func WithShuffle(shuffle bool) InputOption {
	return func(cfg *inputConfig) {
		cfg.shuffle = shuffle
	}
}

// WithSeed fixes the random source of the input.
func WithSeed(seed uint64) InputOption {
	return func(cfg *inputConfig) {
		cfg.seed = seed
	}
}

// TrainingInput creates an input that reorders the rows randomly on every call,
// batches them and repeats for the configured epochs.
func TrainingInput(t Table, batchSize int, opts ...InputOption) Input {
	cfg := &inputConfig{
		shuffle: true,
		seed:    uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	rng := rand.New(rand.NewSource(cfg.seed))
	return func() (*Batches, error) {
		if err := check(t, batchSize); err != nil {
			return nil, err
		}
		b := &Batches{
			table:   t,
			batches: partition(rng.Perm(t.Len()), batchSize),
			epochs:  cfg.epochs,
			shuffle: cfg.shuffle,
			rng:     rng,
		}
		b.shuffleBatches()
		return b, nil
	}
}

// PredictInput creates an input that makes a single pass over the rows in order.
func PredictInput(t Table, batchSize int) Input {
	return func() (*Batches, error) {
		if err := check(t, batchSize); err != nil {
			return nil, err
		}
		order := make([]int, t.Len())
		for i := range order {
			order[i] = i
		}
		return &Batches{
			table:   t,
			batches: partition(order, batchSize),
			epochs:  1,
		}, nil
	}
}

func check(t Table, batchSize int) error {
	if batchSize < 1 {
		return fmt.Errorf("invalid batch size %d", batchSize)
	}
	if size := int64(t.Len()) * int64(t.Width()) * 8; size > MaxBytes {
		return fmt.Errorf("%d bytes above limit of %d: %w", size, MaxBytes, ErrTooLarge)
	}
	return nil
}

func partition(order []int, size int) [][]int {
	batches := make([][]int, 0, (len(order)+size-1)/size)
	for from := 0; from < len(order); from += size {
		to := from + size
		if to > len(order) {
			to = len(order)
		}
		batches = append(batches, order[from:to])
	}
	return batches
}
