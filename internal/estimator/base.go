package estimator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/drakos74/digits/internal/data"
	"github.com/drakos74/digits/internal/storage"
	"github.com/drakos74/digits/internal/storage/file/json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// EventsPattern matches the event logs written during training.
const EventsPattern = "events.out.tfevents*"

const checkpointLabel = "checkpoint"

// event is a single training step record.
type event struct {
	Step int       `json:"step"`
	Loss float64   `json:"loss"`
	Time time.Time `json:"time"`
}

// base holds the bookkeeping every estimator shares.
type base struct {
	kind   string
	dir    string
	step   int
	events *json.Logger
	store  storage.Persistence
}

func newBase(kind string, cfg Config) (*base, error) {
	dir := cfg.ModelDir
	if dir == "" {
		root := cfg.Root
		if root == "" {
			root = filepath.Join(storage.DefaultDir, storage.ModelsDir)
		}
		dir = filepath.Join(root, fmt.Sprintf("%s-%s", kind, uuid.New().String()))
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create model dir '%s': %w", dir, err)
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	events := filepath.Join(dir, fmt.Sprintf("events.out.tfevents.%d.%s", time.Now().Unix(), host))
	shard := cfg.Checkpoints
	if shard == nil {
		shard = json.DirShard(false)
	}
	store, err := shard(dir)
	if err != nil {
		return nil, fmt.Errorf("could not create checkpoint storage for '%s': %w", dir, err)
	}
	log.Debug().Str("kind", kind).Str("dir", dir).Msg("created model dir")
	return &base{
		kind:   kind,
		dir:    dir,
		events: json.NewLogger(events),
		store:  store,
	}, nil
}

func (b *base) Dir() string {
	return b.dir
}

func (b *base) GlobalStep() int {
	return b.step
}

func (b *base) key() storage.Key {
	return storage.Key{
		Model: b.kind,
		Label: checkpointLabel,
	}
}

// run pulls one batch per step from a fresh input stream and applies fn to it.
func (b *base) run(ctx context.Context, input data.Input, steps int, fn func(batch data.Batch) (float64, error)) error {
	batches, err := input()
	if err != nil {
		return fmt.Errorf("could not create training input: %w", err)
	}
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := batches.Next()
		if errors.Is(err, io.EOF) {
			log.Debug().Str("kind", b.kind).Int("step", b.step).Int("requested", steps).Msg("input exhausted")
			break
		}
		if err != nil {
			return fmt.Errorf("could not read batch: %w", err)
		}
		loss, err := fn(batch)
		if err != nil {
			return fmt.Errorf("step %d failed: %w", b.step, err)
		}
		b.step++
		if err := b.events.Append(event{
			Step: b.step,
			Loss: loss,
			Time: time.Now(),
		}); err != nil {
			log.Warn().Err(err).Str("file", b.events.Path()).Msg("could not write event")
		}
	}
	return nil
}

// predict applies fn to every batch of the input and collects the class probabilities.
func (b *base) predict(ctx context.Context, input data.Input, fn func(batch data.Batch) ([][]float64, error)) ([]Prediction, error) {
	batches, err := input()
	if err != nil {
		return nil, fmt.Errorf("could not create prediction input: %w", err)
	}
	predictions := make([]Prediction, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := batches.Next()
		if errors.Is(err, io.EOF) {
			return predictions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("could not read batch: %w", err)
		}
		probabilities, err := fn(batch)
		if err != nil {
			return nil, err
		}
		for _, p := range probabilities {
			predictions = append(predictions, Prediction{
				ClassID:       floats.MaxIdx(p),
				Probabilities: p,
			})
		}
	}
}

// CleanupEvents removes the event logs from the model dir.
// It returns the number of removed files and the first error encountered.
func CleanupEvents(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, EventsPattern))
	if err != nil {
		return 0, fmt.Errorf("could not list event files: %w", err)
	}
	removed := 0
	var first error
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			if first == nil {
				first = fmt.Errorf("could not remove '%s': %w", f, err)
			}
			continue
		}
		removed++
	}
	return removed, first
}
