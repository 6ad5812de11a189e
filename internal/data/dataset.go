package data

import (
	"time"

	"golang.org/x/exp/rand"
)

const (
	// TrainURL is the default location of the training examples.
	TrainURL = "https://download.mlcc.google.com/mledu-datasets/mnist_train_small.csv"
	// TestURL is the default location of the test examples.
	TestURL = "https://download.mlcc.google.com/mledu-datasets/mnist_test.csv"
)

// Config defines where the data comes from and how it is partitioned.
type Config struct {
	TrainURL string `json:"train_url"`
	TestURL  string `json:"test_url"`
	Rows     int    `json:"rows"`
	Training int    `json:"training"`
	Seed     uint64 `json:"seed"`
	Cache    bool   `json:"cache"`
}

// WithDefaults fills in the zero values.
func (c Config) WithDefaults() Config {
	if c.TrainURL == "" {
		c.TrainURL = TrainURL
	}
	if c.TestURL == "" {
		c.TestURL = TestURL
	}
	if c.Rows == 0 {
		c.Rows = 10000
	}
	if c.Training == 0 {
		c.Training = 7500
	}
	return c
}

// Rand returns the random source for the config seed, or a time based one for seed 0.
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// Sets are the disjoint training and validation partitions.
type Sets struct {
	Training   Table
	Validation Table
}

// Partition keeps the first rows of the table, shuffles them
// and splits them into training and validation sets.
func Partition(t Table, rows, training int, rng *rand.Rand) Sets {
	shuffled := t.Head(rows).Shuffle(rng)
	train, validation := shuffled.Split(training)
	return Sets{
		Training:   train,
		Validation: validation,
	}
}
