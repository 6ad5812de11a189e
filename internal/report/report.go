// Package report renders training results as text and, optionally, png images.
package report

const (
	// DefaultHeight is the number of lines of the loss plot.
	DefaultHeight = 12
	// PerRow is the number of weight images rendered side by side.
	PerRow = 10
)

// Config controls how and where the results are rendered.
type Config struct {
	Height        int    `json:"height"`
	PNGDir        string `json:"png_dir"`
	MetricsPort   int    `json:"metrics_port"`
	Explore       bool   `json:"explore"`
	TestBatchSize int    `json:"test_batch_size"`

	// DescribePixels are the pixels whose statistics are printed when exploring.
	DescribePixels []int `json:"describe_pixels"`
}

// WithDefaults fills in the zero values.
func (c Config) WithDefaults() Config {
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.TestBatchSize == 0 {
		c.TestBatchSize = 100
	}
	return c
}
