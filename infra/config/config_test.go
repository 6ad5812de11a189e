package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	LearningRate float64 `json:"learning_rate"`
	HiddenUnits  []int   `json:"hidden_units"`
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	err := ioutil.WriteFile(filepath.Join(dir, "dnn.json"), []byte(`{"learning_rate":0.05,"hidden_units":[100,100]}`), 0644)
	require.NoError(t, err)

	var s sample
	require.NoError(t, Load(dir, "dnn", &s))
	assert.Equal(t, 0.05, s.LearningRate)
	assert.Equal(t, []int{100, 100}, s.HiddenUnits)

	assert.Error(t, Load(dir, "missing", &s))
}

func TestMustLoad_Defaults(t *testing.T) {
	// the repo files are relative to the module root
	Path = filepath.Join("..", "..", "infra", "config")
	for _, key := range []string{"data", "linear", "dnn", "forest", "perceptron", "report"} {
		var v map[string]interface{}
		assert.NotPanics(t, func() {
			MustLoad(key, &v)
		}, key)
		assert.NotEmpty(t, v, key)
	}
}
