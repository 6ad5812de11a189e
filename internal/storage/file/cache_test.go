package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/digits/internal/storage"
)

func TestCache(t *testing.T) {
	cache := NewCache(t.TempDir())

	_, err := cache.Get("mnist.csv")
	assert.ErrorIs(t, err, storage.NotFoundErr)

	require.NoError(t, cache.Put("mnist.csv", []byte("1,0,0\n")))
	b, err := cache.Get("mnist.csv")
	require.NoError(t, err)
	assert.Equal(t, "1,0,0\n", string(b))

	require.NoError(t, cache.Put("mnist.csv", []byte("2,0,0\n")))
	b, err = cache.Get("mnist.csv")
	require.NoError(t, err)
	assert.Equal(t, "2,0,0\n", string(b))
}
