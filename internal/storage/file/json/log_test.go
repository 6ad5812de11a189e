package json

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/digits/internal/storage"
)

type Event struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Index int    `json:"index"`
}

func newEvent(i int) Event {
	return Event{
		Name:  "test",
		ID:    uuid.New().String(),
		Index: i,
	}
}

func TestLogger_Append(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "run", "events.log"))

	events := make([]Event, 0)
	for i := 0; i < 10; i++ {
		ev := newEvent(i)
		events = append(events, ev)
		err := logger.Append(ev)
		assert.NoError(t, err)
	}

	loadedEvents := make([]Event, 0)
	err := Events(logger.Path(), func(line []byte) error {
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return err
		}
		loadedEvents = append(loadedEvents, ev)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 10, len(loadedEvents))
	for i, ev := range events {
		assert.Equal(t, ev, loadedEvents[i])
	}
}

func TestBlobStorage(t *testing.T) {
	blob := NewDirBlob(t.TempDir())

	k := storage.Key{Model: "dnn", Label: "checkpoint"}
	ev := newEvent(3)
	require.NoError(t, blob.Store(k, ev))

	var loaded Event
	require.NoError(t, blob.Load(k, &loaded))
	assert.Equal(t, ev, loaded)

	err := blob.Load(storage.Key{Model: "dnn", Label: "missing"}, &loaded)
	assert.ErrorIs(t, err, storage.NotFoundErr)
}

func TestDirShard(t *testing.T) {
	dir := t.TempDir()
	shard := DirShard(true)
	blob, err := shard(filepath.Join(dir, "dnn-1"))
	require.NoError(t, err)

	k := storage.Key{Model: "dnn", Label: "checkpoint"}
	require.NoError(t, blob.Store(k, newEvent(1)))
	assert.FileExists(t, filepath.Join(dir, "dnn-1", "dnn_0_checkpoint.json"))
}
