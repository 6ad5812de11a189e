package storage

import (
	"encoding/json"
	"fmt"
)

// MockShard returns a shard that keeps everything in memory.
func MockShard() Shard {
	return func(shard string) (Persistence, error) {
		return NewMockStorage(), nil
	}
}

// MockStorage keeps the json encoded values in a map.
type MockStorage struct {
	Elements map[Key][]byte
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key][]byte)}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value: %w", err)
	}
	m.Elements[k] = b
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	b, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not unmarshal '%v': %w", k, CouldNotLoadErr)
	}
	return nil
}
