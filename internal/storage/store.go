package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ModelsDir = "models"
	DataDir   = "data"
)

var (
	// DefaultDir is the root for all local files.
	// It is a var so that tests can point it to a temp dir.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key for a general implementation
type Key struct {
	Hash  int64  `json:"hash"`
	Model string `json:"model"`
	Label string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%v_%s", k.Model, k.Hash, k.Label)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// MakePath makes sure the parent path exists and returns the full path for the file.
func MakePath(parentPath string, fileName string) (string, error) {
	info, err := os.Stat(parentPath)
	if err != nil {
		err := os.MkdirAll(parentPath, os.ModePerm)
		if err != nil {
			return "", fmt.Errorf("could not make dir: %s: %w", parentPath, err)
		}
	} else if !info.IsDir() {
		return "", fmt.Errorf("path given is not a dir: %s", parentPath)
	}
	return filepath.Join(parentPath, fileName), nil
}
