package json

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/drakos74/digits/internal/storage"
	"github.com/rs/zerolog/log"
)

// BlobStorage stores every key as a separate json file.
type BlobStorage struct {
	path  string
	debug bool
}

// DirShard creates a shard generator where every shard is a dir.
func DirShard(debug bool) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewDirBlob(shard).Debug(debug), nil
	}
}

// NewDirBlob creates a blob storage that writes directly into the given dir.
func NewDirBlob(dir string) *BlobStorage {
	return &BlobStorage{
		path: dir,
	}
}

// Debug logs every stored file.
func (s *BlobStorage) Debug(debug bool) *BlobStorage {
	s.debug = debug
	return s
}

func (s BlobStorage) dir() string {
	return s.path
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	p := s.dir()
	err := Save(p, k.Path(), value)
	if err == nil && s.debug {
		log.Info().Str("path", p).Str("file", k.Path()).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(s.dir(), k.Path(), value)
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	p, err := storage.MakePath(filePath, fmt.Sprintf("%s.json", fileName))
	if err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("could not create file '%s': %w", p, err)
	}
	defer f.Close()

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not save key '%+v': %w", p, err)
	}

	_, err = f.Write(b)
	if err != nil {
		return fmt.Errorf("could not write bytes to file '%v' : %w", p, err)
	}

	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	p := filepath.Join(filePath, fmt.Sprintf("%s.json", fileName))

	data, err := ioutil.ReadFile(p)
	if err != nil {
		return fmt.Errorf("could not read file '%s' %s: %w", p, err.Error(), storage.NotFoundErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal key '%s': %w", err, storage.CouldNotLoadErr)
	}

	return nil
}
