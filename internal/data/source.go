package data

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"path"
	"strings"

	"github.com/drakos74/digits/internal/storage"
	"github.com/drakos74/digits/internal/storage/file"
	"github.com/rs/zerolog/log"
)

// Source loads raw csv datasets from a url or a local file.
type Source struct {
	client *http.Client
	cache  *file.Cache
}

// NewSource creates a new source with the default http client and no cache.
func NewSource() *Source {
	return &Source{
		client: http.DefaultClient,
	}
}

// WithClient sets the http client for remote datasets.
func (s *Source) WithClient(client *http.Client) *Source {
	s.client = client
	return s
}

// WithCache keeps downloaded files in the given cache.
func (s *Source) WithCache(cache *file.Cache) *Source {
	s.cache = cache
	return s
}

// Load reads and parses the dataset at the given location.
func (s *Source) Load(ctx context.Context, location string) (Table, error) {
	b, err := s.read(ctx, location)
	if err != nil {
		return Table{}, err
	}
	records, err := ReadCSV(bytes.NewReader(b))
	if err != nil {
		return Table{}, fmt.Errorf("could not read csv from '%s': %w", location, err)
	}
	t, err := Parse(records)
	if err != nil {
		return Table{}, fmt.Errorf("could not parse '%s': %w", location, err)
	}
	log.Info().
		Str("location", location).
		Int("rows", t.Len()).
		Int("features", t.Width()).
		Msg("loaded dataset")
	return t, nil
}

func (s *Source) read(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		b, err := ioutil.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("could not read file '%s': %w", location, err)
		}
		return b, nil
	}

	name := path.Base(location)
	if s.cache != nil {
		b, err := s.cache.Get(name)
		if err == nil {
			log.Debug().Str("url", location).Str("file", s.cache.Path(name)).Msg("using cached dataset")
			return b, nil
		}
		if !errors.Is(err, storage.NotFoundErr) {
			log.Warn().Err(err).Str("url", location).Msg("could not read cached dataset")
		}
	}

	b, err := s.fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(name, b); err != nil {
			log.Warn().Err(err).Str("url", location).Msg("could not cache dataset")
		}
	}
	return b, nil
}

func (s *Source) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for '%s': %w", url, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch '%s': unexpected status %s", url, resp.Status)
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response from '%s': %w", url, err)
	}
	log.Info().Str("url", url).Int("bytes", len(b)).Msg("fetched dataset")
	return b, nil
}

// ReadCSV reads all comma separated records, without a header.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	records := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
