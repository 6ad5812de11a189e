package json

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Logger appends json encoded events as single lines to a file.
type Logger struct {
	path string
}

// NewLogger creates a logger for the given file path.
// The parent dir is created on the first append.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string {
	return l.path
}

// Append writes the value as a new line at the end of the file.
func (l *Logger) Append(value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(l.path), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir for '%s': %w", l.path, err)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write log file '%s': %w", l.path, err)
	}
	return nil
}

// Events decodes every line of the given log file with the provided constructor.
func Events(path string, decode func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open log file '%s': %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := decode(scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
