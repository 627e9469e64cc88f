// Package pkg provides generic utilities for driftwood.
package pkg

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Spool is an append-only, gob-backed sequence of items of type T stored on
// disk. Graph snapshots are streamed through it so the cascade command can
// replay a scan without holding everything in memory.
type Spool[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type spoolImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewSpool creates (or truncates) a spool at the given path.
func NewSpool[T any](path string) (Spool[T], error) {
	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create spool file", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}

	slog.Debug("created spool", "path", path)

	return &spoolImpl[T]{
		path:    path,
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// OpenSpool opens an existing spool for reading. The length is recovered by
// decoding the stream once.
func OpenSpool[T any](path string) (Spool[T], error) {
	s := &spoolImpl[T]{path: path}

	length, err := s.countItems()
	if err != nil {
		return nil, err
	}

	s.length = length

	return s, nil
}

// Append implements Spool.
func (s *spoolImpl[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return fmt.Errorf("spool %s is not open for writing", s.path)
	}

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	s.length++

	return nil
}

// AppendBatch implements Spool.
func (s *spoolImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := s.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Path implements Spool.
func (s *spoolImpl[T]) Path() string {
	return s.path
}

// Len implements Spool.
func (s *spoolImpl[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Get implements Spool. It re-reads the stream from the start, which is fine
// for the rare point lookup; bulk consumers should use Range.
func (s *spoolImpl[T]) Get(index uint64) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T

	if index >= s.length {
		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, s.length)
	}

	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spool for get", "path", s.path, "error", err)
		return zero, fmt.Errorf("failed to open spool: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spool", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i <= index; i++ {
		if err := decoder.Decode(&item); err != nil {
			return zero, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}
	}

	return item, nil
}

// Range implements Spool.
func (s *spoolImpl[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spool for range", "path", s.path, "error", err)
		return fmt.Errorf("failed to open spool: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spool", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); ; i++ {
		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}
}

// Close implements Spool.
func (s *spoolImpl[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			slog.Error("failed to close spool", "path", s.path, "error", err)
			return err
		}

		s.file = nil
		slog.Debug("closed spool", "path", s.path, "length", s.length)
	}

	return nil
}

// countItems decodes the whole stream once to recover the length of a spool
// opened for reading.
func (s *spoolImpl[T]) countItems() (uint64, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open spool: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := gob.NewDecoder(file)

	var (
		item  T
		count uint64
	)

	for {
		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}

			return 0, fmt.Errorf("failed to decode item at index %d: %w", count, err)
		}

		count++
	}
}
