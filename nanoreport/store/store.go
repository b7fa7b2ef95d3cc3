// Package store keeps report envelopes as files in a directory, one file per
// report. It implements nanoreport.Source.
//
// A ref names a file in the directory. Refs without an extension get the
// store's default format's extension; refs ending in .json, .yaml or .yml are
// read and written in that format. Every read and write holds an exclusive
// flock on "<file>.lock", and writes go through a temp file and a rename.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// Format is a report file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want json or yaml)", s)
}

// Ext is the file extension of the format, dot included
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// TimestampLayout is the layout of the updatedAt stamp written on save
const TimestampLayout = "2006-01-02T15:04:05"

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// ErrInvalidRef is the cause of errors for refs that do not name a file in the store
var ErrInvalidRef = errors.New("invalid report ref")

// FileStore reads and writes report envelopes under one directory
type FileStore struct {
	dir         string
	format      Format
	fs          FileSystem
	lockFactory FileLockFactory
	timeFunc    func() time.Time

	// serializes access from this process; the file lock covers other processes
	mu sync.Mutex
}

// New creates a store over dir. Nothing is read until the first Fetch.
func New(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:      dir,
		format:   FormatJSON,
		timeFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = osFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = flockFactory{}
	}
	return s
}

// Dir returns the directory holding the report files
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file a ref maps to and the format it is encoded in
func (s *FileStore) Path(ref string) (string, Format, error) {
	if strings.TrimSpace(ref) == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json":
		return filepath.Join(s.dir, ref), FormatJSON, nil
	case ".yaml", ".yml":
		return filepath.Join(s.dir, ref), FormatYAML, nil
	}
	return filepath.Join(s.dir, ref+s.format.Ext()), s.format, nil
}

// Fetch implements nanoreport.Source
func (s *FileStore) Fetch(ctx context.Context, ref string) (map[string]interface{}, error) {
	path, format, err := s.Path(ref)
	if err != nil {
		return nil, err
	}

	var envelope map[string]interface{}
	err = s.withLock(ctx, path, func() error {
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		envelope, err = decode(format, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// Save implements nanoreport.Source. The envelope's updatedAt is stamped with
// the store clock and createdAt is set when missing.
func (s *FileStore) Save(ctx context.Context, ref string, envelope map[string]interface{}) error {
	path, format, err := s.Path(ref)
	if err != nil {
		return err
	}
	envelope = tree.CopyMap(envelope)
	now := s.timeFunc().UTC().Format(TimestampLayout)
	envelope["updatedAt"] = now
	if created, _ := envelope["createdAt"].(string); created == "" {
		envelope["createdAt"] = now
	}

	data, err := encode(format, envelope)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	return s.withLock(ctx, path, func() error {
		// Write to file atomically (write to temp file, then rename)
		tmpFile := path + ".tmp"
		if err := s.fs.WriteFile(tmpFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write temp file: %w", err)
		}
		if err := s.fs.Rename(tmpFile, path); err != nil {
			_ = s.fs.Remove(tmpFile)
			return fmt.Errorf("failed to rename file: %w", err)
		}
		return nil
	})
}

// Exists reports whether a report is stored under ref
func (s *FileStore) Exists(ref string) bool {
	path, _, err := s.Path(ref)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(path)
	return err == nil
}

// List returns the refs of every report file in the directory, sorted
func (s *FileStore) List() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	var refs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			refs = append(refs, e.Name())
		}
	}
	sort.Strings(refs)
	return refs, nil
}

// withLock runs fn holding both the process mutex and the file lock of path
func (s *FileStore) withLock(ctx context.Context, path string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	lock := s.lockFactory.New(path + ".lock")
	if err := acquireLock(ctx, lock); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// acquireLock attempts to acquire an exclusive file lock with retry logic
func acquireLock(ctx context.Context, lock FileLock) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

func decode(format Format, data []byte) (map[string]interface{}, error) {
	var envelope map[string]interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	if envelope == nil {
		return nil, fmt.Errorf("report file is empty")
	}
	return tree.CopyMap(envelope), nil
}

func encode(format Format, envelope map[string]interface{}) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(envelope, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return data, nil
	}
}
