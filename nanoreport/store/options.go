package store

import "time"

// Option configures a FileStore
type Option func(*FileStore)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) Option {
	return func(s *FileStore) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) Option {
	return func(s *FileStore) {
		s.lockFactory = factory
	}
}

// WithFormat sets the encoding used for refs without a file extension
func WithFormat(f Format) Option {
	return func(s *FileStore) {
		s.format = f
	}
}

// WithTimeFunc sets the clock used to stamp updatedAt
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *FileStore) {
		s.timeFunc = fn
	}
}
