package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MockFileSystem keeps files in memory. The *Error fields make the matching
// operation fail.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	StatError      error
	ReadFileError  error
	WriteFileError error
	RenameError    error
	RemoveError    error
}

// NewMockFileSystem creates an empty mock file system
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string][]byte)}
}

type mockFileInfo struct {
	name string
	size int64
	dir  bool
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return fi.size }
func (fi mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mockFileInfo) IsDir() bool        { return fi.dir }
func (fi mockFileInfo) Sys() interface{}   { return nil }

func (fi mockFileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

// Stat implements FileSystem.Stat
func (m *MockFileSystem) Stat(name string) (fs.FileInfo, error) {
	if m.StatError != nil {
		return nil, m.StatError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{name: filepath.Base(name), size: int64(len(data))}, nil
}

// ReadFile implements FileSystem.ReadFile
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements FileSystem.WriteFile
func (m *MockFileSystem) WriteFile(name string, data []byte, _ fs.FileMode) error {
	if m.WriteFileError != nil {
		return m.WriteFileError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[filepath.Clean(name)] = append([]byte(nil), data...)
	return nil
}

// Rename implements FileSystem.Rename
func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if m.RenameError != nil {
		return m.RenameError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[filepath.Clean(oldpath)]
	if !ok {
		return os.ErrNotExist
	}
	m.files[filepath.Clean(newpath)] = data
	delete(m.files, filepath.Clean(oldpath))
	return nil
}

// Remove implements FileSystem.Remove
func (m *MockFileSystem) Remove(name string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[filepath.Clean(name)]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, filepath.Clean(name))
	return nil
}

// ReadDir implements FileSystem.ReadDir. Only files directly under name are
// listed, sorted by name.
func (m *MockFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := filepath.Clean(name)
	var entries []fs.DirEntry
	for path, data := range m.files {
		if filepath.Dir(path) == dir {
			entries = append(entries, fs.FileInfoToDirEntry(mockFileInfo{name: filepath.Base(path), size: int64(len(data))}))
		}
	}
	if entries == nil {
		return nil, os.ErrNotExist
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// MkdirAll implements FileSystem.MkdirAll. Directories are implicit in the mock.
func (m *MockFileSystem) MkdirAll(string, fs.FileMode) error {
	return nil
}

// FileExists is a helper method for testing
func (m *MockFileSystem) FileExists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(name)]
	return ok
}

// GetFileContent is a helper method for testing
func (m *MockFileSystem) GetFileContent(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(name)]
	return append([]byte(nil), data...), ok
}

// MockFileLock is an in-process FileLock for testing
type MockFileLock struct {
	mu        sync.Mutex
	locked    bool
	lockError error

	LockAttempts   int
	UnlockAttempts int
}

// TryLockContext implements FileLock.TryLockContext. It never blocks: a held
// lock reports false.
func (l *MockFileLock) TryLockContext(context.Context, time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.LockAttempts++
	if l.lockError != nil {
		return false, l.lockError
	}
	if l.locked {
		return false, nil
	}
	l.locked = true
	return true, nil
}

// Unlock implements FileLock.Unlock
func (l *MockFileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.UnlockAttempts++
	l.locked = false
	return nil
}

// IsLocked returns whether the lock is currently held
func (l *MockFileLock) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Hold takes the lock on behalf of another process
func (l *MockFileLock) Hold() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = true
}

// SetLockError makes every lock attempt fail with err
func (l *MockFileLock) SetLockError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lockError = err
}

// MockFileLockFactory hands out one MockFileLock per path
type MockFileLockFactory struct {
	mu    sync.Mutex
	locks map[string]*MockFileLock
}

// NewMockFileLockFactory creates a new mock factory
func NewMockFileLockFactory() *MockFileLockFactory {
	return &MockFileLockFactory{locks: make(map[string]*MockFileLock)}
}

// New implements FileLockFactory.New
func (f *MockFileLockFactory) New(path string) FileLock {
	return f.GetLock(path)
}

// GetLock returns the mock lock for a path, creating it on first use
func (f *MockFileLockFactory) GetLock(path string) *MockFileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	lock, ok := f.locks[path]
	if !ok {
		lock = &MockFileLock{}
		f.locks[path] = lock
	}
	return lock
}
