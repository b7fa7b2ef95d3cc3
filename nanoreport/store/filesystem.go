package store

import (
	"io/fs"
	"os"
)

// FileSystem is the slice of the os package a FileStore touches. Tests swap in
// MockFileSystem.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error
}

// osFileSystem reads and writes the real disk
type osFileSystem struct{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (osFileSystem) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (osFileSystem) Rename(oldpath, newpath string) error  { return os.Rename(oldpath, newpath) }
func (osFileSystem) Remove(name string) error              { return os.Remove(name) }

func (osFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
