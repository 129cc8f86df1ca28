package initcmd

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

type TempFile interface {
	io.Writer
	Name() string
	Chmod(fs.FileMode) error
	Sync() error
	Close() error
}

type FS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, fs.FileMode) error
	CreateTemp(string, string) (TempFile, error)
	Rename(string, string) error
	Remove(string) error
}

type OSFS struct{}

func (OSFS) Stat(p string) (fs.FileInfo, error)         { return os.Stat(p) }
func (OSFS) MkdirAll(p string, m fs.FileMode) error     { return os.MkdirAll(p, m) }
func (OSFS) CreateTemp(d, pat string) (TempFile, error) { return os.CreateTemp(d, pat) }
func (OSFS) Rename(a, b string) error                   { return os.Rename(a, b) }
func (OSFS) Remove(p string) error                      { return os.Remove(p) }

func safeJoin(baseDir, rel string) (string, error) {
	rel = filepath.Clean(filepath.FromSlash(strings.TrimSpace(rel)))
	if rel == "" || rel == "." || rel == ".." ||
		filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" ||
		strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errdef.New(errdef.CodeConfig, "init: invalid template path %q", rel)
	}
	return filepath.Join(baseDir, rel), nil
}
