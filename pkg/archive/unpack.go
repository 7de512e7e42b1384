package archive

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

const (
	unpackSuffix = ".unpack"
	markerFile   = ".unpacked"
)

// Locker hands out one mutex per key. *fetch.Coordinator satisfies it, so
// extraction and download of the same archive can share a lock map.
type Locker interface {
	LockFor(key string) *sync.Mutex
}

// Unpacker extracts archives next to themselves.
type Unpacker struct {
	locks  Locker
	logger *log.Logger
}

// NewUnpacker creates an Unpacker. Extractions of the same archive path are
// serialized through locks. A nil logger uses log.Default().
func NewUnpacker(locks Locker, logger *log.Logger) *Unpacker {
	if logger == nil {
		logger = log.Default()
	}
	return &Unpacker{locks: locks, logger: logger}
}

// Dir returns the extraction directory used for archivePath.
func Dir(archivePath string) string {
	return archivePath + unpackSuffix
}

// Unpack extracts archivePath and returns the extraction root.
//
// An earlier extraction is reused when its marker is at least as new as
// the archive. Otherwise the directory is wiped and the archive extracted
// again; the marker is written last, so an interrupted extraction is
// redone on the next call.
func (u *Unpacker) Unpack(archivePath string) (string, error) {
	var root string
	err := u.With(archivePath, func(r string) error {
		root = r
		return nil
	})
	return root, err
}

// With unpacks archivePath and calls fn with the extraction root while
// holding the archive's lock. No other extraction of the same archive can
// replace the directory until fn returns.
func (u *Unpacker) With(archivePath string, fn func(root string) error) error {
	l := u.locks.LockFor("unpack:" + archivePath)
	l.Lock()
	defer l.Unlock()

	root, err := u.unpack(archivePath)
	if err != nil {
		return err
	}
	return fn(root)
}

func (u *Unpacker) unpack(archivePath string) (string, error) {
	root := Dir(archivePath)

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeTransfer, err, "archive %s", archivePath)
	}
	if fresh(root, info.ModTime()) {
		return root, nil
	}

	start := time.Now()
	if err := os.RemoveAll(root); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "clear %s", root)
	}
	n, err := extract(archivePath, root)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(root, markerFile), nil, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write unpack marker")
	}
	u.logger.Debug("unpacked", "archive", archivePath, "files", n, "duration", time.Since(start))
	return root, nil
}

// Open returns the extracted file at rel inside archivePath, unpacking
// first if needed.
func (u *Unpacker) Open(archivePath, rel string) (string, error) {
	root, err := u.Unpack(archivePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

func fresh(root string, archiveTime time.Time) bool {
	marker, err := os.Stat(filepath.Join(root, markerFile))
	if err != nil {
		return false
	}
	return !archiveTime.After(marker.ModTime())
}

func extract(archivePath, root string) (int, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeTransfer, err, "open archive %s", archivePath)
	}
	defer r.Close()

	if err := os.MkdirAll(root, 0o755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", root)
	}

	n := 0
	for _, f := range r.File {
		name := entryName(f.Name)
		target := filepath.Join(root, filepath.FromSlash(name))
		if !within(root, target) {
			return n, errors.New(errors.ErrCodeTransfer, "archive entry %q escapes extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return n, errors.Wrap(errors.ErrCodeInternal, err, "create %s", target)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(target))
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransfer, err, "read entry %s", f.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", target)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeTransfer, err, "extract %s", f.Name)
	}
	return out.Close()
}

// entryName undoes the percent-encoding package tools apply to entry names
// ("My%20Lib.dll").
func entryName(name string) string {
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
