package archive

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/matzehuels/nugetbridge/pkg/errors"
)

// Provide places src at destination, replacing any existing file.
//
// The file is hard-linked (or copied when links are unavailable) to a
// unique sibling of destination and renamed over it, so src itself is
// never opened for writing and concurrent callers for the same
// destination each publish a complete file.
func Provide(src, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create directory for %s", destination)
	}

	tmp := destination + ".tmp" + uuid.NewString()
	defer os.Remove(tmp)

	if err := os.Link(src, tmp); err != nil {
		if !linkUnsupported(err) {
			return errors.Wrap(errors.ErrCodeInternal, err, "link %s", src)
		}
		if err := copyFile(src, tmp); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "copy %s", src)
		}
	}
	if err := os.Rename(tmp, destination); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "publish %s", destination)
	}
	return nil
}

// linkUnsupported reports link errors that a copy can work around:
// cross-device links and filesystems without hard links.
func linkUnsupported(err error) bool {
	return stderrors.Is(err, syscall.EXDEV) ||
		stderrors.Is(err, syscall.EPERM) ||
		stderrors.Is(err, syscall.ENOTSUP) ||
		stderrors.Is(err, syscall.EMLINK)
}

// copyFile copies src to a new file at destination. It fails if
// destination already exists.
func copyFile(src, destination string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(destination)
		return err
	}
	return out.Close()
}
