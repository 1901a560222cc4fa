// Package compare decides whether an extracted game jar is missing from the
// archive manifest.
package compare

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"

	"reachwatch/internal/digest"
	"reachwatch/internal/logging"
	"reachwatch/internal/services"
)

const component = "compare"

// Comparator hashes files with a single reusable hasher. It is not safe for
// concurrent use.
type Comparator struct {
	hasher hash.Hash
	buf    [digest.Size]byte
	logger *slog.Logger
}

// New returns a SHA-256 comparator.
func New(logger *slog.Logger) *Comparator {
	return NewWithHasher(sha256.New(), logger)
}

// NewWithHasher uses h for hashing. h must produce digest.Size bytes.
func NewWithHasher(h hash.Hash, logger *slog.Logger) *Comparator {
	return &Comparator{
		hasher: h,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// Digest streams the file at path through the hasher. A hasher producing the
// wrong number of bytes yields an error marked services.ErrProgrammer.
func (c *Comparator) Digest(path string) (digest.Digest, error) {
	c.hasher.Reset()

	f, err := os.Open(path)
	if err != nil {
		return digest.Digest{}, services.Wrap(services.ErrFilesystem, component, "open", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(c.hasher, f); err != nil {
		return digest.Digest{}, services.Wrap(services.ErrFilesystem, component, "read", path, err)
	}

	sum := c.hasher.Sum(c.buf[:0])
	d, err := digest.FromBytes(sum)
	if err != nil {
		return digest.Digest{}, services.Wrap(services.ErrProgrammer, component, "finalize",
			fmt.Sprintf("hasher wrote %d bytes into a %d byte buffer", len(sum), digest.Size), err)
	}
	return d, nil
}

// IsUnarchived reports whether the digest of path is absent from archived.
// Any failure is logged and reported as false, so an unreadable file never
// shows up as a new version.
func (c *Comparator) IsUnarchived(archived digest.Set, path string) bool {
	d, err := c.Digest(path)
	if err != nil {
		attrs := []logging.Attr{
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
		}
		if errors.Is(err, services.ErrProgrammer) {
			logging.Fatal(c.logger, "digest buffer size mismatch", attrs...)
		} else {
			logging.ErrorWithContext(c.logger, "hash failed; treating file as archived", "hash_failed", attrs...)
		}
		return false
	}
	fresh := !archived.Contains(d)
	c.logger.Debug("digest compared",
		logging.String(logging.FieldPath, path),
		logging.String("sha256", d.String()),
		logging.Bool("fresh", fresh),
	)
	return fresh
}
