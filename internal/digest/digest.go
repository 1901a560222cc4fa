package digest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the length in bytes of a SHA-256 digest.
const Size = 32

// ErrInvalidHex reports text that is not exactly 64 lower-case hex characters.
var ErrInvalidHex = errors.New("digest: want 64 lower-case hex characters")

// Digest is an immutable SHA-256 value. The zero value is the all-zero digest.
type Digest [Size]byte

// Parse decodes the canonical lower-case hexadecimal form of a digest.
// Upper-case letters and any length other than 64 are rejected.
func Parse(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*Size {
		return d, fmt.Errorf("%w: got %d characters", ErrInvalidHex, len(s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return d, fmt.Errorf("%w: invalid character %q at offset %d", ErrInvalidHex, c, i)
		}
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return d, nil
}

// FromBytes copies b into a Digest. b must be exactly Size bytes long.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, fmt.Errorf("digest: want %d bytes, got %d", Size, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// String returns the lower-case hexadecimal form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Compare orders digests lexicographically by byte.
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the strict Parse rules.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
