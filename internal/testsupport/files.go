package testsupport

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ZipEntry is one file of a synthetic archive. A BadCRC entry is stored
// uncompressed with a wrong checksum, so reading it to the end fails with
// zip.ErrChecksum.
type ZipEntry struct {
	Name    string
	Content string
	BadCRC  bool
}

// BuildZip returns a ZIP archive holding entries in order. Names are written
// verbatim, so tests can include traversal attempts.
func BuildZip(t testing.TB, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if e.BadCRC {
			writeCorruptEntry(t, zw, e)
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if _, err := w.Write([]byte(e.Content)); err != nil {
			t.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func writeCorruptEntry(t testing.TB, zw *zip.Writer, e ZipEntry) {
	t.Helper()
	size := uint64(len(e.Content))
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               e.Name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE([]byte(e.Content)) ^ 0xffffffff,
		CompressedSize64:   size,
		UncompressedSize64: size,
	})
	if err != nil {
		t.Fatalf("zip create raw %s: %v", e.Name, err)
	}
	if _, err := w.Write([]byte(e.Content)); err != nil {
		t.Fatalf("zip write raw %s: %v", e.Name, err)
	}
}

// SHA256Hex returns the lower-case hex digest of content.
func SHA256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ManifestJSON renders a manifest body listing one version per digest.
func ManifestJSON(digests ...string) string {
	records := make([]string, 0, len(digests))
	for i, d := range digests {
		records = append(records, fmt.Sprintf(
			`{"id":"0.0.%d","type":"pre_alpha","releaseTime":%d,"url":"https://archive.example/%d.jar","sha256":"%s","size":%d}`,
			i, 1700000000+i, i, d, 1024+i))
	}
	return fmt.Sprintf(`{"latest":{"pre_alpha":"0.0.%d"},"versions":[%s]}`, max(len(digests)-1, 0), strings.Join(records, ","))
}
