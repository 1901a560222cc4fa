package textutil

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeEntryName turns an archive entry name into a relative,
// slash-separated path that cannot leave the directory it is joined to.
// Backslashes count as separators, and the name is cut at the first NUL.
// Empty, ".", ".." and volume components ("C:") are dropped. The result is
// NFC-normalized. ok is false when nothing usable remains.
func SanitizeEntryName(name string) (string, bool) {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "\\", "/")

	parts := strings.Split(name, "/")
	kept := make([]string, 0, len(parts))
	for i, part := range parts {
		switch {
		case part == "", part == ".", part == "..":
			continue
		case i == 0 && isVolume(part):
			continue
		}
		kept = append(kept, norm.NFC.String(part))
	}
	if len(kept) == 0 {
		return "", false
	}
	return path.Join(kept...), true
}

func isVolume(part string) bool {
	return len(part) == 2 && part[1] == ':' &&
		(part[0] >= 'a' && part[0] <= 'z' || part[0] >= 'A' && part[0] <= 'Z')
}

// HasPrefixAndExt reports whether the final element of name starts with
// prefix and carries extension ext, compared case-insensitively and without
// the leading dot.
func HasPrefixAndExt(name, prefix, ext string) bool {
	base := path.Base(name)
	if !strings.HasPrefix(base, prefix) {
		return false
	}
	got := strings.TrimPrefix(path.Ext(base), ".")
	if got == "" {
		return false
	}
	return strings.EqualFold(got, strings.TrimPrefix(ext, "."))
}
