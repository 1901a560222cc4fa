package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"reachwatch/internal/digest"
)

// VersionRecord is one archived build. Only SHA256 drives the freshness
// check; the remaining fields are kept so the manifest command can show them.
type VersionRecord struct {
	ID          string        `json:"id"`
	Kind        string        `json:"type"`
	ReleaseTime uint64        `json:"releaseTime"`
	URL         string        `json:"url"`
	SHA256      digest.Digest `json:"sha256"`
	Size        uint64        `json:"size"`
}

type versionRecordJSON struct {
	ID          *string        `json:"id"`
	Kind        *string        `json:"type"`
	ReleaseTime *uint64        `json:"releaseTime"`
	URL         *string        `json:"url"`
	SHA256      *digest.Digest `json:"sha256"`
	Size        *uint64        `json:"size"`
}

// UnmarshalJSON decodes a record and rejects missing or null fields.
func (r *VersionRecord) UnmarshalJSON(data []byte) error {
	var raw versionRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var missing []string
	if raw.ID == nil {
		missing = append(missing, "id")
	}
	if raw.Kind == nil {
		missing = append(missing, "type")
	}
	if raw.ReleaseTime == nil {
		missing = append(missing, "releaseTime")
	}
	if raw.URL == nil {
		missing = append(missing, "url")
	}
	if raw.SHA256 == nil {
		missing = append(missing, "sha256")
	}
	if raw.Size == nil {
		missing = append(missing, "size")
	}
	if len(missing) > 0 {
		return fmt.Errorf("version record: missing field(s) %s", strings.Join(missing, ", "))
	}
	*r = VersionRecord{
		ID:          *raw.ID,
		Kind:        *raw.Kind,
		ReleaseTime: *raw.ReleaseTime,
		URL:         *raw.URL,
		SHA256:      *raw.SHA256,
		Size:        *raw.Size,
	}
	return nil
}

// Manifest is the parsed versions document.
type Manifest struct {
	Latest   map[string]string `json:"latest"`
	Versions []VersionRecord   `json:"versions"`
}

// Parse decodes a manifest body.
func Parse(data []byte) (*Manifest, error) {
	var raw struct {
		Latest   *map[string]string `json:"latest"`
		Versions *[]VersionRecord   `json:"versions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Latest == nil {
		return nil, errors.New("manifest: missing field latest")
	}
	if raw.Versions == nil {
		return nil, errors.New("manifest: missing field versions")
	}
	return &Manifest{Latest: *raw.Latest, Versions: *raw.Versions}, nil
}

// Digests reduces the manifest to its set of archived digests.
func (m *Manifest) Digests() digest.Set {
	digests := make([]digest.Digest, 0, len(m.Versions))
	for _, v := range m.Versions {
		digests = append(digests, v.SHA256)
	}
	return digest.NewSet(digests...)
}

// Channels returns the channel names of Latest in sorted order.
func (m *Manifest) Channels() []string {
	return slices.Sorted(maps.Keys(m.Latest))
}
