package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const (
	manifestFileName    = ".build-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores the checksums of the last successful build so
// incremental runs skip artifacts whose content did not change.
type buildManifest struct {
	Version     int
	GeneratedAt time.Time
	Artifacts   map[string]manifestArtifact
}

type manifestArtifact struct {
	Path      string    `json:"path"`
	Category  string    `json:"category"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	WrittenAt time.Time `json:"written_at"`
}

type orderedManifest struct {
	Version     int                `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Artifacts   []manifestArtifact `json:"artifacts"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:   manifestFileVersion,
		Artifacts: map[string]manifestArtifact{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var ordered orderedManifest
	if err := json.Unmarshal(data, &ordered); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	manifest := newBuildManifest()
	manifest.GeneratedAt = ordered.GeneratedAt
	if ordered.Version != 0 {
		manifest.Version = ordered.Version
	}
	for _, entry := range ordered.Artifacts {
		manifest.Artifacts[entry.Path] = entry
	}
	return manifest, nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	ordered := orderedManifest{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Artifacts:   make([]manifestArtifact, 0, len(m.Artifacts)),
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	for _, entry := range m.Artifacts {
		ordered.Artifacts = append(ordered.Artifacts, entry)
	}
	// Stable ordering for deterministic output.
	sort.Slice(ordered.Artifacts, func(i, j int) bool {
		return ordered.Artifacts[i].Path < ordered.Artifacts[j].Path
	})
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *buildManifest) unchanged(path, checksum string) bool {
	if m == nil {
		return false
	}
	entry, ok := m.Artifacts[path]
	return ok && entry.Checksum == checksum
}

func (m *buildManifest) set(entry manifestArtifact) {
	if m.Artifacts == nil {
		m.Artifacts = map[string]manifestArtifact{}
	}
	m.Artifacts[entry.Path] = entry
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}
