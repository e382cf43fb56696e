package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/layertint/internal/palette"
)

// ManifestEntry records how one output image was produced.
type ManifestEntry struct {
	Index   int      `json:"index"`
	File    string   `json:"file"`
	Seed    *int64   `json:"seed,omitempty"`
	Palette []string `json:"palette"`
}

// Manifest describes a generated batch.
type Manifest struct {
	Input       string          `json:"input"`
	Layers      []string        `json:"layers"`
	Harmony     palette.Harmony `json:"harmony"`
	BaseColor   string          `json:"base_color,omitempty"`
	Temperature float64         `json:"temperature"`
	Images      []ManifestEntry `json:"images"`
}

// ManifestPath returns where the batch manifest is written.
func ManifestPath(params Parameters) string {
	return filepath.Join(params.OutputDir, params.Basename+"_palettes.json")
}

// ReadManifest loads a manifest written by a previous run.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-selected output directory
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

func writeManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { // #nosec G306 - Output artefact, world readable is fine
		return err
	}
	return nil
}
