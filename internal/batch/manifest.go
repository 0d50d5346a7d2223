package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest summarises one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	Generated string          `json:"generated"`
	InputDir  string          `json:"input_dir"`
	Converted int             `json:"converted"`
	Failed    int             `json:"failed"`
	Entries   []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one input file in the output manifest.
type ManifestEntry struct {
	Name      string   `json:"name"`
	Input     string   `json:"input"`
	Bones     int      `json:"bones"`
	Meshes    int      `json:"meshes"`
	Materials int      `json:"materials"`
	Textures  int      `json:"textures"`
	Outputs   []string `json:"outputs,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// NewManifest builds a manifest for results under a fresh run id.
func NewManifest(inputDir string, results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		Generated: time.Now().UTC().Format(time.RFC3339),
		InputDir:  inputDir,
		Entries:   make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		if r.Success {
			m.Converted++
		} else {
			m.Failed++
		}
		m.Entries[i] = ManifestEntry{
			Name:      r.Name,
			Input:     r.Input,
			Bones:     r.Bones,
			Meshes:    r.Meshes,
			Materials: r.Materials,
			Textures:  r.Textures,
			Outputs:   r.Outputs,
			Error:     r.Error,
		}
	}
	return m
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
