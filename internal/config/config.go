package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"fragment-decoder/internal/texture"
)

// Export targets a conversion run can produce per input file.
const (
	ExportGLB      = "glb"
	ExportSMD      = "smd"
	ExportTextures = "textures"
	ExportPreview  = "preview"
)

var allExports = []string{ExportGLB, ExportSMD, ExportTextures, ExportPreview}

// Config holds all configurable paths and conversion settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Outputs
	Exports       []string `json:"exports"`
	TextureFormat string   `json:"texture_format"`

	// Preview settings
	PreviewSize int     `json:"preview_size"`
	Supersample int     `json:"supersample"`
	Yaw         float64 `json:"yaw"`
	Pitch       float64 `json:"pitch"`
	FillRatio   float64 `json:"fill_ratio"`

	Workers int  `json:"workers"`
	Verbose bool `json:"verbose"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir      string
	OutputDir     string
	Exports       string // comma separated
	TextureFormat string
	PreviewSize   int
	Workers       int
	Verbose       bool
}

// Resolve applies flags, fills empty fields with defaults and validates
// the result. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Exports != "" {
		c.Exports = splitList(flags.Exports)
	}
	if flags.TextureFormat != "" {
		c.TextureFormat = flags.TextureFormat
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	c.Verbose = c.Verbose || flags.Verbose

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "converted")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		// Relative paths in a config file are relative to the input tree.
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if len(c.Exports) == 0 {
		c.Exports = slices.Clone(allExports)
	}
	for _, e := range c.Exports {
		if !slices.Contains(allExports, e) {
			return fmt.Errorf("config: unknown export %q (want one of %s)", e, strings.Join(allExports, ", "))
		}
	}
	if c.TextureFormat == "" {
		c.TextureFormat = string(texture.FormatPNG)
	}
	f, err := texture.ParseFormat(c.TextureFormat)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.TextureFormat = string(f)

	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Yaw == 0 && c.Pitch == 0 {
		c.Yaw, c.Pitch = 35, 20
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// Wants reports whether export e is enabled.
func (c *Config) Wants(e string) bool {
	return slices.Contains(c.Exports, e)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
