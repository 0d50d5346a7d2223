package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fragment-decoder/internal/batch"
	"fragment-decoder/internal/config"
	"fragment-decoder/internal/raster"
	"fragment-decoder/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	inputDir := flag.String("input", "", "Directory searched for .pers files (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/converted)")
	exports := flag.String("export", "", "Comma separated outputs: glb,smd,textures,preview (default: all)")
	texFormat := flag.String("texformat", "", "Texture file format: png, tga or webp (default: png)")
	size := flag.Int("size", 0, "Preview edge in pixels (default: 256)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	testN := flag.Int("test", 0, "Convert only the first N files")
	verbose := flag.Bool("v", false, "Log decoder diagnostics")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	err := cfg.Resolve(config.Flags{
		InputDir:      *inputDir,
		OutputDir:     *outputDir,
		Exports:       *exports,
		TextureFormat: *texFormat,
		PreviewSize:   *size,
		Workers:       *workers,
		Verbose:       *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Explicit file arguments bypass the directory scan.
	files := flag.Args()
	if len(files) == 0 {
		files, err = batch.Scan(cfg.InputDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", cfg.InputDir, err)
			os.Exit(1)
		}
	}

	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No model files to convert.")
		os.Exit(0)
	}

	fmt.Printf("FRAGMENT model converter\n")
	fmt.Printf("Files: %d, Workers: %d, Exports: %v\n", len(files), cfg.Workers, cfg.Exports)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		InputDir:      cfg.InputDir,
		OutputDir:     cfg.OutputDir,
		GLB:           cfg.Wants(config.ExportGLB),
		SMD:           cfg.Wants(config.ExportSMD),
		Textures:      cfg.Wants(config.ExportTextures),
		Preview:       cfg.Wants(config.ExportPreview),
		TextureFormat: texture.Format(cfg.TextureFormat),
		Render: raster.Options{
			Size:        cfg.PreviewSize,
			Supersample: cfg.Supersample,
			Yaw:         cfg.Yaw,
			Pitch:       cfg.Pitch,
			Margin:      2,
		},
		FillRatio: cfg.FillRatio,
		Workers:   cfg.Workers,
	}
	if cfg.Verbose {
		batchCfg.Logf = log.Printf
	}

	results := batch.Run(batchCfg, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	var failures []batch.Result
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", len(results)-len(failures), len(results))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(len(failures), 20)
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	manifest := batch.NewManifest(cfg.InputDir, results)
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s (run %s)\n", manifestPath, manifest.RunID)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
