package batch

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"fragment-decoder/internal/export"
	"fragment-decoder/internal/fragment"
	"fragment-decoder/internal/model"
	"fragment-decoder/internal/postprocess"
	"fragment-decoder/internal/raster"
	"fragment-decoder/internal/texture"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir  string
	OutputDir string

	GLB      bool
	SMD      bool
	Textures bool
	Preview  bool

	TextureFormat texture.Format
	Render        raster.Options
	FillRatio     float64
	Workers       int

	// Logf receives decoder diagnostics, prefixed with the file name.
	Logf func(format string, args ...any)
}

// Result holds the outcome of processing one file.
type Result struct {
	Name      string
	Input     string
	Bones     int
	Meshes    int
	Materials int
	Textures  int
	Outputs   []string // relative to OutputDir
	Success   bool
	Error     string
}

// Run processes all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := max(cfg.Workers, 1)
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, input string) Result {
	name := stem(cfg.InputDir, input)
	res := Result{Name: name, Input: input}

	raw, err := os.ReadFile(input)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	opts := fragment.Options{}
	if cfg.Logf != nil {
		opts.Logf = func(format string, args ...any) {
			cfg.Logf("%s: "+format, append([]any{name}, args...)...)
		}
	}
	m, err := fragment.DecodeFile(raw, opts)
	res.Bones = len(m.Skeleton.Bones)
	res.Meshes = len(m.Meshes)
	res.Materials = len(m.Materials)
	res.Textures = len(m.Textures)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if len(m.Meshes) == 0 {
		res.Error = "no meshes in model"
		return res
	}

	outDir := filepath.Join(cfg.OutputDir, filepath.FromSlash(name))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	base := path.Base(name)
	cache := texture.NewCache(m)

	add := func(file string) {
		res.Outputs = append(res.Outputs, path.Join(name, filepath.ToSlash(file)))
	}

	if cfg.GLB {
		if err := export.SaveGLB(filepath.Join(outDir, base+".glb"), m, cache); err != nil {
			res.Error = err.Error()
			return res
		}
		add(base + ".glb")
	}
	if cfg.SMD {
		if err := export.SaveSMD(filepath.Join(outDir, base+".smd"), m, cache, cfg.TextureFormat); err != nil {
			res.Error = err.Error()
			return res
		}
		add(base + ".smd")
	}
	if cfg.Textures {
		files, err := dumpTextures(filepath.Join(outDir, "textures"), m, cache, cfg.TextureFormat)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		for _, f := range files {
			add(path.Join("textures", f))
		}
	}
	if cfg.Preview {
		img := raster.RenderModel(m, cache, cfg.Render)
		if cfg.Render.Supersample > 1 {
			img = postprocess.Downsample(img, cfg.Render.Size)
		}
		img = postprocess.CropAndCenter(img, cfg.Render.Size, cfg.FillRatio)
		if err := texture.WriteFile(filepath.Join(outDir, "preview.webp"), img, texture.FormatWebP); err != nil {
			res.Error = fmt.Sprintf("preview: %v", err)
			return res
		}
		add("preview.webp")
	}

	res.Success = true
	return res
}

// dumpTextures writes every decodable texture in the bank to dir and
// returns the file names written.
func dumpTextures(dir string, m *model.Model, res texture.Resolver, format texture.Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var written []string
	for _, t := range m.Textures {
		img := res.Resolve(t.Name)
		if img == nil {
			continue
		}
		file := t.Name + format.Ext()
		if err := texture.WriteFile(filepath.Join(dir, file), img, format); err != nil {
			return written, err
		}
		written = append(written, file)
	}
	return written, nil
}
