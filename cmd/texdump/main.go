package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fragment-decoder/internal/fragment"
	"fragment-decoder/internal/postprocess"
	"fragment-decoder/internal/texture"
)

func dumpFile(path, outDir string, format texture.Format, scale int) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := fragment.DecodeFile(raw, fragment.Options{})
	if err != nil {
		// Textures bound before the failure are still dumped.
		fmt.Fprintf(os.Stderr, "WARN %s: %v\n", path, err)
	}

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".pers")
	dir := filepath.Join(outDir, base)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	n := 0
	for _, t := range m.Textures {
		img, err := texture.ToNRGBA(t)
		if err != nil {
			fmt.Printf("SKIP %s/%s  (%s %dx%d: %v)\n", base, t.Name, t.Format, t.Width, t.Height, err)
			continue
		}
		if scale > 1 {
			img = postprocess.Upscale(img, scale)
		}
		dst := filepath.Join(dir, t.Name+format.Ext())
		if err := texture.WriteFile(dst, img, format); err != nil {
			return n, err
		}
		fmt.Printf("OK  %s/%s -> %s  (%s %dx%d)\n", base, t.Name, dst, t.Format, t.Width, t.Height)
		n++
	}
	return n, nil
}

func main() {
	outDir := flag.String("output", "textures", "Output directory")
	formatName := flag.String("format", "png", "Image format: png, tga or webp")
	scale := flag.Int("scale", 1, "Nearest-neighbour upscale factor")
	flag.Parse()

	format, err := texture.ParseFormat(*formatName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors, total := 0, 0
	for _, path := range flag.Args() {
		n, err := dumpFile(path, *outDir, format, *scale)
		total += n
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %v\n", err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s), %d textures written.\n", errors, total)
		os.Exit(1)
	}
	fmt.Printf("\nDone. %d textures written.\n", total)
}
