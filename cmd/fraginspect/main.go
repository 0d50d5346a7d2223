package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"fragment-decoder/internal/container"
	"fragment-decoder/internal/fragment"
	"fragment-decoder/internal/model"
	"fragment-decoder/internal/texture"
)

func main() {
	verbose := flag.Bool("v", false, "Log decoder diagnostics")
	flag.Parse()

	opts := fragment.Options{}
	if *verbose {
		opts.Logf = log.Printf
	}

	status := 0
	for _, arg := range flag.Args() {
		if err := inspect(arg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error %s: %v\n", arg, err)
			status = 1
		}
	}
	os.Exit(status)
}

func inspect(path string, opts fragment.Options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	data, err := container.Unwrap(raw)
	if err != nil {
		return err
	}
	fmt.Printf("\n=== %s (%d bytes", path, len(raw))
	if container.IsCompressed(raw) {
		fmt.Printf(", %d unpacked", len(data))
	}
	fmt.Println(") ===")

	h, bh, err := fragment.Layout(data)
	if err != nil {
		return err
	}
	fmt.Printf("Header: data=0x%X reloc=0x%X size=0x%X\n", h.DataOffset, h.RelocOffset, h.FileSize)
	fmt.Printf("Bank:   base=0x%X textures=%d palettes=%d table=0x%X/0x%X stream=0x%X\n",
		bh.Base, bh.TextureCount, bh.PaletteCount, bh.TextureTable, bh.PaletteTable, bh.ObjectOffset)

	m, err := fragment.Decode(data, opts)
	if err != nil {
		// The partial model is still worth printing.
		fmt.Printf("Decode stopped: %v\n", err)
	}
	printSkeleton(&m.Skeleton)
	printMeshes(m, texture.NewCache(m))
	printMaterials(m)
	return nil
}

func printSkeleton(s *model.Skeleton) {
	fmt.Printf("--- Bones (%d) ---\n", len(s.Bones))
	for i, b := range s.Bones {
		fmt.Printf("  [%d] %s parent=%d pos=(%.0f,%.0f,%.0f) rot=(%.1f,%.1f,%.1f)deg scale=(%.3f,%.3f,%.3f)\n",
			i, b.Name, b.Parent,
			b.Position[0], b.Position[1], b.Position[2],
			deg(b.Rotation[0]), deg(b.Rotation[1]), deg(b.Rotation[2]),
			b.Scale[0], b.Scale[1], b.Scale[2])
	}
}

func printMeshes(m *model.Model, cache *texture.Cache) {
	fmt.Printf("--- Meshes (%d) ---\n", len(m.Meshes))
	for i, mesh := range m.Meshes {
		texInfo := "none"
		if tex := m.MeshTexture(mesh); tex != nil {
			texInfo = fmt.Sprintf("%s %s %dx%d", tex.Name, tex.Format, tex.Width, tex.Height)
			if img := cache.Resolve(tex.Name); img == nil {
				texInfo += " (undecodable)"
			}
		}
		if len(mesh.Vertices) == 0 {
			fmt.Printf("  [%d] %s: empty material=%s\n", i, mesh.Name, mesh.Material)
			continue
		}
		minV, maxV := mesh.Vertices[0].Position, mesh.Vertices[0].Position
		for _, v := range mesh.Vertices[1:] {
			for k := 0; k < 3; k++ {
				minV[k] = min(minV[k], v.Position[k])
				maxV[k] = max(maxV[k], v.Position[k])
			}
		}
		fmt.Printf("  [%d] %s: v=%d t=%d bone=%d material=%s tex=%s min=(%.0f,%.0f,%.0f) max=(%.0f,%.0f,%.0f)\n",
			i, mesh.Name, len(mesh.Vertices), len(mesh.Triangles), mesh.Bone, mesh.Material, texInfo,
			minV[0], minV[1], minV[2], maxV[0], maxV[1], maxV[2])
	}
}

func printMaterials(m *model.Model) {
	fmt.Printf("--- Materials (%d) / Textures (%d) ---\n", len(m.Materials), len(m.Textures))
	for _, mat := range m.Materials {
		diffuse := mat.Diffuse
		if diffuse == "" {
			diffuse = "-"
		}
		fmt.Printf("  %s: diffuse=%s wrap=%s/%s blend=%v\n", mat.Name, diffuse, mat.WrapS, mat.WrapT, mat.Blend)
	}
}

func deg(r float64) float64 { return r * 180 / math.Pi }
