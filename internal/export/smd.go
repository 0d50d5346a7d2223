package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"fragment-decoder/internal/model"
	"fragment-decoder/internal/texture"
)

// WriteSMD writes m as a Source engine SMD reference model. Each mesh gets
// a node of its own after the bones so it can be picked apart later.
// Triangles are labelled with the diffuse texture file name.
func WriteSMD(w io.Writer, m *model.Model, texExt string) error {
	bw := bufio.NewWriter(w)
	bones := len(m.Skeleton.Bones)

	fmt.Fprintln(bw, "version 1")
	fmt.Fprintln(bw, "nodes")
	for i, b := range m.Skeleton.Bones {
		fmt.Fprintf(bw, " %d %q %d\n", i, b.Name, b.Parent)
	}
	for i, mesh := range m.Meshes {
		fmt.Fprintf(bw, " %d %q -1\n", bones+i, mesh.Name)
	}
	fmt.Fprintln(bw, "end")

	fmt.Fprintln(bw, "skeleton")
	fmt.Fprintln(bw, "time 0")
	for i, b := range m.Skeleton.Bones {
		fmt.Fprintf(bw, " %d %s %s %s %s %s %s\n", i,
			num(b.Position[0]), num(b.Position[1]), num(b.Position[2]),
			num(b.Rotation[0]), num(b.Rotation[1]), num(b.Rotation[2]))
	}
	for i := range m.Meshes {
		fmt.Fprintf(bw, " %d 0 0 0 0 0 0\n", bones+i)
	}
	fmt.Fprintln(bw, "end")

	fmt.Fprintln(bw, "triangles")
	for i, mesh := range m.Meshes {
		label := smdMaterial(m, mesh, texExt)
		for _, tri := range mesh.Triangles {
			fmt.Fprintln(bw, label)
			for _, idx := range tri {
				if int(idx) >= len(mesh.Vertices) {
					return fmt.Errorf("export: %s references vertex %d of %d", mesh.Name, idx, len(mesh.Vertices))
				}
				writeSMDVertex(bw, bones+i, mesh.Vertices[idx])
			}
		}
	}
	fmt.Fprintln(bw, "end")
	return bw.Flush()
}

func smdMaterial(m *model.Model, mesh *model.Mesh, texExt string) string {
	if tex := m.MeshTexture(mesh); tex != nil {
		return tex.Name + texExt
	}
	return mesh.Name
}

func writeSMDVertex(w io.Writer, node int, v model.Vertex) {
	fmt.Fprintf(w, " %d %s %s %s %s %s %s %s %s", node,
		num32(v.Position[0]), num32(v.Position[1]), num32(v.Position[2]),
		num32(v.Normal[0]), num32(v.Normal[1]), num32(v.Normal[2]),
		num32(v.UV[0]), num32(v.UV[1]))

	n := 0
	for _, wt := range v.Weights {
		if wt != 0 {
			n++
		}
	}
	fmt.Fprintf(w, " %d", n)
	for k, wt := range v.Weights {
		if wt != 0 {
			fmt.Fprintf(w, " %d %s", v.Bones[k], num32(wt))
		}
	}
	fmt.Fprintln(w)
}

func num(v float64) string   { return strconv.FormatFloat(v, 'g', -1, 64) }
func num32(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// SaveSMD writes m to path and every texture its meshes use next to it,
// encoded as format.
func SaveSMD(path string, m *model.Model, res texture.Resolver, format texture.Format) error {
	dir := filepath.Dir(path)
	written := make(map[string]bool)
	for _, mesh := range m.Meshes {
		tex := m.MeshTexture(mesh)
		if tex == nil || written[tex.Name] {
			continue
		}
		written[tex.Name] = true
		img := res.Resolve(tex.Name)
		if img == nil {
			continue
		}
		if err := texture.WriteFile(filepath.Join(dir, tex.Name+format.Ext()), img, format); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteSMD(f, m, format.Ext()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
