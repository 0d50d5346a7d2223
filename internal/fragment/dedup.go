package fragment

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"fragment-decoder/internal/model"
)

// Dedup collapses textures whose primary mip bytes are identical, renames
// the survivors texture_0..n in bank order and rewrites every material's
// diffuse reference. It returns the number of textures dropped.
func Dedup(m *model.Model) int {
	buckets := make(map[uint64][]*model.Texture)
	renamed := make(map[string]string, len(m.Textures))
	kept := m.Textures[:0:0]

	for _, tex := range m.Textures {
		data := tex.Primary()
		h := xxhash.Sum64(data)

		var match *model.Texture
		for _, cand := range buckets[h] {
			if bytes.Equal(cand.Primary(), data) {
				match = cand
				break
			}
		}
		if match != nil {
			renamed[tex.Name] = match.Name
			continue
		}

		newName := fmt.Sprintf("texture_%d", len(kept))
		renamed[tex.Name] = newName
		tex.Name = newName
		buckets[h] = append(buckets[h], tex)
		kept = append(kept, tex)
	}

	dropped := len(m.Textures) - len(kept)
	m.Textures = kept
	for _, mat := range m.Materials {
		if mat.Diffuse != "" {
			mat.Diffuse = renamed[mat.Diffuse]
		}
	}
	return dropped
}
