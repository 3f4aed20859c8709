package convert

import (
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
)

// ConvertMaterial copies shading properties. Only the first texture bound to a kind is kept.
func ConvertMaterial(m scene.Material) asset.Material {
	mat := asset.Material{
		Name:           m.Name(),
		Ambient:        m.Ambient(),
		Diffuse:        m.Diffuse(),
		Specular:       m.Specular(),
		Emissive:       m.Emissive(),
		Transparency:   m.TransparencyFactor(),
		Reflection:     m.ReflectionFactor(),
		SpecularFactor: m.SpecularFactor(),
		Textures:       make(asset.TextureMaps),
	}
	for _, kind := range asset.TextureKinds {
		if paths := m.Textures()[kind]; len(paths) != 0 {
			mat.Textures.Set(kind, paths[0])
		}
	}
	return mat
}

// AssignMaterials sets the raw material index of every triangle from the
// node's material mapping. polygons maps triangles to source polygons.
// A per-polygon mapping whose length differs from polygonCount is rejected
// and the triangles stay on material 0.
func AssignMaterials(mapping *scene.MaterialMapping, triangles []asset.Triangle, polygons []int, polygonCount, materialCount int, report *Report) {
	for i := range triangles {
		triangles[i].MaterialIndex = 0
	}
	if mapping == nil {
		return
	}

	valid := func(index int) bool {
		if index < 0 || index >= materialCount {
			report.Warn(errors.Wrapf(ErrMappingMismatch, "material index %d out of %d materials", index, materialCount))
			return false
		}
		return true
	}

	switch mapping.Mapping {
	case scene.AllSame:
		if len(mapping.Index) == 0 {
			return
		}
		if index := mapping.Index[0]; valid(index) {
			for i := range triangles {
				triangles[i].MaterialIndex = index
			}
		}
	case scene.ByPolygon:
		if len(mapping.Index) != polygonCount {
			report.Warn(errors.Wrapf(ErrMappingMismatch,
				"per polygon material array has %d entries for %d polygons", len(mapping.Index), polygonCount))
			return
		}
		for i := range triangles {
			if index := mapping.Index[polygons[i]]; valid(index) {
				triangles[i].MaterialIndex = index
			}
		}
	default:
		report.Warn(errors.Wrapf(ErrMappingMismatch, "unsupported material mapping mode %d", mapping.Mapping))
	}
}

// PartitionMaterials drops materials without triangles, remaps the rest to
// dense slots in their original order, rewrites triangle material indices to
// those slots and returns one index buffer per surviving material.
// Triangles with an index outside materials go to material 0; a default
// material is used when there are triangles but no materials.
func PartitionMaterials(materials []asset.Material, triangles []asset.Triangle) ([]asset.Material, []asset.IndexBuffer) {
	if len(materials) == 0 && len(triangles) != 0 {
		materials = []asset.Material{asset.DefaultMaterial()}
	}

	counts := make([]int, len(materials))
	for i := range triangles {
		if triangles[i].MaterialIndex < 0 || triangles[i].MaterialIndex >= len(materials) {
			triangles[i].MaterialIndex = 0
		}
		counts[triangles[i].MaterialIndex]++
	}

	slots := make([]int, len(materials))
	compacted := make([]asset.Material, 0, len(materials))
	buffers := make([]asset.IndexBuffer, 0, len(materials))
	for i, count := range counts {
		if count == 0 {
			slots[i] = -1
			continue
		}
		slots[i] = len(compacted)
		buffers = append(buffers, asset.IndexBuffer{
			MaterialSlot: len(compacted),
			Triangles:    make([][3]uint32, 0, count),
		})
		compacted = append(compacted, materials[i])
	}

	for i := range triangles {
		slot := slots[triangles[i].MaterialIndex]
		triangles[i].MaterialIndex = slot
		buffers[slot].Triangles = append(buffers[slot].Triangles, triangles[i].VertexIndices)
	}

	return compacted, buffers
}
