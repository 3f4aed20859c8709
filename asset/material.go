package asset

import "github.com/go-gl/mathgl/mgl32"

type TextureKind int

const (
	TextureDiffuse TextureKind = iota
	TextureNormal
	TextureSpecular
	TextureRoughness
	TextureMetallic
	TextureEmissive
	TextureAmbientOcclusion
)

// TextureKinds lists every kind in document order.
var TextureKinds = []TextureKind{
	TextureDiffuse,
	TextureNormal,
	TextureSpecular,
	TextureRoughness,
	TextureMetallic,
	TextureEmissive,
	TextureAmbientOcclusion,
}

var textureKindTags = map[TextureKind]string{
	TextureDiffuse:          "D",
	TextureNormal:           "N",
	TextureSpecular:         "S",
	TextureRoughness:        "R",
	TextureMetallic:         "M",
	TextureEmissive:         "E",
	TextureAmbientOcclusion: "A",
}

var textureKindNames = map[TextureKind]string{
	TextureDiffuse:          "diffuse",
	TextureNormal:           "normal",
	TextureSpecular:         "specular",
	TextureRoughness:        "roughness",
	TextureMetallic:         "metallic",
	TextureEmissive:         "emissive",
	TextureAmbientOcclusion: "ambient_occlusion",
}

// Tag is the single letter used in mesh documents.
func (k TextureKind) Tag() string { return textureKindTags[k] }

func (k TextureKind) String() string { return textureKindNames[k] }

func TextureKindFromTag(tag string) (TextureKind, bool) {
	for k, t := range textureKindTags {
		if t == tag {
			return k, true
		}
	}
	return 0, false
}

// TextureMaps is the set of texture kinds bound to a material, with their file paths.
type TextureMaps map[TextureKind]string

func (tm TextureMaps) Has(kind TextureKind) bool {
	_, ok := tm[kind]
	return ok
}

// Set binds path to kind. The first path bound to a kind is kept.
func (tm TextureMaps) Set(kind TextureKind, path string) {
	if _, ok := tm[kind]; !ok {
		tm[kind] = path
	}
}

type Material struct {
	Name string

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
	Emissive mgl32.Vec3

	Transparency   float32
	Reflection     float32
	SpecularFactor float32

	Textures TextureMaps
}

func DefaultMaterial() Material {
	return Material{
		Name:           "default",
		Ambient:        mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:        mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:       mgl32.Vec3{0.2, 0.2, 0.2},
		SpecularFactor: 1,
		Textures:       make(TextureMaps),
	}
}
