package export

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
)

func WriteMesh(w io.Writer, a *asset.Asset, cfg Config) error {
	tw := newTagWriter(w, cfg)

	tw.block("name", tw.token(a.Name))

	tw.open("buffer")
	tw.printf("v %d\n", len(a.Vertices))
	tw.printf("e %d\n", len(a.IndexBuffers))
	tw.printf("m %d\n", len(a.Materials))
	tw.close("buffer")

	for i := range a.Materials {
		writeMaterial(tw, &a.Materials[i])
	}

	tw.open("vertex")
	for i := range a.Vertices {
		v := &a.Vertices[i]
		tw.vec3("v", v.Position.Mul(cfg.Scale))
		tw.vec3("n", v.Normal)
		tw.vec3("t", v.Tangent)
		tw.printf("u %s %s\n", formatFloat(v.UV[0]), formatFloat(v.UV[1]))
		tw.printf("j %d %d %d %d\n", v.JointIndices[0], v.JointIndices[1], v.JointIndices[2], v.JointIndices[3])
		tw.printf("b %s %s %s %s\n", formatFloat(v.JointWeights[0]), formatFloat(v.JointWeights[1]),
			formatFloat(v.JointWeights[2]), formatFloat(v.JointWeights[3]))
	}
	tw.close("vertex")

	for i := range a.IndexBuffers {
		ib := &a.IndexBuffers[i]
		tw.open("ebo")
		tw.printf("s %d\n", ib.IndexCount())
		tw.printf("m %d\n", ib.MaterialSlot)
		for _, tri := range ib.Triangles {
			tw.printf("- %d %d %d\n", tri[0], tri[1], tri[2])
		}
		tw.close("ebo")
	}

	return errors.Wrapf(tw.flush(), "writing mesh %q", a.Name)
}

func writeMaterial(tw *tagWriter, m *asset.Material) {
	tw.open("material")
	tw.printf("n %s\n", tw.token(m.Name))
	for _, kind := range asset.TextureKinds {
		if path, ok := m.Textures[kind]; ok {
			tw.printf("%s %s\n", kind.Tag(), tw.token(path))
		}
	}
	tw.vec3("a", m.Ambient)
	tw.vec3("d", m.Diffuse)
	tw.vec3("s", m.Specular)
	tw.vec3("e", m.Emissive)
	tw.float("x", m.Transparency)
	tw.float("y", m.Reflection)
	tw.float("z", m.SpecularFactor)
	tw.close("material")
}
