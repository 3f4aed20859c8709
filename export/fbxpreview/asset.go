package fbxpreview

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/utils"
)

func lclTransform(pos, rot, scale mgl32.Vec3) []*fbx.Node {
	return []*fbx.Node{
		bfbx73.P("Lcl Translation", "Lcl Translation", "", "A",
			float64(pos[0]), float64(pos[1]), float64(pos[2])),
		bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A",
			float64(rot[0]), float64(rot[1]), float64(rot[2])),
		bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A",
			float64(scale[0]), float64(scale[1]), float64(scale[2])),
	}
}

func colorP(name string, c mgl32.Vec3) *fbx.Node {
	return bfbx73.P(name, "Color", "", "A", float64(c[0]), float64(c[1]), float64(c[2]))
}

// AddAsset adds a null model for a with its joints as limb nodes and the
// partitioned mesh below it. Positions are multiplied by scale.
func (b *Builder) AddAsset(a *asset.Asset, scale float32) *Builder {
	sk := a.Skeleton
	rootId := b.GenerateId()
	b.AddObjects(bfbx73.Model(rootId, a.Name+"\x00\x01Model", "Null").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(lclTransform(sk.WorldPosition.Mul(scale), sk.WorldRotation, sk.WorldScale)...),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	))
	b.AddConnections(bfbx73.C("OO", rootId, 0))

	b.addJoints(sk, rootId, scale)
	if len(a.Vertices) != 0 {
		b.addMesh(a, rootId, scale)
	}
	return b
}

func (b *Builder) addJoints(sk *asset.Skeleton, rootId int64, scale float32) {
	jointIds := make([]int64, sk.Len())
	for i := range sk.Joints {
		j := &sk.Joints[i]
		jointIds[i] = b.GenerateId()

		model := bfbx73.Model(jointIds[i], j.Name+"\x00\x01Model", "LimbNode").AddNodes(
			bfbx73.Version(232),
			bfbx73.Properties70().AddNodes(lclTransform(j.LocalPosition.Mul(scale), j.LocalRotation, j.LocalScale)...),
			bfbx73.Shading(true),
			bfbx73.Culling("CullingOff"),
		)
		attribute := bfbx73.NodeAttribute(b.GenerateId(), j.Name+"\x00\x01NodeAttribute", "LimbNode").AddNodes(
			bfbx73.TypeFlags("Skeleton"),
		)
		b.AddObjects(model, attribute)
		b.AddConnections(bfbx73.C("OO", attribute.Properties[0].(int64), jointIds[i]))

		parentId := rootId
		if i != 0 {
			parentId = jointIds[j.ParentIndex]
		}
		b.AddConnections(bfbx73.C("OO", jointIds[i], parentId))
	}
}

func (b *Builder) addMesh(a *asset.Asset, rootId int64, scale float32) {
	vertices32 := make([]float32, 0, len(a.Vertices)*3)
	normals32 := make([]float32, 0, len(a.Vertices)*3)
	uv32 := make([]float32, 0, len(a.Vertices)*2)
	for i := range a.Vertices {
		v := &a.Vertices[i]
		pos := v.Position.Mul(scale)
		vertices32 = append(vertices32, pos[:]...)
		normals32 = append(normals32, v.Normal[:]...)
		// undo the top-left origin flip
		uv32 = append(uv32, v.UV[0], 1-v.UV[1])
	}
	vertices := utils.FloatArray32to64(vertices32)
	normals := utils.FloatArray32to64(normals32)
	uv := utils.FloatArray32to64(uv32)

	indexes := make([]int32, 0, len(a.Triangles)*3)
	uvindexes := make([]int32, 0, len(a.Triangles)*3)
	materials := make([]int32, 0, len(a.Triangles))
	for _, ib := range a.IndexBuffers {
		for _, tri := range ib.Triangles {
			// a negative index closes the polygon
			indexes = append(indexes, int32(tri[0]), int32(tri[1]), -int32(tri[2])-1)
			uvindexes = append(uvindexes, int32(tri[0]), int32(tri[1]), int32(tri[2]))
			materials = append(materials, int32(ib.MaterialSlot))
		}
	}

	geometryId := b.GenerateId()
	geometry := bfbx73.Geometry(geometryId, a.Name+"\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indexes),
		bfbx73.LayerElementNormal(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByVertice"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Normals(normals),
		),
		bfbx73.LayerElementUV(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.UV(uv),
			bfbx73.UVIndex(uvindexes),
		),
		bfbx73.LayerElementMaterial(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygon"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.Materials(materials),
		),
		bfbx73.Layer(0).AddNodes(
			bfbx73.Version(100),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementNormal"),
				bfbx73.TypedIndex(0),
			),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementUV"),
				bfbx73.TypedIndex(0),
			),
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementMaterial"),
				bfbx73.TypedIndex(0),
			),
		),
	)

	modelId := b.GenerateId()
	model := bfbx73.Model(modelId, a.Name+"\x00\x01Model", "Mesh").AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)

	b.AddObjects(model, geometry)
	b.AddConnections(
		bfbx73.C("OO", geometryId, modelId),
		bfbx73.C("OO", modelId, rootId),
	)

	// material order on the model defines the slot numbers
	for i := range a.Materials {
		m := &a.Materials[i]
		materialId := b.GenerateId()
		b.AddObjects(bfbx73.Material(materialId, m.Name+"\x00\x01Material", "").AddNodes(
			bfbx73.Version(102),
			bfbx73.ShadingModel("phong"),
			bfbx73.MultiLayer(0),
			bfbx73.Properties70().AddNodes(
				colorP("AmbientColor", m.Ambient),
				colorP("DiffuseColor", m.Diffuse),
				colorP("SpecularColor", m.Specular),
				colorP("EmissiveColor", m.Emissive),
				bfbx73.P("TransparencyFactor", "Number", "", "A", float64(m.Transparency)),
				bfbx73.P("ReflectionFactor", "Number", "", "A", float64(m.Reflection)),
				bfbx73.P("Shininess", "Number", "", "A", float64(m.SpecularFactor)),
			),
		))
		b.AddConnections(bfbx73.C("OO", materialId, modelId))
	}
}
