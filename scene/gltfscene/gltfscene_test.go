package gltfscene

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/scene/memscene"
	"github.com/mogaika/rigconv/utils/gltfutils"
)

// testDocument is a two joint chain skinning a quad, with one material
// and a translation animation on the second joint.
func testDocument() *gltf.Document {
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	normals := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	joints := modeler.WriteJoints(doc, [][4]uint16{{0, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 0}, {1, 0, 0, 0}})
	weights := modeler.WriteWeights(doc, [][4]float32{{1, 0, 0, 0}, {0.5, 0.5, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}})
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "skin",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0.5, 0.25, 1, 1},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(indices),
			Attributes: map[string]uint32{
				"POSITION":   positions,
				"NORMAL":     normals,
				"TEXCOORD_0": uvs,
				"JOINTS_0":   joints,
				"WEIGHTS_0":  weights,
			},
			Material: gltf.Index(0),
		}},
	})

	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "hips", Children: []uint32{1}, Translation: [3]float32{0, 1, 0}},
		&gltf.Node{Name: "spine", Translation: [3]float32{0, 1, 0}},
		&gltf.Node{Name: "body", Mesh: gltf.Index(0), Skin: gltf.Index(0)},
	)
	doc.Scenes[0].Nodes = []uint32{0, 2}
	doc.Skins = append(doc.Skins, &gltf.Skin{Joints: []uint32{0, 1}})

	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 0.5, 1})
	offsets := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}})
	doc.Animations = append(doc.Animations, &gltf.Animation{
		Name: "walk",
		Samplers: []*gltf.AnimationSampler{{
			Input:         gltf.Index(times),
			Output:        gltf.Index(offsets),
			Interpolation: gltf.InterpolationLinear,
		}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(0),
			Target:  gltf.ChannelTarget{Node: gltf.Index(1), Path: gltf.TRSTranslation},
		}},
	})
	return doc
}

func findNode(sc *memscene.Scene, name string) *memscene.Node {
	var found *memscene.Node
	sc.Walk(func(n *memscene.Node) {
		if found == nil && n.NodeName == name {
			found = n
		}
	})
	return found
}

func checkScene(t *testing.T, sc *memscene.Scene) {
	t.Helper()

	root := sc.RootNode
	if root.Name() != "scene" || len(root.Nodes) != 2 {
		t.Fatalf("unexpected root %q with %d children", root.Name(), len(root.Nodes))
	}

	kinds := map[string]scene.AttributeKind{
		"hips":  scene.AttributeSkeleton,
		"spine": scene.AttributeSkeleton,
		"body":  scene.AttributeMesh,
	}
	for name, kind := range kinds {
		n := findNode(sc, name)
		if n == nil {
			t.Fatalf("node %q not found", name)
		}
		if n.Kind != kind {
			t.Errorf("node %q kind %v; expected %v", name, n.Kind, kind)
		}
	}

	spine := findNode(sc, "spine")
	if pos := spine.Transform.Col(3).Vec3(); !pos.ApproxEqualThreshold(mgl32.Vec3{0, 2, 0}, 1e-5) {
		t.Errorf("spine global position %v", pos)
	}
	if rest, ok := spine.RestTransform(); !ok || rest.Col(3).Vec3() != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("spine rest %v %v", rest, ok)
	}
	if _, ok := findNode(sc, "body").RestTransform(); ok {
		t.Errorf("mesh node has a rest transform")
	}

	geom := findNode(sc, "body").Geometry
	if len(geom.Points) != 4 || geom.PolygonCount() != 2 {
		t.Fatalf("geometry has %d points and %d polygons", len(geom.Points), geom.PolygonCount())
	}
	if geom.PolygonVertex(1, 2) != 3 {
		t.Errorf("polygon 1 corner 2 is %d", geom.PolygonVertex(1, 2))
	}
	if geom.UVs == nil || geom.UVs.Direct[2] != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("unexpected uv layer %+v", geom.UVs)
	}
	if geom.Tangents != nil {
		t.Errorf("tangent layer without TANGENT attribute")
	}
	if m := geom.Mapping; m.Mapping != scene.ByPolygon || len(m.Index) != 2 {
		t.Errorf("unexpected material mapping %+v", m)
	}

	if len(geom.SkinList) != 1 {
		t.Fatalf("expected one skin, got %d", len(geom.SkinList))
	}
	clusters := geom.SkinList[0].ClusterList
	if len(clusters) != 2 || clusters[0].Joint != "hips" || clusters[1].Joint != "spine" {
		t.Fatalf("unexpected clusters %+v", clusters)
	}
	if len(clusters[0].PointIndices) != 3 || len(clusters[1].PointIndices) != 2 {
		t.Errorf("cluster sizes %d %d", len(clusters[0].PointIndices), len(clusters[1].PointIndices))
	}
	if clusters[1].PointIndices[0] != 1 || clusters[1].PointWeights[0] != 0.5 {
		t.Errorf("spine cluster %v %v", clusters[1].PointIndices, clusters[1].PointWeights)
	}

	mats := findNode(sc, "body").NodeMaterial
	if len(mats) != 1 || mats[0].MaterialName != "skin" {
		t.Fatalf("unexpected materials %+v", mats)
	}
	if mats[0].DiffuseColor != (mgl32.Vec3{0.5, 0.25, 1}) {
		t.Errorf("diffuse %v", mats[0].DiffuseColor)
	}

	if len(sc.Stacks) != 1 || sc.Stacks[0].Name() != "walk" {
		t.Fatalf("unexpected stacks %+v", sc.Stacks)
	}
	curve := sc.Stacks[0].Curve(0, spine, scene.Translation, 1)
	if curve == nil {
		t.Fatalf("spine translation y curve missing")
	}
	if d := curve.Duration(); d != 1 {
		t.Errorf("curve duration %v", d)
	}
	if v := curve.Evaluate(0.25); v != 1.5 {
		t.Errorf("Evaluate(0.25)=%v", v)
	}
	if sc.Stacks[0].Curve(0, spine, scene.Rotation, 0) != nil {
		t.Errorf("unexpected rotation curve")
	}
}

func TestFromDocument(t *testing.T) {
	sc, err := FromDocument(testDocument())
	if err != nil {
		t.Fatal(err)
	}
	checkScene(t, sc)
}

func TestLoadBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.glb")
	if err := gltfutils.SaveBinary(path, testDocument()); err != nil {
		t.Fatal(err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	checkScene(t, sc)
}

func TestRotationChannel(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "head"})
	doc.Skins = append(doc.Skins, &gltf.Skin{Joints: []uint32{0}})

	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	rotations := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{
		{0, 0, 0, 1},
		{q.V[0], q.V[1], q.V[2], q.W},
	})
	doc.Animations = append(doc.Animations, &gltf.Animation{
		Samplers: []*gltf.AnimationSampler{{Input: gltf.Index(times), Output: gltf.Index(rotations)}},
		Channels: []*gltf.Channel{{
			Sampler: gltf.Index(0),
			Target:  gltf.ChannelTarget{Node: gltf.Index(0), Path: gltf.TRSRotation},
		}},
	})

	sc, err := FromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Stacks) != 1 || sc.Stacks[0].Name() == "" {
		t.Fatalf("expected one named stack, got %+v", sc.Stacks)
	}
	head := findNode(sc, "head")
	curve := sc.Stacks[0].Curve(0, head, scene.Rotation, 2)
	if curve == nil {
		t.Fatalf("rotation z curve missing")
	}
	if v := curve.Evaluate(1); mgl32.Abs(v-90) > 1e-3 {
		t.Errorf("z rotation at end %v; expected 90", v)
	}
}

func TestMaterialTextures(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Images = append(doc.Images, &gltf.Image{URI: "skin_d.png"}, &gltf.Image{URI: "skin_n.png"})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(0)}, &gltf.Texture{Source: gltf.Index(1)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "skin",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
		NormalTexture: &gltf.NormalTexture{Index: gltf.Index(1)},
	})

	imp := &importer{doc: doc}
	m := imp.material(0)
	if files := m.TextureFiles[asset.TextureDiffuse]; len(files) != 1 || files[0] != "skin_d.png" {
		t.Errorf("diffuse textures %v", files)
	}
	if files := m.TextureFiles[asset.TextureNormal]; len(files) != 1 || files[0] != "skin_n.png" {
		t.Errorf("normal textures %v", files)
	}

	def := imp.material(-1)
	if def.MaterialName != "default" || def.DiffuseColor != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("unexpected default material %+v", def)
	}
}

func TestLocalMatrix(t *testing.T) {
	n := &gltf.Node{Translation: [3]float32{1, 2, 3}, Scale: [3]float32{2, 2, 2}}
	m := localMatrix(n)
	if p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3(); !p.ApproxEqualThreshold(mgl32.Vec3{3, 2, 3}, 1e-5) {
		t.Errorf("transformed point %v", p)
	}
	if m := localMatrix(&gltf.Node{}); m != mgl32.Ident4() {
		t.Errorf("empty node matrix %v", m)
	}
}
