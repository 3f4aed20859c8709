package fbxpreview

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rigconv/asset"
)

func previewAsset() *asset.Asset {
	a := asset.New("hero")
	a.Skeleton.AddJoint("root", 0)
	a.Skeleton.AddJoint("arm", 0)
	a.Vertices = []asset.Vertex{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
	}
	a.Triangles = []asset.Triangle{{VertexIndices: [3]uint32{0, 1, 2}}}
	a.Materials = []asset.Material{asset.DefaultMaterial()}
	a.IndexBuffers = []asset.IndexBuffer{{Triangles: [][3]uint32{{0, 1, 2}}}}
	return a
}

func TestAddAsset(t *testing.T) {
	b := NewBuilder("hero.fbx").AddAsset(previewAsset(), 1)

	tests := []struct {
		name  string
		count int
	}{
		{"Model", 4}, // root null, 2 joints, mesh
		{"NodeAttribute", 2},
		{"Geometry", 1},
		{"Material", 1},
	}
	for _, tc := range tests {
		if n := b.CountObjects(tc.name); n != tc.count {
			t.Errorf("%s objects %d; expected %d", tc.name, n, tc.count)
		}
	}
}

func TestAddAssetSkeletonOnly(t *testing.T) {
	a := previewAsset()
	a.Vertices = nil
	b := NewBuilder("hero.fbx").AddAsset(a, 1)
	if n := b.CountObjects("Geometry"); n != 0 {
		t.Errorf("geometry without vertices: %d", n)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBuilder("hero.fbx").AddAsset(previewAsset(), 2).Write(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

func TestDefinitionsFollowObjects(t *testing.T) {
	b := NewBuilder("hero.fbx").AddAsset(previewAsset(), 1)
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		t.Fatal(err)
	}

	definitions := b.Root().GetNode("Definitions")
	if total := definitions.GetNode("Count").Properties[0].(int32); total != 8 {
		t.Errorf("total count %d; expected 8", total)
	}
	expected := []struct {
		name     string
		count    int32
		template bool
	}{
		{"Model", 4, true},
		{"NodeAttribute", 2, false},
		{"Geometry", 1, false},
		{"Material", 1, true},
	}
	types := definitions.GetNodes("ObjectType")
	if len(types) != len(expected) {
		t.Fatalf("%d object types; expected %d", len(types), len(expected))
	}
	for i, e := range expected {
		ot := types[i]
		if ot.Properties[0].(string) != e.name || ot.GetNode("Count").Properties[0].(int32) != e.count {
			t.Errorf("type %d = %v count %v; expected %s %d", i, ot.Properties[0], ot.GetNode("Count").Properties, e.name, e.count)
		}
		if (ot.GetNode("PropertyTemplate") != nil) != e.template {
			t.Errorf("%s template presence wrong", e.name)
		}
	}
	if b.Root().GetNode("Takes") != nil || b.Root().GetNode("References") != nil {
		t.Errorf("unused sections emitted")
	}
}
