package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/rigconv/asset"
)

func testAsset() *asset.Asset {
	a := asset.New("hero")
	a.Skeleton.AddJoint("root", 0)
	a.Skeleton.AddJoint("left arm", 0)
	a.Skeleton.Joints[1].LocalPosition = mgl32.Vec3{0, 1.5, 0}
	a.Skeleton.Joints[1].LocalRotation = mgl32.Vec3{0, 0, 90}
	a.Skeleton.SetWorld(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{10, 20, 30}, mgl32.Vec3{1, 1, 1})

	mat := asset.DefaultMaterial()
	mat.Name = "skin"
	mat.Textures.Set(asset.TextureNormal, "skin_n.png")
	mat.Textures.Set(asset.TextureDiffuse, "skin.png")
	a.Materials = []asset.Material{mat}

	a.Vertices = []asset.Vertex{
		{Position: mgl32.Vec3{1, 2, 3}, Normal: mgl32.Vec3{0, 1, 0}, UV: mgl32.Vec2{0.2, 0.2},
			JointIndices: [4]uint32{1}, JointWeights: [4]float32{1}},
		{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{0, 0, 1}, Normal: mgl32.Vec3{0, 1, 0}},
	}
	a.Triangles = []asset.Triangle{{VertexIndices: [3]uint32{0, 1, 2}}}
	a.IndexBuffers = []asset.IndexBuffer{{MaterialSlot: 0, Triangles: [][3]uint32{{0, 1, 2}}}}

	clip := asset.NewAnimationClip("walk", 30, 2)
	clip.Frame(4).Poses[1].Translation = mgl32.Vec3{0, 1, 0}
	clip.Frame(0).Poses[0].Rotation = mgl32.Vec3{0, 0, 45}
	a.Clips = []*asset.AnimationClip{clip}
	return a
}

func scaled(scale float32) Config {
	cfg := DefaultConfig()
	cfg.Scale = scale
	return cfg
}

func TestWriteSkeleton(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSkeleton(&buf, testAsset().Skeleton, scaled(2)); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{
		"<size>", "2", "</size>",
		"<global>", "p 2.000 0.000 0.000", "r 10.000 20.000 30.000", "s 1.000 1.000 1.000", "</global>",
		"<joint>", "root 0 0", "p 0.000 0.000 0.000", "r 0.000 0.000 0.000", "s 1.000 1.000 1.000", "</joint>",
		"<joint>", "left_arm 1 0", "p 0.000 3.000 0.000", "r 0.000 0.000 90.000", "s 1.000 1.000 1.000", "</joint>",
	}, "\n") + "\n"
	if buf.String() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestWriteSkeletonVicon(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Vicon = true
	if err := WriteSkeleton(&buf, testAsset().Skeleton, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\nr -80.000 200.000 30.000\n") {
		t.Errorf("vicon world rotation missing:\n%s", buf.String())
	}
}

func TestWriteMesh(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMesh(&buf, testAsset(), scaled(2)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, line := range []string{
		"<name>\nhero\n</name>\n",
		"<buffer>\nv 3\ne 1\nm 1\n</buffer>\n",
		"n skin\nD skin.png\nN skin_n.png\na 0.200 0.200 0.200\n",
		"x 0.000\ny 0.000\nz 1.000\n</material>\n",
		"<vertex>\nv 2.000 4.000 6.000\nn 0.000 1.000 0.000\nt 0.000 0.000 0.000\nu 0.200 0.200\nj 1 0 0 0\nb 1.000 0.000 0.000 0.000\n",
		"<ebo>\ns 3\nm 0\n- 0 1 2\n</ebo>\n",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q in:\n%s", line, out)
		}
	}
	if n := strings.Count(out, "\nt "); n != 3 {
		t.Errorf("%d vertex tangent lines", n)
	}
}

func TestWriteAnimation(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnimation(&buf, testAsset().Clips[0], scaled(2)); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{
		"<framerate>", "30.000", "</framerate>",
		"<buffer>", "j 2", "f 2", "</buffer>",
		"<animation>", "- 0", "r 0.000 0.000 45.000", "p 0.000 0.000 0.000", "r 0.000 0.000 0.000", "p 0.000 0.000 0.000", "</animation>",
		"<animation>", "- 1", "r 0.000 0.000 0.000", "p 0.000 0.000 0.000", "r 0.000 0.000 0.000", "p 0.000 2.000 0.000", "</animation>",
	}, "\n") + "\n"
	if buf.String() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in  float32
		out string
	}{
		{0, "0.000"},
		{-0.0001, "0.000"},
		{1.23456, "1.235"},
		{-2.5, "-2.500"},
	}
	for _, tc := range tests {
		if got := formatFloat(tc.in); got != tc.out {
			t.Errorf("formatFloat(%v) = %q; expected %q", tc.in, got, tc.out)
		}
	}
}

func TestCharmapNames(t *testing.T) {
	a := testAsset()
	a.Name = "héros"
	cfg := DefaultConfig()
	cfg.Charmap = charmap.Windows1252

	var buf bytes.Buffer
	if err := WriteMesh(&buf, a, cfg); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("h\xe9ros")) {
		t.Errorf("name not encoded: %q", buf.String()[:32])
	}
}

func TestParseArtifacts(t *testing.T) {
	set, err := ParseArtifacts("mesh, skeleton")
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has(ArtifactMesh) || !set.Has(ArtifactSkeleton) || set.Has(ArtifactAnimation) {
		t.Errorf("set %v", set)
	}
	if set.String() != "mesh,skeleton" {
		t.Errorf("String() = %q", set.String())
	}
	if all, _ := ParseArtifacts("all"); len(all) != 4 {
		t.Errorf("all gave %v", all)
	}
	if _, err := ParseArtifacts("textures"); err == nil {
		t.Errorf("unknown artifact accepted")
	}
}

func TestWriteFilesIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := scaled(1.5)

	written, failed := WriteFiles(dir, testAsset(), cfg)
	if len(failed) != 0 {
		t.Fatal(failed)
	}
	expected := []string{
		filepath.Join(dir, "hero.skeleton"),
		filepath.Join(dir, "hero.mesh"),
		filepath.Join(dir, "hero_walk.anim"),
	}
	if strings.Join(written, ";") != strings.Join(expected, ";") {
		t.Fatalf("written %v; expected %v", written, expected)
	}

	first := make([][]byte, len(written))
	for i, path := range written {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		first[i] = data
	}

	if _, failed := WriteFiles(dir, testAsset(), cfg); len(failed) != 0 {
		t.Fatal(failed)
	}
	for i, path := range written {
		data, _ := os.ReadFile(path)
		if !bytes.Equal(first[i], data) {
			t.Errorf("%s differs between runs", path)
		}
	}
}

func TestWriteFilesEngineNaming(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Naming = NamingEngine

	written, failed := WriteFiles(dir, testAsset(), cfg)
	if len(failed) != 0 {
		t.Fatal(failed)
	}
	expected := []string{
		filepath.Join(dir, "skeleton.ddb"),
		filepath.Join(dir, "hero.ddm"),
		filepath.Join(dir, "hero_walk.dda"),
	}
	if strings.Join(written, ";") != strings.Join(expected, ";") {
		t.Fatalf("written %v; expected %v", written, expected)
	}
	for i, kind := range []Artifact{ArtifactSkeleton, ArtifactMesh, ArtifactAnimation} {
		if got, ok := DocumentKind(written[i]); !ok || got != kind {
			t.Errorf("DocumentKind(%q) = %v %v", written[i], got, ok)
		}
	}
}

func TestParseNaming(t *testing.T) {
	tests := map[string]Naming{"": NamingDefault, "default": NamingDefault, " Engine ": NamingEngine}
	for in, out := range tests {
		if n, err := ParseNaming(in); err != nil || n != out {
			t.Errorf("ParseNaming(%q) = %v %v", in, n, err)
		}
	}
	if _, err := ParseNaming("ddb"); err == nil {
		t.Errorf("unknown naming accepted")
	}
	if _, ok := DocumentKind("notes.txt"); ok {
		t.Errorf("txt recognized as a document")
	}
}

func TestWriteFilesIOFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "dir")
	written, failed := WriteFiles(missing, testAsset(), DefaultConfig())
	if len(written) != 0 {
		t.Errorf("written %v", written)
	}
	if len(failed) != 3 {
		t.Fatalf("expected one failure per artifact, got %v", failed)
	}
	for _, err := range failed {
		if errors.Cause(err) != ErrIO {
			t.Errorf("failure %v is not ErrIO", err)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"hero":        "hero",
		" run cycle ": "run_cycle",
		"a/b:c":       "a_b_c",
		"":            "unnamed",
		"..":          "unnamed",
	}
	for in, out := range tests {
		if got := FileName(in); got != out {
			t.Errorf("FileName(%q) = %q; expected %q", in, got, out)
		}
	}
}
