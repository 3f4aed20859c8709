// Package fbxpreview builds a binary FBX scene out of a converted asset so
// the result can be checked in any DCC tool.
package fbxpreview

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
)

const creator = "rigconv fbx preview"

// fixed so repeated exports are byte identical
var fileId = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// propertyTemplates are the defaults declared for object types that rely on
// them. Every other emitted type gets a bare counter in Definitions.
var propertyTemplates = map[string]func() *fbx.Node{
	"Model": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxNode").AddNodes(
			bfbx73.Properties70().AddNodes(lclTransform(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})...),
		)
	},
	"Material": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxSurfacePhong").AddNodes(
			bfbx73.Properties70().AddNodes(
				bfbx73.P("ShadingModel", "KString", "", "", "Phong"),
				colorP("DiffuseColor", mgl32.Vec3{1, 1, 1}),
			),
		)
	},
}

type Builder struct {
	f      *fbx.FBX
	lastId int64

	definitions *fbx.Node
	objects     *fbx.Node
	connections *fbx.Node
}

func NewBuilder(filename string) *Builder {
	b := &Builder{
		f:           fbx.NewFBX(7400),
		lastId:      1000000,
		definitions: bfbx73.Definitions(),
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
	}
	b.Root().AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(7400),
			bfbx73.Creator(creator),
			bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
				bfbx73.Type("UserData"),
				bfbx73.Version(100),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)),
				),
			),
		),
		bfbx73.FileId(fileId),
		bfbx73.Creator(creator),
		// y up, centimeters
		bfbx73.GlobalSettings().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("UpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
			),
		),
		b.definitions,
		b.objects,
		b.connections,
	)
	return b
}

// fillDefinitions declares every object type present, in order of first
// appearance, with its count.
func (b *Builder) fillDefinitions() {
	counts := make(map[string]int32)
	var order []string
	for _, object := range b.objects.Nodes {
		if _, ok := counts[object.Name]; !ok {
			order = append(order, object.Name)
		}
		counts[object.Name]++
	}

	total := int32(0)
	types := make([]*fbx.Node, 0, len(order))
	for _, name := range order {
		total += counts[name]
		ot := bfbx73.ObjectType(name).AddNodes(bfbx73.Count(counts[name]))
		if template, ok := propertyTemplates[name]; ok {
			ot.AddNodes(template())
		}
		types = append(types, ot)
	}

	b.definitions.Nodes = nil
	b.definitions.AddNodes(bfbx73.Version(100), bfbx73.Count(total))
	b.definitions.AddNodes(types...)
}

func (b *Builder) Root() *fbx.Node { return &b.f.Root }

func (b *Builder) GenerateId() int64 {
	b.lastId++
	return b.lastId
}

func (b *Builder) AddObjects(nodes ...*fbx.Node)     { b.objects.AddNodes(nodes...) }
func (b *Builder) AddConnections(nodes ...*fbx.Node) { b.connections.AddNodes(nodes...) }

// CountObjects returns how many objects named name were added.
func (b *Builder) CountObjects(name string) int {
	n := 0
	for _, object := range b.objects.Nodes {
		if object.Name == name {
			n++
		}
	}
	return n
}

// Write encodes the scene. fbx.Write needs a seekable file, so the data goes
// through a temporary file first.
func (b *Builder) Write(w io.Writer) error {
	b.fillDefinitions()

	tempFile, err := os.CreateTemp("", "rigconv.*.fbx")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := fbx.Write(tempFile, b.f); err != nil {
		return errors.Wrap(err, "encoding fbx")
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "unable to seek")
	}
	_, err = io.Copy(w, tempFile)
	return err
}
