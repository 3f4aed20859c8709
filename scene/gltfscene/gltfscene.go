// Package gltfscene loads glTF 2.0 files into a memscene.Scene.
package gltfscene

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/scene/memscene"
	"github.com/mogaika/rigconv/utils"
)

func Load(path string) (*memscene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	return FromDocument(doc)
}

type importer struct {
	doc   *gltf.Document
	names utils.RandomNameGenerator

	nodeNames []string
	parents   []int
	joints    map[uint32]bool
	nodes     []*memscene.Node
}

// FromDocument builds a scene out of doc. Nodes referenced by a skin become
// skeleton nodes, nodes with a mesh become mesh nodes. Unnamed nodes,
// materials and animations get generated names.
func FromDocument(doc *gltf.Document) (*memscene.Scene, error) {
	imp := &importer{
		doc:       doc,
		nodeNames: make([]string, len(doc.Nodes)),
		parents:   make([]int, len(doc.Nodes)),
		joints:    make(map[uint32]bool),
		nodes:     make([]*memscene.Node, len(doc.Nodes)),
	}

	for i := range imp.parents {
		imp.parents[i] = -1
	}
	for i, n := range doc.Nodes {
		imp.nodeNames[i] = imp.names.NameOr(n.Name)
		for _, child := range n.Children {
			if int(child) >= len(doc.Nodes) {
				return nil, errors.Errorf("node %d has invalid child %d", i, child)
			}
			imp.parents[child] = i
		}
	}
	for _, skin := range doc.Skins {
		for _, j := range skin.Joints {
			imp.joints[j] = true
		}
	}

	for i, n := range doc.Nodes {
		kind := scene.AttributeNone
		if imp.joints[uint32(i)] {
			kind = scene.AttributeSkeleton
		} else if n.Mesh != nil {
			kind = scene.AttributeMesh
		}
		node := memscene.NewNode(imp.nodeNames[i], kind)
		node.Transform = imp.globalMatrix(i)
		if kind == scene.AttributeSkeleton {
			rest := localMatrix(n)
			node.Rest = &rest
		}
		imp.nodes[i] = node
	}
	for i, n := range doc.Nodes {
		for _, child := range n.Children {
			imp.nodes[i].AddChildren(imp.nodes[child])
		}
		if imp.nodes[i].Kind == scene.AttributeMesh {
			if err := imp.loadMesh(uint32(i), imp.nodes[i]); err != nil {
				return nil, errors.Wrapf(err, "mesh of node %q", imp.nodeNames[i])
			}
		}
	}

	root := memscene.NewNode("scene", scene.AttributeNone)
	for _, i := range imp.rootNodes() {
		if int(i) >= len(imp.nodes) {
			return nil, errors.Errorf("scene references invalid node %d", i)
		}
		root.AddChildren(imp.nodes[i])
	}

	sc := &memscene.Scene{RootNode: root}
	for _, anim := range doc.Animations {
		stack, err := imp.loadAnimation(anim)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q", anim.Name)
		}
		sc.Stacks = append(sc.Stacks, stack)
	}
	return sc, nil
}

func (imp *importer) rootNodes() []uint32 {
	doc := imp.doc
	if len(doc.Scenes) != 0 {
		s := doc.Scenes[0]
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = doc.Scenes[*doc.Scene]
		}
		if len(s.Nodes) != 0 {
			return s.Nodes
		}
	}
	roots := make([]uint32, 0)
	for i, parent := range imp.parents {
		if parent < 0 {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// localMatrix treats a zero valued matrix, rotation or scale as absent.
func localMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != [16]float32{} && mgl32.Mat4(n.Matrix) != mgl32.Ident4() {
		return mgl32.Mat4(n.Matrix)
	}

	t := n.Translation
	m := mgl32.Translate3D(t[0], t[1], t[2])
	if r := n.Rotation; r != [4]float32{} {
		m = m.Mul4(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4())
	}
	if s := n.Scale; s != [3]float32{} {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

func (imp *importer) globalMatrix(node int) mgl32.Mat4 {
	m := localMatrix(imp.doc.Nodes[node])
	// parent links come from the document, guard against cycles
	for p, depth := imp.parents[node], 0; p >= 0 && depth < len(imp.parents); p, depth = imp.parents[p], depth+1 {
		m = localMatrix(imp.doc.Nodes[p]).Mul4(m)
	}
	return m
}

func (imp *importer) textureFile(texture uint32) string {
	doc := imp.doc
	if int(texture) >= len(doc.Textures) || doc.Textures[texture].Source == nil {
		return ""
	}
	source := *doc.Textures[texture].Source
	if int(source) >= len(doc.Images) {
		return ""
	}
	img := doc.Images[source]
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		return img.URI
	}
	if img.Name != "" {
		return img.Name
	}
	return fmt.Sprintf("image%d", source)
}

func logf(format string, a ...interface{}) {
	log.Printf("[gltf] "+format, a...)
}
