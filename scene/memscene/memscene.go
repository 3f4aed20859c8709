// Package memscene is a plain in-memory scene.Scene.
package memscene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
)

type Node struct {
	NodeName     string
	Kind         scene.AttributeKind
	Nodes        []*Node
	Geometry     *Geometry
	NodeMaterial []*Material

	// global bind transform, used by adapters
	Transform mgl32.Mat4
	// local rest transform, nil when unknown
	Rest *mgl32.Mat4
}

func NewNode(name string, kind scene.AttributeKind, children ...*Node) *Node {
	return &Node{NodeName: name, Kind: kind, Nodes: children, Transform: mgl32.Ident4()}
}

func (n *Node) AddChildren(children ...*Node) *Node {
	n.Nodes = append(n.Nodes, children...)
	return n
}

func (n *Node) Name() string                   { return n.NodeName }
func (n *Node) Attribute() scene.AttributeKind { return n.Kind }

func (n *Node) RestTransform() (mgl32.Mat4, bool) {
	if n.Rest == nil {
		return mgl32.Ident4(), false
	}
	return *n.Rest, true
}

func (n *Node) Children() []scene.Node {
	children := make([]scene.Node, len(n.Nodes))
	for i, c := range n.Nodes {
		children[i] = c
	}
	return children
}

func (n *Node) Mesh() scene.Geometry {
	if n.Geometry == nil {
		return nil
	}
	return n.Geometry
}

func (n *Node) Materials() []scene.Material {
	materials := make([]scene.Material, len(n.NodeMaterial))
	for i, m := range n.NodeMaterial {
		materials[i] = m
	}
	return materials
}

type Geometry struct {
	Points   []mgl32.Vec3
	Polygons [][]int

	UVs      *scene.LayerElement
	Normals  *scene.LayerElement
	Tangents *scene.LayerElement
	Mapping  *scene.MaterialMapping

	SkinList []*Skin
}

func (g *Geometry) ControlPoints() []mgl32.Vec3             { return g.Points }
func (g *Geometry) PolygonCount() int                       { return len(g.Polygons) }
func (g *Geometry) PolygonSize(polygon int) int             { return len(g.Polygons[polygon]) }
func (g *Geometry) PolygonVertex(polygon, corner int) int   { return g.Polygons[polygon][corner] }
func (g *Geometry) UV() *scene.LayerElement                 { return g.UVs }
func (g *Geometry) Normal() *scene.LayerElement             { return g.Normals }
func (g *Geometry) Tangent() *scene.LayerElement            { return g.Tangents }
func (g *Geometry) MaterialMapping() *scene.MaterialMapping { return g.Mapping }

func (g *Geometry) Skins() []scene.Skin {
	skins := make([]scene.Skin, len(g.SkinList))
	for i, s := range g.SkinList {
		skins[i] = s
	}
	return skins
}

type Skin struct {
	ClusterList []*Cluster
}

func (s *Skin) Clusters() []scene.Cluster {
	clusters := make([]scene.Cluster, len(s.ClusterList))
	for i, c := range s.ClusterList {
		clusters[i] = c
	}
	return clusters
}

type Cluster struct {
	Joint        string
	Bind         mgl32.Mat4
	World        mgl32.Mat4
	PointIndices []int
	PointWeights []float32
}

func (c *Cluster) JointName() string         { return c.Joint }
func (c *Cluster) BindTransform() mgl32.Mat4 { return c.Bind }
func (c *Cluster) BindToWorld() mgl32.Mat4   { return c.World }
func (c *Cluster) Indices() []int            { return c.PointIndices }
func (c *Cluster) Weights() []float32        { return c.PointWeights }

type Material struct {
	MaterialName string

	AmbientColor  mgl32.Vec3
	DiffuseColor  mgl32.Vec3
	SpecularColor mgl32.Vec3
	EmissiveColor mgl32.Vec3

	Transparency float32
	Reflection   float32
	Shininess    float32

	TextureFiles map[asset.TextureKind][]string
}

func (m *Material) Name() string                             { return m.MaterialName }
func (m *Material) Ambient() mgl32.Vec3                      { return m.AmbientColor }
func (m *Material) Diffuse() mgl32.Vec3                      { return m.DiffuseColor }
func (m *Material) Specular() mgl32.Vec3                     { return m.SpecularColor }
func (m *Material) Emissive() mgl32.Vec3                     { return m.EmissiveColor }
func (m *Material) TransparencyFactor() float32              { return m.Transparency }
func (m *Material) ReflectionFactor() float32                { return m.Reflection }
func (m *Material) SpecularFactor() float32                  { return m.Shininess }
func (m *Material) Textures() map[asset.TextureKind][]string { return m.TextureFiles }

type Scene struct {
	RootNode *Node
	Stacks   []*AnimStack
}

func (s *Scene) Root() scene.Node {
	if s.RootNode == nil {
		return nil
	}
	return s.RootNode
}

func (s *Scene) AnimStacks() []scene.AnimStack {
	stacks := make([]scene.AnimStack, len(s.Stacks))
	for i, st := range s.Stacks {
		stacks[i] = st
	}
	return stacks
}

// Walk visits nodes depth-first in child order.
func (s *Scene) Walk(fn func(n *Node)) {
	var walk func(n *Node)
	walk = func(n *Node) {
		fn(n)
		for _, c := range n.Nodes {
			walk(c)
		}
	}
	if s.RootNode != nil {
		walk(s.RootNode)
	}
}
