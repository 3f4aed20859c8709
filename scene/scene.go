// Package scene is the query surface the converter reads an interchange scene through.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rigconv/asset"
)

type AttributeKind int

const (
	AttributeNone AttributeKind = iota
	AttributeSkeleton
	AttributeMesh
)

func (k AttributeKind) String() string {
	switch k {
	case AttributeSkeleton:
		return "skeleton"
	case AttributeMesh:
		return "mesh"
	default:
		return "none"
	}
}

type MappingMode int

const (
	ByControlPoint MappingMode = iota
	ByPolygonVertex
	ByPolygon
	AllSame
)

type ReferenceMode int

const (
	Direct ReferenceMode = iota
	IndexToDirect
)

// LayerElement is one per-vertex attribute channel (uv, normal, tangent).
// Uv channels keep u,v in x,y.
type LayerElement struct {
	Mapping   MappingMode
	Reference ReferenceMode
	Direct    []mgl32.Vec3
	Index     []int
}

// MaterialMapping assigns node materials to polygons. Mapping is AllSame or ByPolygon.
type MaterialMapping struct {
	Mapping MappingMode
	Index   []int
}

type Node interface {
	Name() string
	Attribute() AttributeKind
	Children() []Node
	// Mesh is nil unless Attribute is AttributeMesh
	Mesh() Geometry
	Materials() []Material
}

// RestPoser is implemented by nodes that know their joint local rest
// transform without a skin. Skin clusters override it.
type RestPoser interface {
	RestTransform() (mgl32.Mat4, bool)
}

type Geometry interface {
	ControlPoints() []mgl32.Vec3
	PolygonCount() int
	PolygonSize(polygon int) int
	PolygonVertex(polygon, corner int) int

	UV() *LayerElement
	Normal() *LayerElement
	Tangent() *LayerElement
	MaterialMapping() *MaterialMapping

	Skins() []Skin
}

type Skin interface {
	Clusters() []Cluster
}

type Cluster interface {
	JointName() string
	BindTransform() mgl32.Mat4
	BindToWorld() mgl32.Mat4
	Indices() []int
	Weights() []float32
}

type Material interface {
	Name() string
	Ambient() mgl32.Vec3
	Diffuse() mgl32.Vec3
	Specular() mgl32.Vec3
	Emissive() mgl32.Vec3
	TransparencyFactor() float32
	ReflectionFactor() float32
	SpecularFactor() float32
	Textures() map[asset.TextureKind][]string
}

type ChannelKind int

const (
	Rotation ChannelKind = iota
	Translation
)

func (k ChannelKind) String() string {
	if k == Rotation {
		return "rotation"
	}
	return "translation"
}

type Key struct {
	Time  float32
	Value float32
}

// Curve times are scene times in seconds, shared by every curve of a stack.
type Curve interface {
	// Duration is the scene time of the last key
	Duration() float32
	Evaluate(t float32) float32
	Keys() []Key
}

type AnimStack interface {
	Name() string
	LayerCount() int
	// Curve returns nil when the channel axis is not animated
	Curve(layer int, node Node, kind ChannelKind, axis int) Curve
}

// ClipFormat is implemented by stacks whose poses are not joint local.
type ClipFormat interface {
	// Format is "global" for world space captures
	Format() string
	Repeat() bool
}

type Scene interface {
	Root() Node
	AnimStacks() []AnimStack
}
