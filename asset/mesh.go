package asset

import "github.com/go-gl/mathgl/mgl32"

const MaxInfluences = 4

type ControlPoint struct {
	Position       mgl32.Vec3
	JointIndices   [MaxInfluences]uint32
	JointWeights   [MaxInfluences]float32
	InfluenceCount uint8
}

// AddInfluence records a joint/weight pair. Pairs past MaxInfluences are dropped.
func (cp *ControlPoint) AddInfluence(joint uint32, weight float32) bool {
	if cp.InfluenceCount >= MaxInfluences {
		return false
	}
	cp.JointIndices[cp.InfluenceCount] = joint
	cp.JointWeights[cp.InfluenceCount] = weight
	cp.InfluenceCount++
	return true
}

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	UV       mgl32.Vec2

	JointIndices [MaxInfluences]uint32
	JointWeights [MaxInfluences]float32
}

type Triangle struct {
	VertexIndices [3]uint32
	MaterialIndex int
}

// IndexBuffer holds the triangles drawn with one material slot.
type IndexBuffer struct {
	MaterialSlot int
	Triangles    [][3]uint32
}

func (ib *IndexBuffer) IndexCount() int { return len(ib.Triangles) * 3 }
