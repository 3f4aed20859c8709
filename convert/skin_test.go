package convert

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene/memscene"
)

func skinFixture(jointNames ...string) *asset.Skeleton {
	sk := asset.NewSkeleton()
	for _, name := range jointNames {
		sk.AddJoint(name, 0)
	}
	return sk
}

func TestBindSkinInfluenceLimit(t *testing.T) {
	sk := skinFixture("a", "b", "c", "d", "e")
	geom := &memscene.Geometry{Points: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}}

	skin := &memscene.Skin{}
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		skin.ClusterList = append(skin.ClusterList, &memscene.Cluster{
			Joint:        name,
			Bind:         mgl32.Translate3D(float32(i), 0, 0),
			World:        mgl32.Translate3D(float32(i+1), 2, 3),
			PointIndices: []int{0},
			PointWeights: []float32{0.5},
		})
	}
	geom.SkinList = []*memscene.Skin{skin}

	points := NewControlPoints(geom)
	BindSkin(geom, sk, points, nil)

	cp := points[0]
	if cp.InfluenceCount != asset.MaxInfluences {
		t.Fatalf("influence count %d; expected %d", cp.InfluenceCount, asset.MaxInfluences)
	}
	var sum float32
	for i := 0; i < int(cp.InfluenceCount); i++ {
		if cp.JointIndices[i] != uint32(i) {
			t.Errorf("influence %d joint %d; expected cluster order", i, cp.JointIndices[i])
		}
		sum += cp.JointWeights[i]
	}
	if sum != 2 {
		t.Errorf("weights were altered: sum %v", sum)
	}
	if points[1].InfluenceCount != 0 {
		t.Errorf("untouched control point got %d influences", points[1].InfluenceCount)
	}

	if sk.WorldPosition != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("world position %v; expected first cluster", sk.WorldPosition)
	}
	if !sk.Joints[2].LocalPosition.ApproxEqualThreshold(mgl32.Vec3{2, 0, 0}, 1e-5) {
		t.Errorf("joint c local position %v", sk.Joints[2].LocalPosition)
	}
}

func TestBindSkinUnresolvedJoint(t *testing.T) {
	sk := skinFixture("a")
	geom := &memscene.Geometry{
		Points: []mgl32.Vec3{{0, 0, 0}},
		SkinList: []*memscene.Skin{{ClusterList: []*memscene.Cluster{
			{Joint: "missing", Bind: mgl32.Ident4(), World: mgl32.Ident4(), PointIndices: []int{0}, PointWeights: []float32{1}},
			{Joint: "a", Bind: mgl32.Ident4(), World: mgl32.Ident4(), PointIndices: []int{0, 5}, PointWeights: []float32{0.25, 1}},
		}}},
	}

	report := NewReport(nil)
	points := NewControlPoints(geom)
	BindSkin(geom, sk, points, report)

	if n := report.Count(ErrUnresolvedJoint); n != 1 {
		t.Errorf("unresolved warnings %d; expected 1", n)
	}
	if n := report.Count(ErrMappingMismatch); n != 1 {
		t.Errorf("out of range warnings %d; expected 1", n)
	}
	if points[0].InfluenceCount != 1 || points[0].JointWeights[0] != 0.25 {
		t.Errorf("control point %+v", points[0])
	}
}

func TestBindSkinWorldFromUnresolvedCluster(t *testing.T) {
	sk := skinFixture("a")
	geom := &memscene.Geometry{
		Points: []mgl32.Vec3{{0, 0, 0}},
		SkinList: []*memscene.Skin{{ClusterList: []*memscene.Cluster{
			{Joint: "missing", Bind: mgl32.Ident4(), World: mgl32.Translate3D(4, 5, 6), PointIndices: []int{0}, PointWeights: []float32{1}},
			{Joint: "a", Bind: mgl32.Ident4(), World: mgl32.Translate3D(7, 8, 9), PointIndices: []int{0}, PointWeights: []float32{1}},
		}}},
	}

	report := NewReport(nil)
	BindSkin(geom, sk, NewControlPoints(geom), report)

	if !sk.WorldBound() || sk.WorldPosition != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("world position %v; expected the first cluster", sk.WorldPosition)
	}
	if n := report.Count(ErrUnresolvedJoint); n != 1 {
		t.Errorf("unresolved warnings %d; expected 1", n)
	}
}
