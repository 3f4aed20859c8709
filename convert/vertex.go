package convert

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
)

// layerValue resolves an attribute channel for one polygon corner.
// Missing channels and out of range references give a zero vector.
func layerValue(le *scene.LayerElement, cpIndex, polygonVertex int) mgl32.Vec3 {
	if le == nil {
		return mgl32.Vec3{}
	}

	var index int
	switch le.Mapping {
	case scene.ByControlPoint:
		index = cpIndex
	case scene.ByPolygonVertex:
		index = polygonVertex
	default:
		return mgl32.Vec3{}
	}

	if le.Reference == scene.IndexToDirect {
		if index < 0 || index >= len(le.Index) {
			return mgl32.Vec3{}
		}
		index = le.Index[index]
	}

	if index < 0 || index >= len(le.Direct) {
		return mgl32.Vec3{}
	}
	return le.Direct[index]
}

// AssembleVertices expands every triangle corner of geom into its own vertex
// and appends the vertices and triangles to a. Polygons with more than three
// corners are fanned. The returned slice holds the source polygon of every
// appended triangle.
func AssembleVertices(geom scene.Geometry, points []asset.ControlPoint, a *asset.Asset, report *Report) []int {
	uvs := geom.UV()
	normals := geom.Normal()
	tangents := geom.Tangent()

	polygonCount := geom.PolygonCount()
	trianglePolygons := make([]int, 0, polygonCount)

	polygonVertex := 0
	for p := 0; p < polygonCount; p++ {
		size := geom.PolygonSize(p)
		if size < 3 {
			report.Warn(errors.Errorf("polygon %d has %d corners, skipped", p, size))
			polygonVertex += size
			continue
		}

		for k := 1; k+1 < size; k++ {
			corners := [3]int{0, k, k + 1}
			var tri asset.Triangle

			for c, corner := range corners {
				cpIndex := geom.PolygonVertex(p, corner)
				pvIndex := polygonVertex + corner

				var v asset.Vertex
				if cpIndex >= 0 && cpIndex < len(points) {
					cp := &points[cpIndex]
					v.Position = cp.Position
					v.JointIndices = cp.JointIndices
					v.JointWeights = cp.JointWeights
				} else {
					report.Warn(errors.Wrapf(ErrMappingMismatch,
						"polygon %d references control point %d of %d", p, cpIndex, len(points)))
				}

				v.Normal = layerValue(normals, cpIndex, pvIndex)
				v.Tangent = layerValue(tangents, cpIndex, pvIndex)
				uv := layerValue(uvs, cpIndex, pvIndex)
				v.UV = mgl32.Vec2{uv[0], 1 - uv[1]}

				tri.VertexIndices[c] = uint32(len(a.Vertices))
				a.Vertices = append(a.Vertices, v)
			}

			a.Triangles = append(a.Triangles, tri)
			trianglePolygons = append(trianglePolygons, p)
		}
		polygonVertex += size
	}

	return trianglePolygons
}
