package convert

import (
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/utils"
)

// NewControlPoints copies geometry positions into control points without influences.
func NewControlPoints(geom scene.Geometry) []asset.ControlPoint {
	positions := geom.ControlPoints()
	points := make([]asset.ControlPoint, len(positions))
	for i, pos := range positions {
		points[i].Position = pos
	}
	return points
}

// BindSkin appends the influences of every skin cluster of geom to points and
// stores bind transforms into sk. Influences are kept in cluster order; once a
// control point has asset.MaxInfluences pairs, further pairs are dropped.
// Weights are not normalized.
func BindSkin(geom scene.Geometry, sk *asset.Skeleton, points []asset.ControlPoint, report *Report) {
	dropped := 0
	for iSkin, skin := range geom.Skins() {
		for iCluster, cluster := range skin.Clusters() {
			// the first cluster places the skeleton even when its joint is unknown
			if !sk.WorldBound() {
				sk.SetWorld(utils.DecomposeMat4(cluster.BindToWorld()))
			}

			jointIndex, ok := sk.Lookup(cluster.JointName())
			if !ok {
				report.Warn(errors.Wrapf(ErrUnresolvedJoint,
					"skin %d cluster %d targets %q", iSkin, iCluster, cluster.JointName()))
				continue
			}

			joint := &sk.Joints[jointIndex]
			joint.LocalPosition, joint.LocalRotation, joint.LocalScale = utils.DecomposeMat4(cluster.BindTransform())

			indices := cluster.Indices()
			weights := cluster.Weights()
			if len(indices) != len(weights) {
				report.Warn(errors.Wrapf(ErrMappingMismatch,
					"cluster %q has %d indices and %d weights", cluster.JointName(), len(indices), len(weights)))
				if len(weights) < len(indices) {
					indices = indices[:len(weights)]
				}
			}

			for i, cpIndex := range indices {
				if cpIndex < 0 || cpIndex >= len(points) {
					report.Warn(errors.Wrapf(ErrMappingMismatch,
						"cluster %q references control point %d of %d", cluster.JointName(), cpIndex, len(points)))
					continue
				}
				if !points[cpIndex].AddInfluence(uint32(jointIndex), weights[i]) {
					dropped++
				}
			}
		}
	}

	if dropped != 0 {
		report.Logf("dropped %d influences over the %d per control point limit", dropped, asset.MaxInfluences)
	}
}
