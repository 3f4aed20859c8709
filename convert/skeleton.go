package convert

import (
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/utils"
)

type skeletonBuilder struct {
	sk     *asset.Skeleton
	strict bool
	report *Report
}

// BuildSkeleton walks node depth-first and records every skeleton node as a
// joint of sk. Non-skeleton nodes pass parent through to their children.
// Joints past asset.MaxJoints are dropped and reported, unless strict is set,
// in which case the capacity error is returned.
func BuildSkeleton(node scene.Node, parent uint8, sk *asset.Skeleton, strict bool, report *Report) error {
	b := &skeletonBuilder{sk: sk, strict: strict, report: report}
	return b.visit(node, parent)
}

func (b *skeletonBuilder) visit(node scene.Node, parent uint8) error {
	if node == nil {
		return nil
	}

	if node.Attribute() == scene.AttributeSkeleton {
		index, err := b.sk.AddJoint(node.Name(), parent)
		if err != nil {
			if b.strict {
				return err
			}
			b.report.Warn(errors.Wrapf(err, "skipping subtree of %q", node.Name()))
			return nil
		}
		if rp, ok := node.(scene.RestPoser); ok {
			if m, ok := rp.RestTransform(); ok {
				j := &b.sk.Joints[index]
				j.LocalPosition, j.LocalRotation, j.LocalScale = utils.DecomposeMat4(m)
			}
		}
		parent = index
	}

	for _, child := range node.Children() {
		if err := b.visit(child, parent); err != nil {
			return err
		}
	}
	return nil
}
