package export

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
)

// vicon skeletons are authored z-up facing -y
var viconWorldRotation = mgl32.Vec3{-90, 180, 0}

func WriteSkeleton(w io.Writer, sk *asset.Skeleton, cfg Config) error {
	tw := newTagWriter(w, cfg)

	tw.open("size")
	tw.printf("%d\n", sk.Len())
	tw.close("size")

	worldRotation := sk.WorldRotation
	if cfg.Vicon {
		worldRotation = worldRotation.Add(viconWorldRotation)
	}

	tw.open("global")
	tw.vec3("p", sk.WorldPosition.Mul(cfg.Scale))
	tw.vec3("r", worldRotation)
	tw.vec3("s", sk.WorldScale)
	tw.close("global")

	for i := range sk.Joints {
		j := &sk.Joints[i]
		tw.open("joint")
		tw.printf("%s %d %d\n", tw.token(j.Name), j.Index, j.ParentIndex)
		tw.vec3("p", j.LocalPosition.Mul(cfg.Scale))
		tw.vec3("r", j.LocalRotation)
		tw.vec3("s", j.LocalScale)
		tw.close("joint")
	}

	return errors.Wrap(tw.flush(), "writing skeleton")
}
