package convert

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
	"github.com/mogaika/rigconv/scene"
)

const DefaultFramerate = 30

// absorbs float error in duration*framerate for curves spanning whole frames
const frameEpsilon = 1e-4

var channelKinds = []scene.ChannelKind{scene.Rotation, scene.Translation}

type frameValue struct {
	frame int
	value float32
}

// sampleCurve evaluates c on a uniform grid of scene time starting at 0 and
// ending at its last key, so curves of one stack stay on the same frames.
// When the curve has more keys than whole frames, a trailing frame holding
// the last raw key is appended.
func sampleCurve(c scene.Curve, framerate float32) []frameValue {
	keys := c.Keys()
	frameCount := int(math.Floor(float64(c.Duration())*float64(framerate) + frameEpsilon))
	if frameCount < 0 {
		frameCount = 0
	}
	trailing := len(keys) > frameCount

	samples := make([]frameValue, 0, frameCount+1)
	for i := 0; i < frameCount; i++ {
		samples = append(samples, frameValue{frame: i, value: c.Evaluate(float32(i) / framerate)})
	}
	if trailing {
		samples = append(samples, frameValue{frame: frameCount, value: keys[len(keys)-1].Value})
	}
	return samples
}

// fieldOffset maps a source axis to the pose field it is written to.
// Vicon data swaps translation y/z and mirrors x.
func fieldOffset(kind scene.ChannelKind, axis int, vicon bool) (offset int, sign float32) {
	if !vicon || kind != scene.Translation {
		return axis, 1
	}
	switch axis {
	case 0:
		return 0, -1
	case 1:
		return 2, 1
	default:
		return 1, 1
	}
}

type Resampler struct {
	Framerate float32
	Vicon     bool

	report *Report
}

func NewResampler(framerate float32, vicon bool, report *Report) *Resampler {
	if framerate <= 0 {
		framerate = DefaultFramerate
	}
	return &Resampler{Framerate: framerate, Vicon: vicon, report: report}
}

// ResampleStack builds a clip from layer 0 of stack for every node under root
// that resolves to a joint of sk. Only frames where some axis was keyed exist
// in the result.
func (r *Resampler) ResampleStack(stack scene.AnimStack, root scene.Node, sk *asset.Skeleton) *asset.AnimationClip {
	clip := asset.NewAnimationClip(stack.Name(), r.Framerate, uint8(sk.Len()))
	if cf, ok := stack.(scene.ClipFormat); ok {
		clip.Format, clip.Repeat = cf.Format(), cf.Repeat()
	}
	if stack.LayerCount() == 0 {
		r.report.Warn(errors.Errorf("animation stack %q has no layers", stack.Name()))
		return clip
	}

	var visit func(node scene.Node)
	visit = func(node scene.Node) {
		r.resampleNode(clip, stack, node, sk)
		for _, child := range node.Children() {
			visit(child)
		}
	}
	if root != nil {
		visit(root)
	}
	return clip
}

func (r *Resampler) resampleNode(clip *asset.AnimationClip, stack scene.AnimStack, node scene.Node, sk *asset.Skeleton) {
	jointIndex, resolved := sk.Lookup(node.Name())

	for _, kind := range channelKinds {
		for axis := 0; axis < 3; axis++ {
			curve := stack.Curve(0, node, kind, axis)
			if curve == nil {
				continue
			}
			if !resolved {
				r.report.Warn(errors.Wrapf(ErrUnresolvedJoint,
					"animation %q curve on node %q", stack.Name(), node.Name()))
				return
			}

			offset, sign := fieldOffset(kind, axis, r.Vicon)
			for _, s := range sampleCurve(curve, r.Framerate) {
				ps := clip.Frame(s.frame)
				pose := &ps.Poses[jointIndex]
				if kind == scene.Rotation {
					pose.Rotation[offset] = s.value * sign
					ps.LoggedRotation[jointIndex][offset] = true
				} else {
					pose.Translation[offset] = s.value * sign
					ps.LoggedTranslation[jointIndex][offset] = true
				}
			}
		}
	}
}
