package gltfscene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/scene/memscene"
	"github.com/mogaika/rigconv/utils"
)

func (imp *importer) readSampler(s *gltf.AnimationSampler) ([]float32, interface{}, error) {
	doc := imp.doc
	if s.Input == nil || s.Output == nil ||
		int(*s.Input) >= len(doc.Accessors) || int(*s.Output) >= len(doc.Accessors) {
		return nil, nil, errors.New("sampler without accessors")
	}
	input, err := modeler.ReadAccessor(doc, doc.Accessors[*s.Input], nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "input")
	}
	times, ok := input.([]float32)
	if !ok {
		return nil, nil, errors.Errorf("unexpected input type %T", input)
	}
	output, err := modeler.ReadAccessor(doc, doc.Accessors[*s.Output], nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "output")
	}
	return times, output, nil
}

// keyIndex maps key i to its output element. Cubic spline samplers store
// in-tangent, value and out-tangent for each key.
func keyIndex(s *gltf.AnimationSampler, i int) int {
	if s.Interpolation == gltf.InterpolationCubicSpline {
		return i*3 + 1
	}
	return i
}

func axisCurves(times []float32, values []mgl32.Vec3, s *gltf.AnimationSampler) [3]*memscene.LinearCurve {
	var curves [3]*memscene.LinearCurve
	for axis := range curves {
		curves[axis] = memscene.NewLinearCurve()
	}
	for i, t := range times {
		vi := keyIndex(s, i)
		if vi >= len(values) {
			break
		}
		for axis := range curves {
			key := scene.Key{Time: t, Value: values[vi][axis]}
			if s.Interpolation == gltf.InterpolationStep && i > 0 {
				// hold previous value right up to this key
				prev := curves[axis].KeyList[len(curves[axis].KeyList)-1]
				curves[axis].KeyList = append(curves[axis].KeyList, scene.Key{Time: t, Value: prev.Value})
			}
			curves[axis].KeyList = append(curves[axis].KeyList, key)
		}
	}
	return curves
}

// loadAnimation converts translation and rotation channels into per axis
// curves. Rotations become euler angles in degrees. Scale and morph weight
// channels are ignored.
func (imp *importer) loadAnimation(anim *gltf.Animation) (*memscene.AnimStack, error) {
	stack := memscene.NewAnimStack(imp.names.NameOr(anim.Name))

	for ci, ch := range anim.Channels {
		if ch.Target.Node == nil || int(*ch.Target.Node) >= len(imp.nodeNames) {
			continue
		}
		if ch.Sampler == nil || int(*ch.Sampler) >= len(anim.Samplers) {
			return nil, errors.Errorf("channel %d: invalid sampler", ci)
		}
		nodeName := imp.nodeNames[*ch.Target.Node]
		sampler := anim.Samplers[*ch.Sampler]

		var kind scene.ChannelKind
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			kind = scene.Translation
		case gltf.TRSRotation:
			kind = scene.Rotation
		default:
			continue
		}

		times, output, err := imp.readSampler(sampler)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d", ci)
		}

		var values []mgl32.Vec3
		switch v := output.(type) {
		case [][3]float32:
			if kind != scene.Translation {
				return nil, errors.Errorf("channel %d: rotation output is vec3", ci)
			}
			values = make([]mgl32.Vec3, len(v))
			for i := range v {
				values[i] = v[i]
			}
		case [][4]float32:
			if kind != scene.Rotation {
				return nil, errors.Errorf("channel %d: translation output is vec4", ci)
			}
			values = make([]mgl32.Vec3, len(v))
			for i, q := range v {
				quat := mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize()
				values[i] = utils.RadiansToDegreeV3(utils.QuatToEuler(quat))
			}
		default:
			logf("animation %q channel %d: output %T not supported", stack.StackName, ci, output)
			continue
		}

		for axis, curve := range axisCurves(times, values, sampler) {
			stack.SetCurve(nodeName, kind, axis, curve)
		}
	}
	return stack, nil
}
