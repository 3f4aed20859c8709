// Package csvscene reads motion capture takes stored as csv into a memscene.
//
// The header is "time" followed by seven columns per bone:
//
//	time,hips:posx,hips:posy,hips:posz,hips:rotw,hips:rotx,hips:roty,hips:rotz,...
//
// Every following row is one captured frame. Positions are in meters and
// rotations are quaternions in w,x,y,z order, both in world space.
package csvscene

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/scene"
	"github.com/mogaika/rigconv/scene/memscene"
	"github.com/mogaika/rigconv/utils"
)

// values per bone: position x,y,z and quaternion w,x,y,z
const ColumnsPerBone = 7

const MetersToCentimeters = 100

// DefaultHierarchy maps bone index to parent index for the 28 bone capture rig.
// The root points at itself.
var DefaultHierarchy = []int{
	0,  // hips
	0,  // leftupleg
	1,  // leftleg
	2,  // leftfoot
	3,  // lefttoebase
	4,  // lefttoeend
	0,  // rightupleg
	6,  // rightleg
	7,  // rightfoot
	8,  // righttoebase
	9,  // righttoeend
	0,  // spine
	11, // head
	12, // head_end
	11, // leftshoulder
	14, // leftarm
	15, // leftforearm
	16, // lefthand
	17, // lefthandend
	17, // lefthandthumb1
	19, // lefthandthumb2
	11, // rightshoulder
	21, // rightarm
	22, // rightforearm
	23, // righthand
	24, // righthandend
	24, // righthandthumb1
	26, // righthandthumb2
}

type Options struct {
	// parent index per bone, DefaultHierarchy when nil
	Hierarchy []int
	// position multiplier
	Scale    float32
	TakeName string
}

func DefaultOptions() Options {
	return Options{
		Hierarchy: DefaultHierarchy,
		Scale:     MetersToCentimeters,
		TakeName:  "take",
	}
}

type pose struct {
	position mgl32.Vec3
	// euler degrees
	rotation mgl32.Vec3
}

// Capture is a parsed take together with the scene built from it.
type Capture struct {
	Scene *memscene.Scene
	Bones []string
	// seconds since the first row
	Times     []float32
	Framerate float32

	frames [][]pose
}

func Load(path string, opts Options) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()
	c, err := Read(f, opts)
	return c, errors.Wrapf(err, "Failed to read %q", path)
}

// trimEmpty drops the empty fields trailing commas leave behind.
func trimEmpty(record []string) []string {
	for len(record) > 0 && strings.TrimSpace(record[len(record)-1]) == "" {
		record = record[:len(record)-1]
	}
	return record
}

func parseFloats(record []string, line int) ([]float32, error) {
	values := make([]float32, len(record))
	for i, s := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d column %d", line, i+1)
		}
		values[i] = float32(v)
	}
	return values, nil
}

func Read(r io.Reader, opts Options) (*Capture, error) {
	if opts.Hierarchy == nil {
		opts.Hierarchy = DefaultHierarchy
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.TakeName == "" {
		opts.TakeName = DefaultOptions().TakeName
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	header = trimEmpty(header)
	if len(header) < 1+ColumnsPerBone {
		return nil, errors.Errorf("header has %d columns, need time and at least one bone", len(header))
	}

	c := &Capture{}
	seen := make(map[string]bool)
	for i := 1; i+ColumnsPerBone <= len(header); i += ColumnsPerBone {
		name := strings.SplitN(header[i], ":", 2)[0]
		if seen[name] {
			return nil, errors.Errorf("bone %q listed twice", name)
		}
		seen[name] = true
		c.Bones = append(c.Bones, name)
	}

	need := 1 + ColumnsPerBone*len(c.Bones)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		record = trimEmpty(record)
		if len(record) == 0 {
			continue
		}
		if len(record) < need {
			return nil, errors.Errorf("line %d has %d columns, expected %d", line, len(record), need)
		}
		values, err := parseFloats(record[:need], line)
		if err != nil {
			return nil, err
		}

		c.Times = append(c.Times, values[0])
		frame := make([]pose, len(c.Bones))
		for b := range frame {
			v := values[1+b*ColumnsPerBone:]
			q := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[4], v[5], v[6]}}
			if q.Len() != 0 {
				q = q.Normalize()
			}
			frame[b].position = mgl32.Vec3{v[0], v[1], v[2]}.Mul(opts.Scale)
			frame[b].rotation = utils.RadiansToDegreeV3(utils.QuatToEuler(q))
		}
		c.frames = append(c.frames, frame)
	}
	if len(c.frames) == 0 {
		return nil, errors.New("no frames")
	}

	start := c.Times[0]
	for i := range c.Times {
		c.Times[i] -= start
	}
	c.Framerate = 1
	if len(c.Times) > 1 {
		if step := c.Times[1]; step > 0 {
			c.Framerate = 1 / step
		}
	}

	if c.Scene, err = c.buildScene(opts); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Capture) parent(hierarchy []int, bone int) (int, error) {
	if bone == 0 {
		return -1, nil
	}
	if bone >= len(hierarchy) {
		log.Printf("[csv] bone %q has no hierarchy entry, attaching to %q", c.Bones[bone], c.Bones[0])
		return 0, nil
	}
	p := hierarchy[bone]
	if p < 0 || p >= bone {
		return 0, errors.Errorf("bone %d %q has parent %d, parents must precede children", bone, c.Bones[bone], p)
	}
	return p, nil
}

// buildScene nests one skeleton node per bone under a "scene" root. The first
// frame is the rest pose and every bone gets a curve per channel axis.
func (c *Capture) buildScene(opts Options) (*memscene.Scene, error) {
	root := memscene.NewNode("scene", scene.AttributeNone)
	nodes := make([]*memscene.Node, len(c.Bones))
	for b, name := range c.Bones {
		p, err := c.parent(opts.Hierarchy, b)
		if err != nil {
			return nil, err
		}

		first := c.frames[0][b]
		rest := mgl32.Translate3D(first.position[0], first.position[1], first.position[2]).
			Mul4(utils.EulerToMat4(first.rotation))

		nodes[b] = memscene.NewNode(name, scene.AttributeSkeleton)
		nodes[b].Rest = &rest
		nodes[b].Transform = rest
		if p < 0 {
			root.AddChildren(nodes[b])
		} else {
			nodes[p].AddChildren(nodes[b])
		}
	}

	stack := memscene.NewAnimStack(opts.TakeName)
	stack.PoseFormat = "global"
	for b, name := range c.Bones {
		for axis := 0; axis < 3; axis++ {
			rotation := make([]scene.Key, len(c.frames))
			translation := make([]scene.Key, len(c.frames))
			for f, frame := range c.frames {
				rotation[f] = scene.Key{Time: c.Times[f], Value: frame[b].rotation[axis]}
				translation[f] = scene.Key{Time: c.Times[f], Value: frame[b].position[axis]}
			}
			stack.SetCurve(name, scene.Rotation, axis, memscene.NewLinearCurve(rotation...))
			stack.SetCurve(name, scene.Translation, axis, memscene.NewLinearCurve(translation...))
		}
	}

	return &memscene.Scene{RootNode: root, Stacks: []*memscene.AnimStack{stack}}, nil
}
