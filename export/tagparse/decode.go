package tagparse

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
)

func (l *Line) key() string {
	if len(l.Fields) == 0 {
		return ""
	}
	return l.Fields[0]
}

func (l *Line) Int(field int) (int, error) {
	if field >= len(l.Fields) {
		return 0, errors.Errorf("line %v: missing field %d", l.Number, field)
	}
	v, err := strconv.Atoi(l.Fields[field])
	return v, errors.Wrapf(err, "line %v", l.Number)
}

func (l *Line) Float(field int) (float32, error) {
	if field >= len(l.Fields) {
		return 0, errors.Errorf("line %v: missing field %d", l.Number, field)
	}
	v, err := strconv.ParseFloat(l.Fields[field], 32)
	return float32(v), errors.Wrapf(err, "line %v", l.Number)
}

// Vec3 reads a "key x y z" line.
func (l *Line) Vec3(key string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if l.key() != key || len(l.Fields) != 4 {
		return v, errors.Errorf("line %v: expected %q vector, got %q", l.Number, key, strings.Join(l.Fields, " "))
	}
	for i := range v {
		f, err := l.Float(i + 1)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// value returns the single value line of a block.
func (b *Block) value() (*Line, error) {
	if b == nil {
		return nil, errors.New("missing block")
	}
	if len(b.Lines) != 1 || len(b.Lines[0].Fields) != 1 {
		return nil, errors.Errorf("<%s> on line %v must hold one value", b.Tag, b.Line)
	}
	return &b.Lines[0], nil
}

// counter reads a "key n" line of a block.
func (b *Block) counter(key string) (int, error) {
	for i := range b.Lines {
		if b.Lines[i].key() == key {
			return b.Lines[i].Int(1)
		}
	}
	return 0, errors.Errorf("<%s> on line %v has no %q", b.Tag, b.Line, key)
}

func (b *Block) prs(from int) (p, r, s mgl32.Vec3, err error) {
	if len(b.Lines) < from+3 {
		return p, r, s, errors.Errorf("<%s> on line %v is truncated", b.Tag, b.Line)
	}
	if p, err = b.Lines[from].Vec3("p"); err != nil {
		return
	}
	if r, err = b.Lines[from+1].Vec3("r"); err != nil {
		return
	}
	s, err = b.Lines[from+2].Vec3("s")
	return
}

// DecodeSkeleton rebuilds a skeleton document. Joints must be listed in index order.
func DecodeSkeleton(doc *Document) (*asset.Skeleton, error) {
	sizeLine, err := doc.First("size").value()
	if err != nil {
		return nil, errors.Wrap(err, "<size>")
	}
	size, err := sizeLine.Int(0)
	if err != nil {
		return nil, err
	}

	global := doc.First("global")
	if global == nil {
		return nil, errors.New("missing <global>")
	}
	sk := asset.NewSkeleton()
	p, r, s, err := global.prs(0)
	if err != nil {
		return nil, err
	}
	sk.SetWorld(p, r, s)

	joints := doc.Find("joint")
	if len(joints) != size {
		return nil, errors.Errorf("<size> is %d but %d joints listed", size, len(joints))
	}
	for i, b := range joints {
		if len(b.Lines) == 0 || len(b.Lines[0].Fields) != 3 {
			return nil, errors.Errorf("<joint> on line %v: bad header", b.Line)
		}
		header := &b.Lines[0]
		index, err := header.Int(1)
		if err != nil {
			return nil, err
		}
		parent, err := header.Int(2)
		if err != nil {
			return nil, err
		}
		if index != i || parent < 0 || parent >= asset.MaxJoints {
			return nil, errors.Errorf("<joint> on line %v: index %d parent %d out of order", b.Line, index, parent)
		}
		if _, err := sk.AddJoint(header.Fields[0], uint8(parent)); err != nil {
			return nil, err
		}

		j := &sk.Joints[i]
		if j.LocalPosition, j.LocalRotation, j.LocalScale, err = b.prs(1); err != nil {
			return nil, err
		}
	}
	return sk, nil
}

type MeshSummary struct {
	Name         string
	Vertices     int
	IndexBuffers int
	Materials    []string
	// texture paths of every material, in material order
	Textures []asset.TextureMaps
	// index count of every <ebo> block
	IndexCounts []int
}

// DecodeMeshSummary reads the header values of a mesh document.
func DecodeMeshSummary(doc *Document) (*MeshSummary, error) {
	nameLine, err := doc.First("name").value()
	if err != nil {
		return nil, errors.Wrap(err, "<name>")
	}
	ms := &MeshSummary{Name: nameLine.Fields[0]}

	buffer := doc.First("buffer")
	if buffer == nil {
		return nil, errors.New("missing <buffer>")
	}
	if ms.Vertices, err = buffer.counter("v"); err != nil {
		return nil, err
	}
	if ms.IndexBuffers, err = buffer.counter("e"); err != nil {
		return nil, err
	}
	materialCount, err := buffer.counter("m")
	if err != nil {
		return nil, err
	}

	for _, b := range doc.Find("material") {
		name := ""
		textures := make(asset.TextureMaps)
		for i := range b.Lines {
			l := &b.Lines[i]
			if len(l.Fields) != 2 {
				continue
			}
			if l.key() == "n" {
				name = l.Fields[1]
			} else if kind, ok := asset.TextureKindFromTag(l.key()); ok {
				textures[kind] = l.Fields[1]
			}
		}
		ms.Materials = append(ms.Materials, name)
		ms.Textures = append(ms.Textures, textures)
	}
	if len(ms.Materials) != materialCount {
		return nil, errors.Errorf("<buffer> says %d materials but %d listed", materialCount, len(ms.Materials))
	}

	for _, b := range doc.Find("ebo") {
		count, err := b.counter("s")
		if err != nil {
			return nil, err
		}
		ms.IndexCounts = append(ms.IndexCounts, count)
	}
	return ms, nil
}

// DecodeAnimation rebuilds a clip. Source frame numbers are not stored in the
// document, so frames are numbered 0..f-1.
func DecodeAnimation(doc *Document, name string) (*asset.AnimationClip, error) {
	rateLine, err := doc.First("framerate").value()
	if err != nil {
		return nil, errors.Wrap(err, "<framerate>")
	}
	framerate, err := rateLine.Float(0)
	if err != nil {
		return nil, err
	}

	buffer := doc.First("buffer")
	if buffer == nil {
		return nil, errors.New("missing <buffer>")
	}
	jointCount, err := buffer.counter("j")
	if err != nil {
		return nil, err
	}
	frameCount, err := buffer.counter("f")
	if err != nil {
		return nil, err
	}
	if jointCount < 0 || jointCount > asset.MaxJoints {
		return nil, errors.Errorf("joint count %d out of range", jointCount)
	}

	clip := asset.NewAnimationClip(name, framerate, uint8(jointCount))
	if b := doc.First("format"); b != nil {
		line, err := b.value()
		if err != nil {
			return nil, errors.Wrap(err, "<format>")
		}
		clip.Format = line.Fields[0]
	}
	if b := doc.First("repeat"); b != nil {
		line, err := b.value()
		if err != nil {
			return nil, errors.Wrap(err, "<repeat>")
		}
		repeat, err := line.Int(0)
		if err != nil {
			return nil, err
		}
		clip.Repeat = repeat != 0
	}
	for f := 0; f < frameCount; f++ {
		clip.Frame(f)
	}

	blocks := doc.Find("animation")
	if len(blocks) != jointCount {
		return nil, errors.Errorf("<buffer> says %d joints but %d animations listed", jointCount, len(blocks))
	}
	for _, b := range blocks {
		if len(b.Lines) != 1+frameCount*2 || b.Lines[0].key() != "-" {
			return nil, errors.Errorf("<animation> on line %v: expected %d frames", b.Line, frameCount)
		}
		joint, err := b.Lines[0].Int(1)
		if err != nil {
			return nil, err
		}
		if joint < 0 || joint >= jointCount {
			return nil, errors.Errorf("<animation> on line %v: joint %d out of range", b.Line, joint)
		}
		for f := 0; f < frameCount; f++ {
			pose := &clip.Frames[f].Poses[joint]
			if pose.Rotation, err = b.Lines[1+f*2].Vec3("r"); err != nil {
				return nil, err
			}
			if pose.Translation, err = b.Lines[2+f*2].Vec3("p"); err != nil {
				return nil, err
			}
		}
	}
	return clip, nil
}
