package asset

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

type JointPose struct {
	Rotation    mgl32.Vec3
	Translation mgl32.Vec3
}

// PoseSample is every joint's pose at one frame. Logged flags mark which
// axes were keyed at this frame, as opposed to left at their default.
type PoseSample struct {
	Poses             []JointPose
	LoggedRotation    [][3]bool
	LoggedTranslation [][3]bool
}

func NewPoseSample(jointCount int) *PoseSample {
	return &PoseSample{
		Poses:             make([]JointPose, jointCount),
		LoggedRotation:    make([][3]bool, jointCount),
		LoggedTranslation: make([][3]bool, jointCount),
	}
}

type AnimationClip struct {
	Name       string
	Framerate  float32
	JointCount uint8
	Frames     map[int]*PoseSample

	// Format names the pose space when poses are not joint local, e.g.
	// "global" for motion capture. Empty for local poses.
	Format string
	Repeat bool
}

func NewAnimationClip(name string, framerate float32, jointCount uint8) *AnimationClip {
	return &AnimationClip{
		Name:       name,
		Framerate:  framerate,
		JointCount: jointCount,
		Frames:     make(map[int]*PoseSample),
	}
}

// Frame returns the sample for frame, creating it if absent.
func (c *AnimationClip) Frame(frame int) *PoseSample {
	ps, ok := c.Frames[frame]
	if !ok {
		ps = NewPoseSample(int(c.JointCount))
		c.Frames[frame] = ps
	}
	return ps
}

// FrameNumbers returns present frame numbers in ascending order.
func (c *AnimationClip) FrameNumbers() []int {
	frames := make([]int, 0, len(c.Frames))
	for frame := range c.Frames {
		frames = append(frames, frame)
	}
	sort.Ints(frames)
	return frames
}
