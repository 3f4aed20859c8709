package asset

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/utils"
)

const (
	MaxJoints        = 255
	MaxJointNameSize = 31
)

var ErrCapacityExceeded = errors.New("skeleton joint capacity exceeded")

type Joint struct {
	Name        string
	Hash        uint32
	Index       uint8
	ParentIndex uint8

	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Vec3 // euler, degrees
	LocalScale    mgl32.Vec3
}

type Skeleton struct {
	Joints []Joint

	WorldPosition mgl32.Vec3
	WorldRotation mgl32.Vec3
	WorldScale    mgl32.Vec3

	worldBound bool
}

func NewSkeleton() *Skeleton {
	return &Skeleton{
		Joints:     make([]Joint, 0, 32),
		WorldScale: mgl32.Vec3{1, 1, 1},
	}
}

func (sk *Skeleton) Len() int { return len(sk.Joints) }

// AddJoint appends joint and returns its index. Names longer than
// MaxJointNameSize are truncated.
func (sk *Skeleton) AddJoint(name string, parent uint8) (uint8, error) {
	if len(sk.Joints) >= MaxJoints {
		return 0, errors.Wrapf(ErrCapacityExceeded, "joint %q", name)
	}
	if len(name) > MaxJointNameSize {
		name = name[:MaxJointNameSize]
	}
	index := uint8(len(sk.Joints))
	sk.Joints = append(sk.Joints, Joint{
		Name:        name,
		Hash:        utils.StringHash(name, 0),
		Index:       index,
		ParentIndex: parent,
		LocalScale:  mgl32.Vec3{1, 1, 1},
	})
	return index, nil
}

// Lookup returns the index of the first joint named name.
func (sk *Skeleton) Lookup(name string) (uint8, bool) {
	if len(name) > MaxJointNameSize {
		name = name[:MaxJointNameSize]
	}
	hash := utils.StringHash(name, 0)
	for i := range sk.Joints {
		if sk.Joints[i].Hash == hash && sk.Joints[i].Name == name {
			return sk.Joints[i].Index, true
		}
	}
	return 0, false
}

// SetWorld stores the bind-to-world transform. Only the first call has effect.
func (sk *Skeleton) SetWorld(pos, rot, scale mgl32.Vec3) bool {
	if sk.worldBound {
		return false
	}
	sk.WorldPosition, sk.WorldRotation, sk.WorldScale = pos, rot, scale
	sk.worldBound = true
	return true
}

func (sk *Skeleton) WorldBound() bool { return sk.worldBound }
