package convert

import "github.com/mogaika/rigconv/asset"

// FillGaps makes the frame range of clip dense from 0 to its last frame and
// carries the last logged value of every joint axis forward into unlogged
// slots. Logged flags are left untouched so filled values stay distinguishable.
func FillGaps(clip *asset.AnimationClip) {
	frames := clip.FrameNumbers()
	if len(frames) == 0 {
		return
	}
	last := frames[len(frames)-1]

	joints := int(clip.JointCount)
	type carry struct {
		value [3]float32
		have  [3]bool
	}
	rot := make([]carry, joints)
	trans := make([]carry, joints)

	for f := 0; f <= last; f++ {
		ps := clip.Frame(f)
		for j := 0; j < joints; j++ {
			pose := &ps.Poses[j]
			for axis := 0; axis < 3; axis++ {
				if ps.LoggedRotation[j][axis] {
					rot[j].value[axis] = pose.Rotation[axis]
					rot[j].have[axis] = true
				} else if rot[j].have[axis] {
					pose.Rotation[axis] = rot[j].value[axis]
				}

				if ps.LoggedTranslation[j][axis] {
					trans[j].value[axis] = pose.Translation[axis]
					trans[j].have[axis] = true
				} else if trans[j].have[axis] {
					pose.Translation[axis] = trans[j].value[axis]
				}
			}
		}
	}
}
