package export

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
)

// WriteAnimation writes one clip. Every joint block lists the present frames
// in ascending order, unkeyed frames are not emitted.
func WriteAnimation(w io.Writer, clip *asset.AnimationClip, cfg Config) error {
	tw := newTagWriter(w, cfg)
	frames := clip.FrameNumbers()

	if clip.Format != "" {
		tw.block("format", tw.token(clip.Format))
	}
	tw.block("framerate", formatFloat(clip.Framerate))
	if clip.Format != "" {
		repeat := "0"
		if clip.Repeat {
			repeat = "1"
		}
		tw.block("repeat", repeat)
	}

	tw.open("buffer")
	tw.printf("j %d\n", clip.JointCount)
	tw.printf("f %d\n", len(frames))
	tw.close("buffer")

	for j := 0; j < int(clip.JointCount); j++ {
		tw.open("animation")
		tw.printf("- %d\n", j)
		for _, f := range frames {
			pose := &clip.Frames[f].Poses[j]
			tw.vec3("r", pose.Rotation)
			tw.vec3("p", pose.Translation.Mul(cfg.Scale))
		}
		tw.close("animation")
	}

	return errors.Wrapf(tw.flush(), "writing animation %q", clip.Name)
}
