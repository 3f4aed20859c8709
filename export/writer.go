package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/encoding"
)

type tagWriter struct {
	w   *bufio.Writer
	enc *encoding.Encoder
}

func newTagWriter(w io.Writer, cfg Config) *tagWriter {
	tw := &tagWriter{w: bufio.NewWriter(w)}
	if cfg.Charmap != nil {
		tw.enc = encoding.ReplaceUnsupported(cfg.Charmap.NewEncoder())
	}
	return tw
}

func (tw *tagWriter) printf(format string, args ...interface{}) {
	tw.w.WriteString(fmt.Sprintf(format, args...))
}

func (tw *tagWriter) open(tag string)  { tw.printf("<%s>\n", tag) }
func (tw *tagWriter) close(tag string) { tw.printf("</%s>\n", tag) }

// block writes a tag holding a single value line.
func (tw *tagWriter) block(tag string, value string) {
	tw.open(tag)
	tw.printf("%s\n", value)
	tw.close(tag)
}

func (tw *tagWriter) float(key string, v float32) {
	tw.printf("%s %s\n", key, formatFloat(v))
}

func (tw *tagWriter) vec3(key string, v mgl32.Vec3) {
	tw.printf("%s %s %s %s\n", key, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
}

func (tw *tagWriter) text(s string) string {
	if tw.enc == nil {
		return s
	}
	if encoded, err := tw.enc.String(s); err == nil {
		return encoded
	}
	return s
}

// token makes s usable as a single space separated field that cannot be
// read back as a tag.
func (tw *tagWriter) token(s string) string {
	if s == "" {
		return "_"
	}
	return tw.text(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '<' {
			return '_'
		}
		return r
	}, s))
}

func (tw *tagWriter) flush() error {
	return tw.w.Flush()
}

func formatFloat(v float32) string {
	s := fmt.Sprintf("%.3f", v)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}
