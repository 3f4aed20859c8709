package convert

import (
	"fmt"
	"io"
)

// Logger writes conversion diagnostics. A nil *Logger discards everything.
type Logger struct {
	io.Writer
}

func NewLogger(w io.Writer) *Logger {
	if w == nil {
		return nil
	}
	return &Logger{Writer: w}
}

func (l *Logger) Println(a ...interface{}) {
	if l != nil {
		fmt.Fprintln(l, a...)
	}
}
func (l *Logger) Printf(format string, a ...interface{}) {
	if l != nil {
		fmt.Fprintf(l, format+"\n", a...)
	}
}
