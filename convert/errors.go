package convert

import (
	"github.com/pkg/errors"

	"github.com/mogaika/rigconv/asset"
)

var (
	ErrCapacityExceeded = asset.ErrCapacityExceeded
	ErrMappingMismatch  = errors.New("mapping mismatch")
	ErrUnresolvedJoint  = errors.New("unresolved joint reference")
	ErrEmptyScene       = errors.New("scene has no root node")
)

// Report collects the non-fatal problems found during a conversion.
type Report struct {
	Warnings []error

	log *Logger
}

func NewReport(log *Logger) *Report {
	return &Report{log: log}
}

func (r *Report) Warn(err error) {
	if r == nil {
		return
	}
	r.Warnings = append(r.Warnings, err)
	r.log.Printf("warning: %v", err)
}

func (r *Report) Logf(format string, a ...interface{}) {
	if r != nil {
		r.log.Printf(format, a...)
	}
}

// Count returns how many warnings have cause as their root.
func (r *Report) Count(cause error) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, w := range r.Warnings {
		if errors.Cause(w) == cause {
			n++
		}
	}
	return n
}
