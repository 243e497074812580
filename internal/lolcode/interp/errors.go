package interp

import (
	"errors"
	"fmt"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

// latch is the single-slot cell holding the first error of a pass
type latch struct {
	err *mdwerror.Error
}

// set stores err if the cell is empty and reports whether it did
func (l *latch) set(err *mdwerror.Error) bool {
	if l.err != nil {
		return false
	}
	l.err = err
	return true
}

func (l *latch) first() *mdwerror.Error { return l.err }

// fail creates a coded error at line and records it in the latch
func (r *run) fail(code mdwerror.Code, line int, format string, args ...interface{}) error {
	err := mdwerror.New(fmt.Sprintf(format, args...)).WithCode(code).WithLine(line)
	r.latch.set(err)
	return err
}

// record attaches line to an error raised by a collaborator that does not
// know source positions, and records it in the latch
func (r *run) record(err error, line int) *mdwerror.Error {
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		e = mdwerror.Wrap(err, "internal error").WithCode(mdwerror.CodeInternal)
	}
	if e.Line() == 0 {
		e.WithLine(line)
	}
	r.latch.set(e)
	return e
}
