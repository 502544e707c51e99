package pose

import (
	"errors"
	"fmt"
)

// ErrNilSnapshot is returned by Apply when no snapshot was given.
var ErrNilSnapshot = errors.New("pose: nil snapshot")

// NotFoundError means a handle does not resolve to a live joint. Hosts
// return it from their collaborator methods; Capture and Apply pass it
// through untouched.
type NotFoundError struct {
	Node string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pose: joint %q not found", e.Node)
}

// TransformReadError wraps a host failure while reading a joint's
// transform or its children. Op is "transform" or "children".
type TransformReadError struct {
	Index int
	Node  string
	Op    string
	Err   error
}

func (e *TransformReadError) Error() string {
	return fmt.Sprintf("pose: reading %s of joint %q at position %d: %v", e.Op, e.Node, e.Index, e.Err)
}

func (e *TransformReadError) Unwrap() error {
	return e.Err
}

// TransformWriteError wraps a host failure while writing a joint. Written
// joints before Index keep their new values.
type TransformWriteError struct {
	Index int
	Node  string
	Err   error
}

func (e *TransformWriteError) Error() string {
	return fmt.Sprintf("pose: writing joint %q at position %d (%d joints already written): %v", e.Node, e.Index, e.Index, e.Err)
}

func (e *TransformWriteError) Unwrap() error {
	return e.Err
}

// SnapshotExhaustedError means the target hierarchy has more joints than
// the snapshot. Length joints were written before the walk stopped.
type SnapshotExhaustedError struct {
	Length int
	Node   string
}

func (e *SnapshotExhaustedError) Error() string {
	return fmt.Sprintf("pose: snapshot of %d joints exhausted at joint %q, target hierarchy is deeper than source (%d joints already written)", e.Length, e.Node, e.Length)
}

// SnapshotUnderconsumedError is returned by ApplyStrict when the target
// hierarchy has fewer joints than the snapshot. Every target joint was
// written.
type SnapshotUnderconsumedError struct {
	Length  int
	Written int
}

func (e *SnapshotUnderconsumedError) Error() string {
	return fmt.Sprintf("pose: target hierarchy consumed %d of %d snapshot entries", e.Written, e.Length)
}

// hostError keeps NotFoundError as is and wraps everything else.
func hostError(err error, wrap func(error) error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	return wrap(err)
}

func nodeName(node any) string {
	if s, ok := node.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", node)
}
