// Package pose copies the local transform state of a joint hierarchy from
// one rig onto another. Joints are matched purely by their position in a
// pre-order depth-first traversal; names and topology are never compared.
//
// The host scene is reached through the Lister, Reader and Writer
// interfaces. The node handle type N is opaque to this package.
package pose

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Lister returns the children of a joint in host order. A leaf joint
// returns an empty slice.
type Lister[N any] interface {
	Children(node N) ([]N, error)
}

// Reader is the capture side of a host.
type Reader[N any] interface {
	Lister[N]
	LocalTransform(node N) (LocalTransform, error)
}

// Writer is the apply side of a host. Every call is an immediately
// committed mutation.
type Writer[N any] interface {
	Lister[N]
	SetLocalTransform(node N, transform LocalTransform) error
}

// LocalTransform is a joint's translation and rotation relative to its
// parent. Rotate is kept in the host's own order and units.
type LocalTransform struct {
	Translate mgl64.Vec3
	Rotate    mgl64.Vec3
}

func NewLocalTransform(tx, ty, tz, rx, ry, rz float64) LocalTransform {
	return LocalTransform{
		Translate: mgl64.Vec3{tx, ty, tz},
		Rotate:    mgl64.Vec3{rx, ry, rz},
	}
}

func (t LocalTransform) String() string {
	return fmt.Sprintf("t(%g,%g,%g) r(%g,%g,%g)",
		t.Translate[0], t.Translate[1], t.Translate[2],
		t.Rotate[0], t.Rotate[1], t.Rotate[2])
}

// Snapshot is the ordered result of one Capture: entry i holds the
// transform of the i-th joint visited. It is never modified after
// creation; all accessors hand out copies.
type Snapshot[N any] struct {
	transforms []LocalTransform
	// source handles, diagnostics only. Apply never looks at them.
	nodes []N
}

// NewSnapshot builds a snapshot from transforms in traversal order. The
// slice is copied.
func NewSnapshot[N any](transforms []LocalTransform) *Snapshot[N] {
	return &Snapshot[N]{
		transforms: append([]LocalTransform(nil), transforms...),
	}
}

func (s *Snapshot[N]) Len() int {
	return len(s.transforms)
}

// At returns the entry at traversal position i. It panics when i is out of
// range, like a slice index.
func (s *Snapshot[N]) At(i int) LocalTransform {
	return s.transforms[i]
}

func (s *Snapshot[N]) Transforms() []LocalTransform {
	return append([]LocalTransform(nil), s.transforms...)
}

// Nodes returns the source joint handles in traversal order. Empty for
// snapshots built with NewSnapshot.
func (s *Snapshot[N]) Nodes() []N {
	return append([]N(nil), s.nodes...)
}
