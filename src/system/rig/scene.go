// Package rig is an in-memory host scene holding skeletal rigs. Joints are
// gits entities, parent to child edges are gits relations. Scene
// implements the pose host interfaces with Joint as the handle type.
package rig

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/gits/src/query"
	"github.com/voodooEntity/gits/src/storage"
	"github.com/voodooEntity/gits/src/transport"

	"github.com/voodooEntity/rigpose/src/system/archivist"
	"github.com/voodooEntity/rigpose/src/system/pose"
	"github.com/voodooEntity/rigpose/src/system/rigBuilder"
)

// Joint is the gits entity ID of a joint.
type Joint int

func (j Joint) String() string {
	return "Joint#" + strconv.Itoa(int(j))
}

func (j Joint) id() string {
	return strconv.Itoa(int(j))
}

// AmbiguousNameError is returned by Resolve when several joints share a
// name.
type AmbiguousNameError struct {
	Name    string
	Matches []Joint
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("rig: name %q matches %d joints %v", e.Name, len(e.Matches), e.Matches)
}

type Scene struct {
	Gits *gits.Gits
	log  *archivist.Archivist
}

// New creates a scene on a fresh gits instance named ident. gits keeps
// every named instance registered for the life of the process.
func New(ident string, logger *archivist.Archivist) *Scene {
	return NewWithGits(gits.NewInstance(ident), logger)
}

// NewWithGits creates a scene on an existing gits instance, so several
// scenes over time can share one storage.
func NewWithGits(instance *gits.Gits, logger *archivist.Archivist) *Scene {
	if logger == nil {
		logger = archivist.Discard()
	}
	return &Scene{
		Gits: instance,
		log:  logger,
	}
}

// AddRig maps a whole hierarchy into the scene as a new rig and returns
// its root.
func (s *Scene) AddRig(root *rigBuilder.Joint) (Joint, error) {
	mapped := s.Gits.MapData(root.Build())
	if mapped.ID <= 0 {
		return 0, fmt.Errorf("rig: mapping rig %q returned no id", root.Name)
	}
	s.log.Info("Added rig "+root.Name, root.Count())
	return Joint(mapped.ID), nil
}

// AddRoot creates a joint without parent.
func (s *Scene) AddRoot(name string, transform pose.LocalTransform) (Joint, error) {
	return s.create(name, transform, 0)
}

// AddJoint creates a joint as the last child of parent.
func (s *Scene) AddJoint(parent Joint, name string, transform pose.LocalTransform) (Joint, error) {
	siblings, err := s.Children(parent)
	if err != nil {
		return 0, err
	}
	child, err := s.create(name, transform, len(siblings))
	if err != nil {
		return 0, err
	}
	qry := query.New().Link(rigBuilder.JOINT_TYPE).Match("ID", "==", parent.id()).To(
		query.New().Find(rigBuilder.JOINT_TYPE).Match("ID", "==", child.id()),
	)
	s.Gits.Query().Execute(qry)
	s.log.Debug(archivist.DEBUG_LEVEL_TRACE, "rig linked", parent, child)
	return child, nil
}

func (s *Scene) create(name string, transform pose.LocalTransform, order int) (Joint, error) {
	properties := rigBuilder.EncodeTransform(make(map[string]string), transform)
	properties[rigBuilder.PROPERTY_ORDER] = strconv.Itoa(order)
	mapped := s.Gits.MapData(transport.TransportEntity{
		ID:         storage.MAP_FORCE_CREATE,
		Type:       rigBuilder.JOINT_TYPE,
		Value:      name,
		Context:    rigBuilder.JOINT_CONTEXT,
		Properties: properties,
	})
	if mapped.ID <= 0 {
		return 0, fmt.Errorf("rig: mapping joint %q returned no id", name)
	}
	return Joint(mapped.ID), nil
}

// Resolve turns a joint name into a handle.
func (s *Scene) Resolve(name string) (Joint, error) {
	res := s.Gits.Query().Execute(query.New().Read(rigBuilder.JOINT_TYPE).Match("Value", "==", name))
	switch {
	case res.Amount == 0:
		return 0, &pose.NotFoundError{Node: name}
	case res.Amount > 1:
		matches := make([]Joint, 0, len(res.Entities))
		for _, entity := range res.Entities {
			matches = append(matches, Joint(entity.ID))
		}
		sortJoints(matches)
		return 0, &AmbiguousNameError{Name: name, Matches: matches}
	}
	return Joint(res.Entities[0].ID), nil
}

// Name returns the name of joint.
func (s *Scene) Name(joint Joint) (string, error) {
	entity, err := s.read(joint)
	if err != nil {
		return "", err
	}
	return entity.Value, nil
}

// Roots lists every joint that has no parent joint, in creation order.
func (s *Scene) Roots() ([]Joint, error) {
	all := s.Gits.Query().Execute(query.New().Read(rigBuilder.JOINT_TYPE))
	parented := s.Gits.Query().Execute(query.New().Read(rigBuilder.JOINT_TYPE).From(
		query.New().Read(rigBuilder.JOINT_TYPE),
	))

	hasParent := make(map[int]bool, parented.Amount)
	for _, entity := range parented.Entities {
		hasParent[entity.ID] = true
	}
	roots := make([]Joint, 0)
	for _, entity := range all.Entities {
		if !hasParent[entity.ID] {
			roots = append(roots, Joint(entity.ID))
		}
	}
	sortJoints(roots)
	return roots, nil
}

// LocalTransform reads the transform of joint.
func (s *Scene) LocalTransform(joint Joint) (pose.LocalTransform, error) {
	entity, err := s.read(joint)
	if err != nil {
		return pose.LocalTransform{}, err
	}
	transform, err := rigBuilder.DecodeTransform(entity.Properties)
	if err != nil {
		return pose.LocalTransform{}, fmt.Errorf("rig: decoding %s (%s): %w", joint, entity.Value, err)
	}
	s.log.DebugF(archivist.DEBUG_LEVEL_DETAIL, "rig read %s %s", entity.Value, transform)
	return transform, nil
}

// Children returns the direct child joints ordered by sibling index. The
// relation is read live on every call.
func (s *Scene) Children(joint Joint) ([]Joint, error) {
	if _, err := s.read(joint); err != nil {
		return nil, err
	}
	qry := query.New().Read(rigBuilder.JOINT_TYPE).Match("ID", "==", joint.id()).To(
		query.New().Read(rigBuilder.JOINT_TYPE),
	)
	res := s.Gits.Query().Execute(qry)
	if 0 == res.Amount {
		return []Joint{}, nil
	}

	type childWithOrder struct {
		joint Joint
		order int
	}
	children := make([]childWithOrder, 0, len(res.Entities[0].ChildRelations))
	for _, child := range res.Entities[0].Children() {
		order, err := strconv.Atoi(child.Properties[rigBuilder.PROPERTY_ORDER])
		if err != nil {
			return nil, fmt.Errorf("rig: joint %s has invalid %s %q: %w", child.Value, rigBuilder.PROPERTY_ORDER, child.Properties[rigBuilder.PROPERTY_ORDER], err)
		}
		children = append(children, childWithOrder{joint: Joint(child.ID), order: order})
	}
	// equal order only happens for hand-mapped data, fall back to creation order
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].order != children[j].order {
			return children[i].order < children[j].order
		}
		return children[i].joint < children[j].joint
	})

	ret := make([]Joint, 0, len(children))
	for _, child := range children {
		ret = append(ret, child.joint)
	}
	return ret, nil
}

// SetLocalTransform overwrites the transform of joint. The update is
// visible to every following read.
func (s *Scene) SetLocalTransform(joint Joint, transform pose.LocalTransform) error {
	if _, err := s.read(joint); err != nil {
		return err
	}
	qry := query.New().Update(rigBuilder.JOINT_TYPE).Match("ID", "==", joint.id())
	for _, field := range rigBuilder.UpdateFields(transform) {
		qry = qry.Set(field[0], field[1])
	}
	s.Gits.Query().Execute(qry)
	s.log.DebugF(archivist.DEBUG_LEVEL_DETAIL, "rig wrote %s %s", joint, transform)
	return nil
}

// Export returns the hierarchy below root as a builder tree, with current
// transforms.
func (s *Scene) Export(root Joint) (*rigBuilder.Joint, error) {
	type frame struct {
		joint  Joint
		parent *rigBuilder.Joint
	}
	var top *rigBuilder.Joint
	stack := []frame{{joint: root}}
	for 0 < len(stack) {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entity, err := s.read(curr.joint)
		if err != nil {
			return nil, err
		}
		transform, err := rigBuilder.DecodeTransform(entity.Properties)
		if err != nil {
			return nil, err
		}
		node := rigBuilder.NewJoint(entity.Value).SetTransform(transform)
		if curr.parent == nil {
			top = node
		} else {
			curr.parent.AddChild(node)
		}

		children, err := s.Children(curr.joint)
		if err != nil {
			return nil, err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{joint: children[i], parent: node})
		}
	}
	return top, nil
}

func (s *Scene) read(joint Joint) (transport.TransportEntity, error) {
	res := s.Gits.Query().Execute(query.New().Read(rigBuilder.JOINT_TYPE).Match("ID", "==", joint.id()))
	if 0 == res.Amount {
		return transport.TransportEntity{}, &pose.NotFoundError{Node: joint.String()}
	}
	return res.Entities[0], nil
}

// IsNotFound reports whether err means a joint or name did not resolve.
func IsNotFound(err error) bool {
	var notFound *pose.NotFoundError
	return errors.As(err, &notFound)
}

func sortJoints(joints []Joint) {
	sort.Slice(joints, func(i, j int) bool { return joints[i] < joints[j] })
}
