package rigBuilder

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/voodooEntity/gits/src/storage"
	"github.com/voodooEntity/gits/src/transport"

	"github.com/voodooEntity/rigpose/src/system/pose"
)

const (
	JOINT_TYPE    = "Joint"
	JOINT_CONTEXT = "Rig"
	// PROPERTY_ORDER holds the sibling index of a joint below its parent.
	PROPERTY_ORDER = "Order"
)

var (
	translateKeys = [3]string{"TranslateX", "TranslateY", "TranslateZ"}
	rotateKeys    = [3]string{"RotateX", "RotateY", "RotateZ"}
)

type Joint struct {
	Name      string
	Translate mgl64.Vec3
	Rotate    mgl64.Vec3
	Children  []*Joint
}

func NewJoint(name string) *Joint {
	return &Joint{
		Name:     name,
		Children: make([]*Joint, 0),
	}
}

func (j *Joint) SetTranslate(x, y, z float64) *Joint {
	j.Translate = mgl64.Vec3{x, y, z}
	return j
}

func (j *Joint) SetRotate(x, y, z float64) *Joint {
	j.Rotate = mgl64.Vec3{x, y, z}
	return j
}

func (j *Joint) SetTransform(transform pose.LocalTransform) *Joint {
	j.Translate = transform.Translate
	j.Rotate = transform.Rotate
	return j
}

func (j *Joint) Transform() pose.LocalTransform {
	return pose.LocalTransform{Translate: j.Translate, Rotate: j.Rotate}
}

func (j *Joint) AddChild(child *Joint) *Joint {
	j.Children = append(j.Children, child)
	return j
}

// Count returns the number of joints in this subtree, j included.
func (j *Joint) Count() int {
	count := 0
	stack := []*Joint{j}
	for 0 < len(stack) {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, curr.Children...)
	}
	return count
}

// Build renders the hierarchy as a transport tree ready to be mapped into
// gits. Every joint is force-created and carries its sibling index.
func (j *Joint) Build() transport.TransportEntity {
	return j.build(0)
}

func (j *Joint) build(order int) transport.TransportEntity {
	properties := EncodeTransform(make(map[string]string), j.Transform())
	properties[PROPERTY_ORDER] = strconv.Itoa(order)

	entity := transport.TransportEntity{
		ID:             storage.MAP_FORCE_CREATE,
		Type:           JOINT_TYPE,
		Value:          j.Name,
		Context:        JOINT_CONTEXT,
		Properties:     properties,
		ChildRelations: make([]transport.TransportRelation, 0, len(j.Children)),
	}
	for index, child := range j.Children {
		entity.ChildRelations = append(entity.ChildRelations, transport.TransportRelation{
			Context: JOINT_CONTEXT,
			Target:  child.build(index),
		})
	}
	return entity
}

// EncodeTransform writes transform into properties. Values are formatted
// with the shortest representation that parses back to the same float64.
func EncodeTransform(properties map[string]string, transform pose.LocalTransform) map[string]string {
	for axis := 0; axis < 3; axis++ {
		properties[translateKeys[axis]] = strconv.FormatFloat(transform.Translate[axis], 'g', -1, 64)
		properties[rotateKeys[axis]] = strconv.FormatFloat(transform.Rotate[axis], 'g', -1, 64)
	}
	return properties
}

// DecodeTransform reads a transform written by EncodeTransform. Missing
// keys read as zero.
func DecodeTransform(properties map[string]string) (pose.LocalTransform, error) {
	var transform pose.LocalTransform
	for axis := 0; axis < 3; axis++ {
		var err error
		if transform.Translate[axis], err = parseAxis(properties, translateKeys[axis]); err != nil {
			return pose.LocalTransform{}, err
		}
		if transform.Rotate[axis], err = parseAxis(properties, rotateKeys[axis]); err != nil {
			return pose.LocalTransform{}, err
		}
	}
	return transform, nil
}

func parseAxis(properties map[string]string, key string) (float64, error) {
	raw, ok := properties[key]
	if !ok || raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// UpdateFields lists the gits update fields for transform, in the order
// Set should be applied.
func UpdateFields(transform pose.LocalTransform) [][2]string {
	encoded := EncodeTransform(make(map[string]string), transform)
	fields := make([][2]string, 0, 6)
	for _, key := range append(translateKeys[:], rotateKeys[:]...) {
		fields = append(fields, [2]string{"Properties." + key, encoded[key]})
	}
	return fields
}
