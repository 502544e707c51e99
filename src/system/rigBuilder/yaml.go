package rigBuilder

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type rigFile struct {
	Rigs []jointSpec `yaml:"rigs"`
}

type jointSpec struct {
	Name      string      `yaml:"name"`
	Translate []float64   `yaml:"translate"`
	Rotate    []float64   `yaml:"rotate"`
	Children  []jointSpec `yaml:"children"`
}

// LoadYAML reads rig fixtures of the form
//
//	rigs:
//	  - name: hip
//	    translate: [0, 1, 0]
//	    rotate: [0, 0, 0]
//	    children:
//	      - name: knee
//
// Omitted vectors are zero.
func LoadYAML(r io.Reader) ([]*Joint, error) {
	var file rigFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding rig yaml: %w", err)
	}

	rigs := make([]*Joint, 0, len(file.Rigs))
	for i := range file.Rigs {
		joint, err := file.Rigs[i].toJoint("rigs[" + fmt.Sprint(i) + "]")
		if err != nil {
			return nil, err
		}
		rigs = append(rigs, joint)
	}
	return rigs, nil
}

func (spec *jointSpec) toJoint(path string) (*Joint, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("rig yaml %s: joint without name", path)
	}
	path = path + "." + spec.Name

	joint := NewJoint(spec.Name)
	translate, err := vector(spec.Translate, path, "translate")
	if err != nil {
		return nil, err
	}
	rotate, err := vector(spec.Rotate, path, "rotate")
	if err != nil {
		return nil, err
	}
	joint.SetTranslate(translate[0], translate[1], translate[2]).SetRotate(rotate[0], rotate[1], rotate[2])

	for i := range spec.Children {
		child, err := spec.Children[i].toJoint(path)
		if err != nil {
			return nil, err
		}
		joint.AddChild(child)
	}
	return joint, nil
}

func vector(values []float64, path string, field string) ([3]float64, error) {
	var v [3]float64
	switch len(values) {
	case 0:
		return v, nil
	case 3:
		copy(v[:], values)
		return v, nil
	default:
		return v, fmt.Errorf("rig yaml %s: %s needs 3 components, got %d", path, field, len(values))
	}
}
