package config

import "fmt"

// Vec3 is a 3-component vector written in YAML as a flow list: [x, y, z]
type Vec3 [3]float64

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Vec3) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var xs []float64
	if err := unmarshal(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("vector needs 3 components, got %d", len(xs))
	}
	copy(v[:], xs)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (v Vec3) MarshalYAML() (interface{}, error) {
	return []float64{v[0], v[1], v[2]}, nil
}
