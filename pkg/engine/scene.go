package engine

import (
	"errors"
	"fmt"

	"asciiray/pkg/config"
)

// ErrInvalidScene is returned when a scene fails validation
var ErrInvalidScene = errors.New("invalid scene")

// Luminance weights applied to the light color channels
const (
	lumaR = 0.6
	lumaG = 0.3
	lumaB = 0.1
)

// Sphere is the only primitive the renderer knows about
type Sphere struct {
	Center   Vector3
	Radius   float64
	Albedo   float64 // diffuse reflectance, 0..1
	Specular float64 // highlight strength, 0..1
}

// Distance returns the signed distance from point to the sphere surface,
// negative inside
func (s Sphere) Distance(point Vector3) float64 {
	return point.Sub(s.Center).Length() - s.Radius
}

// Contains reports whether point is inside or on the sphere
func (s Sphere) Contains(point Vector3) bool {
	return s.Distance(point) <= 0
}

// Light is a single point light. Color channels are weights, not output channels.
type Light struct {
	Position Vector3
	Color    Vector3
}

// Luminance folds the light color into one monochrome weight
func (l Light) Luminance() float64 {
	return lumaR*l.Color.X + lumaG*l.Color.Y + lumaB*l.Color.Z
}

// Scene is an ordered set of spheres lit by one light.
// It is never modified after NewScene returns.
type Scene struct {
	Spheres []Sphere
	Light   Light
}

// NewScene validates the spheres and light and returns an immutable scene
func NewScene(spheres []Sphere, light Light) (*Scene, error) {
	if len(spheres) == 0 {
		return nil, fmt.Errorf("%w: no spheres", ErrInvalidScene)
	}

	for i, s := range spheres {
		if !(s.Radius > 0) {
			return nil, fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidScene, i, s.Radius)
		}
		if !inUnitRange(s.Albedo) {
			return nil, fmt.Errorf("%w: sphere %d albedo %v outside [0,1]", ErrInvalidScene, i, s.Albedo)
		}
		if !inUnitRange(s.Specular) {
			return nil, fmt.Errorf("%w: sphere %d specular %v outside [0,1]", ErrInvalidScene, i, s.Specular)
		}
	}

	c := light.Color
	if !inUnitRange(c.X) || !inUnitRange(c.Y) || !inUnitRange(c.Z) {
		return nil, fmt.Errorf("%w: light color %v outside [0,1]", ErrInvalidScene, c)
	}

	// Copy so callers can't mutate the scene through their slice
	owned := make([]Sphere, len(spheres))
	copy(owned, spheres)

	return &Scene{Spheres: owned, Light: light}, nil
}

// ReferenceScene returns the canonical scene: a huge ground sphere and four
// smaller spheres lit from the upper right.
func ReferenceScene() *Scene {
	scene, err := NewSceneFromConfig(config.DefaultConfig().Scene)
	if err != nil {
		// The defaults are constants; failing here is a programming error
		panic(err)
	}
	return scene
}

// NewSceneFromConfig builds a scene from its YAML description
func NewSceneFromConfig(cfg config.SceneConfig) (*Scene, error) {
	spheres := make([]Sphere, 0, len(cfg.Spheres))
	for _, sc := range cfg.Spheres {
		spheres = append(spheres, Sphere{
			Center:   vectorFromConfig(sc.Center),
			Radius:   sc.Radius,
			Albedo:   sc.Albedo,
			Specular: sc.Specular,
		})
	}

	light := Light{
		Position: vectorFromConfig(cfg.Light.Position),
		Color:    vectorFromConfig(cfg.Light.Color),
	}

	return NewScene(spheres, light)
}

// Enclosing returns the indices of spheres containing point. A camera or light
// inside a sphere sees only that sphere's interior.
func (sc *Scene) Enclosing(point Vector3) []int {
	var idx []int
	for i, s := range sc.Spheres {
		if s.Contains(point) {
			idx = append(idx, i)
		}
	}
	return idx
}

func vectorFromConfig(v config.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
