package engine

import "asciiray/pkg/config"

// Camera is a pinhole camera looking down -Z at a planar viewport
type Camera struct {
	Position       Vector3
	ViewportHeight float64
	FocalLength    float64
}

// Viewport is the plane the camera shoots rays through for one resolution
type Viewport struct {
	LowerLeft  Vector3
	Horizontal Vector3
	Vertical   Vector3
}

// DefaultCamera returns the reference camera at the origin
func DefaultCamera() Camera {
	return NewCameraFromConfig(config.DefaultConfig().Camera)
}

// NewCameraFromConfig builds a camera from its YAML description
func NewCameraFromConfig(cfg config.CameraConfig) Camera {
	return Camera{
		Position:       vectorFromConfig(cfg.Position),
		ViewportHeight: cfg.ViewportHeight,
		FocalLength:    cfg.FocalLength,
	}
}

// Viewport computes the viewport for a width x height image.
// The viewport width follows the image aspect ratio; its height does not.
func (c Camera) Viewport(width, height int) Viewport {
	aspectRatio := float64(width) / float64(height)
	horizontal := Vector3{X: c.ViewportHeight * aspectRatio}
	vertical := Vector3{Y: c.ViewportHeight}

	lowerLeft := c.Position.
		Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5)).
		Add(Vector3{Z: -c.FocalLength})

	return Viewport{
		LowerLeft:  lowerLeft,
		Horizontal: horizontal,
		Vertical:   vertical,
	}
}

// RayDirection returns the unnormalized direction from the camera through
// pixel (x, y) of vp. Row 0 is the top of the image.
func (c Camera) RayDirection(vp Viewport, x, y, width, height int) Vector3 {
	u := pixelFraction(x, width)
	v := pixelFraction(height-1-y, height)

	return vp.LowerLeft.
		Add(vp.Horizontal.Mul(u)).
		Add(vp.Vertical.Mul(v)).
		Sub(c.Position)
}

// GetRay returns the normalized primary ray for pixel (x, y)
func (c Camera) GetRay(vp Viewport, x, y, width, height int) Ray {
	return Ray{
		Origin:    c.Position,
		Direction: c.RayDirection(vp, x, y, width, height).Normalize(),
	}
}

// pixelFraction maps i in [0, n) onto [0, 1]; a single pixel sits in the middle
func pixelFraction(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}
