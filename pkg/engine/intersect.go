package engine

import "math"

// Ray represents a ray in 3D space. Direction should be unit length when the
// ray is used for intersection; the type does not enforce it.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitRecord describes the nearest intersection found for one query
type HitRecord struct {
	T        float64
	Point    Vector3
	Normal   Vector3 // outward, unit length
	Albedo   float64
	Specular float64
}

// IntersectSphere returns the nearest intersection of ray with s whose parameter
// lies in [tMin, tMax].
func IntersectSphere(s Sphere, ray Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Sub(s.Center)

	// t^2*dot(d,d) + 2*t*dot(oc,d) + dot(oc,oc) - r^2 = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Zero direction makes the equation degenerate
	if a == 0 {
		return HitRecord{}, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	t := (-b - sqrtD) / (2.0 * a)
	if t < tMin || t > tMax {
		t = (-b + sqrtD) / (2.0 * a)
		if t < tMin || t > tMax {
			return HitRecord{}, false
		}
	}

	point := ray.At(t)
	return HitRecord{
		T:        t,
		Point:    point,
		Normal:   point.Sub(s.Center).Normalize(),
		Albedo:   s.Albedo,
		Specular: s.Specular,
	}, true
}

// IntersectScene returns the nearest hit over all spheres. Among spheres at the
// same distance the first one in scene order wins.
func IntersectScene(scene *Scene, ray Ray, tMin, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	found := false

	for _, s := range scene.Spheres {
		hit, ok := IntersectSphere(s, ray, tMin, tMax)
		// Strictly nearer only, so the earlier sphere keeps a tie
		if !ok || (found && hit.T >= closest.T) {
			continue
		}
		found = true
		closest = hit
		tMax = hit.T
	}

	return closest, found
}

// Occluded reports whether any sphere intersects ray within [tMin, tMax]
func Occluded(scene *Scene, ray Ray, tMin, tMax float64) bool {
	for _, s := range scene.Spheres {
		if _, ok := IntersectSphere(s, ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}
