package engine

import (
	"math"
	"testing"
)

func TestIntersectSphere_TowardCenter(t *testing.T) {
	tests := []struct {
		name   string
		origin Vector3
		center Vector3
		radius float64
	}{
		{"down -z", V(0, 0, 0), V(0, 0, -5), 1},
		{"diagonal", V(1, 2, 3), V(-3, 5, -2), 0.75},
		{"large sphere", V(0, 0, 0), V(0, -100.5, -2.5), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := Sphere{Center: tt.center, Radius: tt.radius, Albedo: 0.3, Specular: 0.7}
			toCenter := tt.center.Sub(tt.origin)
			ray := Ray{Origin: tt.origin, Direction: toCenter.Normalize()}

			hit, ok := IntersectSphere(sphere, ray, ShadowBias, MaxTraceDistance)
			if !ok {
				t.Fatal("Expected hit, but got miss")
			}

			expectedT := toCenter.Length() - tt.radius
			if math.Abs(hit.T-expectedT) > 1e-6 {
				t.Errorf("Expected t=%f, got t=%f", expectedT, hit.T)
			}

			// Outward normal faces back along the ray
			if d := hit.Normal.Dot(ray.Direction); math.Abs(d+1) > 1e-9 {
				t.Errorf("Expected normal anti-parallel to ray, dot=%f", d)
			}
			if !vecNear(hit.Point, ray.At(hit.T), 1e-9) {
				t.Errorf("Point %v not on ray at t=%f", hit.Point, hit.T)
			}
			if hit.Albedo != 0.3 || hit.Specular != 0.7 {
				t.Errorf("Material not copied: albedo=%v specular=%v", hit.Albedo, hit.Specular)
			}
		})
	}
}

func TestIntersectSphere_Miss(t *testing.T) {
	sphere := Sphere{Center: V(0, 0, -5), Radius: 1}
	ray := Ray{Origin: V(0, 2, 0), Direction: V(0, 0, -1)}

	if hit, ok := IntersectSphere(sphere, ray, ShadowBias, MaxTraceDistance); ok {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
}

func TestIntersectSphere_RootFallback(t *testing.T) {
	sphere := Sphere{Center: V(0, 0, 0), Radius: 1}

	// From inside, the near root is negative so the far root is used
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 0, 1)}
	hit, ok := IntersectSphere(sphere, ray, ShadowBias, MaxTraceDistance)
	if !ok {
		t.Fatal("Expected exit hit from inside the sphere")
	}
	if math.Abs(hit.T-1) > tolerance {
		t.Errorf("Expected t=1, got %f", hit.T)
	}
	if !vecNear(hit.Normal, V(0, 0, 1), tolerance) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}

func TestIntersectSphere_Range(t *testing.T) {
	sphere := Sphere{Center: V(0, 0, -5), Radius: 1}
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 0, -1)}

	tests := []struct {
		name      string
		tMin      float64
		tMax      float64
		expectHit bool
		expectedT float64
	}{
		{"both roots in range", 0, 10, true, 4},
		{"tMax before sphere", 0, 3.5, false, 0},
		{"tMin past near root", 4.5, 10, true, 6},
		{"tMin past both roots", 6.5, 10, false, 0},
		{"range between roots", 4.5, 5.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := IntersectSphere(sphere, ray, tt.tMin, tt.tMax)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if ok && math.Abs(hit.T-tt.expectedT) > tolerance {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestIntersectSphere_ZeroDirection(t *testing.T) {
	sphere := Sphere{Center: V(0, 0, 0), Radius: 1}
	ray := Ray{Origin: V(0, 0, 0.5), Direction: Vector3{}}

	if _, ok := IntersectSphere(sphere, ray, 0, MaxTraceDistance); ok {
		t.Error("Expected zero-length direction to report no hit")
	}
}

func TestIntersectScene_Nearest(t *testing.T) {
	far := Sphere{Center: V(0, 0, -10), Radius: 1, Albedo: 0.1}
	near := Sphere{Center: V(0, 0, -4), Radius: 1, Albedo: 0.9}
	scene := &Scene{Spheres: []Sphere{far, near}}
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 0, -1)}

	hit, ok := IntersectScene(scene, ray, ShadowBias, MaxTraceDistance)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-3) > tolerance || hit.Albedo != 0.9 {
		t.Errorf("Expected nearest sphere at t=3 albedo 0.9, got t=%f albedo %v", hit.T, hit.Albedo)
	}
}

func TestIntersectScene_TieGoesToFirst(t *testing.T) {
	a := Sphere{Center: V(0, 0, -4), Radius: 1, Albedo: 0.2}
	b := Sphere{Center: V(0, 0, -4), Radius: 1, Albedo: 0.8}
	scene := &Scene{Spheres: []Sphere{a, b}}
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 0, -1)}

	hit, ok := IntersectScene(scene, ray, ShadowBias, MaxTraceDistance)
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Albedo != 0.2 {
		t.Errorf("Expected first sphere to win the tie, got albedo %v", hit.Albedo)
	}
}

func TestIntersectScene_MissEverything(t *testing.T) {
	scene := ReferenceScene()
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 1, 0)}

	if hit, ok := IntersectScene(scene, ray, ShadowBias, MaxTraceDistance); ok {
		t.Errorf("Expected upward ray to miss, got t=%f", hit.T)
	}
	if got, want := Trace(scene, ray), SkyBrightness(ray); got != want {
		t.Errorf("Expected sky brightness %v, got %v", want, got)
	}
}

func TestOccluded(t *testing.T) {
	scene := &Scene{Spheres: []Sphere{{Center: V(0, 0, -5), Radius: 1}}}
	ray := Ray{Origin: V(0, 0, 0), Direction: V(0, 0, -1)}

	if !Occluded(scene, ray, 0, 10) {
		t.Error("Expected occlusion")
	}
	if Occluded(scene, ray, 0, 3) {
		t.Error("Expected no occlusion before the sphere")
	}
}
