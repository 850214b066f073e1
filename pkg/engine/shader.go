package engine

import (
	"math"

	"asciiray/internal/util"
)

// Shading constants
const (
	ShadowBias        = 0.001
	AmbientBrightness = 0.05
	SpecularHardness  = 32

	// MaxTraceDistance bounds primary rays
	MaxTraceDistance = 1e9

	skyBase  = 0.15
	skyRange = 0.35
)

// Shade returns the brightness of a hit point in [0,1] as seen from a camera
// at the origin. A point with anything between it and the light gets exactly
// AmbientBrightness.
func Shade(hit HitRecord, light Light, scene *Scene) float64 {
	brightness, _ := shade(hit, light, scene, Vector3{})
	return brightness
}

// ShadeFrom is Shade for a viewer at eye
func ShadeFrom(hit HitRecord, light Light, scene *Scene, eye Vector3) float64 {
	brightness, _ := shade(hit, light, scene, eye)
	return brightness
}

func shade(hit HitRecord, light Light, scene *Scene, eye Vector3) (float64, bool) {
	toLight := light.Position.Sub(hit.Point)
	lightDist := toLight.Length()
	lightDir := toLight.Normalize()

	shadowRay := Ray{
		Origin:    hit.Point.Add(hit.Normal.Mul(ShadowBias)),
		Direction: lightDir,
	}
	if Occluded(scene, shadowRay, ShadowBias, lightDist-ShadowBias) {
		return AmbientBrightness, true
	}

	nDotL := hit.Normal.Dot(lightDir)
	diffuse := math.Max(0, nDotL) * hit.Albedo

	viewDir := eye.Sub(hit.Point).Normalize()
	reflectDir := hit.Normal.Mul(2 * nDotL).Sub(lightDir).Normalize()
	specular := powi(math.Max(0, viewDir.Dot(reflectDir)), SpecularHardness) * hit.Specular

	return clamp01((diffuse+specular)*light.Luminance() + AmbientBrightness), false
}

// SkyBrightness is the vertical gradient seen by rays that hit nothing
func SkyBrightness(ray Ray) float64 {
	t := 0.5 * (ray.Direction.Y + 1.0)
	return clamp01(skyBase + skyRange*(1.0-t))
}

// Trace returns the brightness seen along ray
func Trace(scene *Scene, ray Ray) float64 {
	brightness, _, _ := trace(scene, ray)
	return brightness
}

// trace also reports whether the ray hit geometry and whether the hit was shadowed
func trace(scene *Scene, ray Ray) (brightness float64, hit HitRecord, shadowed bool) {
	rec, ok := IntersectScene(scene, ray, ShadowBias, MaxTraceDistance)
	if !ok {
		return SkyBrightness(ray), HitRecord{T: -1}, false
	}
	brightness, shadowed = shade(rec, scene.Light, scene, ray.Origin)
	return brightness, rec, shadowed
}

// powi raises base to a small non-negative integer power
func powi(base float64, exp int) float64 {
	result := 1.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return util.Clamp(v, 0, 1)
}
