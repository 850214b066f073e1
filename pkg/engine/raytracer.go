package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"asciiray/pkg/config"
)

// ErrInvalidResolution is returned for a zero or negative frame size
var ErrInvalidResolution = errors.New("invalid resolution")

// ErrNoScene is returned when tracing without a scene
var ErrNoScene = errors.New("no scene set")

// Raytracer casts one primary ray per pixel and shades the result
type Raytracer struct {
	config config.RaytracerConfig
	camera Camera
	scene  *Scene
	width  int
	height int
	mutex  sync.Mutex
}

// NewRaytracer creates a new raytracer with the given configuration
func NewRaytracer(cfg config.RaytracerConfig, camera Camera) (*Raytracer, error) {
	if err := checkResolution(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	return &Raytracer{
		config: cfg,
		camera: camera,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

// UpdateResolution updates the resolution of the raytracer
func (rt *Raytracer) UpdateResolution(width, height int) error {
	if err := checkResolution(width, height); err != nil {
		return err
	}

	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	rt.width = width
	rt.height = height
	rt.config.Width = width
	rt.config.Height = height
	return nil
}

// SetScene sets the scene to trace
func (rt *Raytracer) SetScene(scene *Scene) {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	rt.scene = scene
}

// SetCamera replaces the camera
func (rt *Raytracer) SetCamera(camera Camera) {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	rt.camera = camera
}

// TraceScene traces every pixel of the frame. Rows are split between
// goroutines; each goroutine writes only its own rows.
func (rt *Raytracer) TraceScene() (*SceneData, error) {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	if rt.scene == nil {
		return nil, ErrNoScene
	}

	start := time.Now()
	sceneData := NewSceneData(rt.width, rt.height)

	numGoroutines := rt.workerCount()
	rowsPerGoroutine := rt.height / numGoroutines
	viewport := rt.camera.Viewport(rt.width, rt.height)

	var wg sync.WaitGroup
	for g := 0; g < numGoroutines; g++ {
		startRow := g * rowsPerGoroutine
		endRow := startRow + rowsPerGoroutine
		if g == numGoroutines-1 {
			endRow = rt.height // last goroutine picks up the remainder
		}

		wg.Add(1)
		go func(startRow, endRow int) {
			defer wg.Done()
			for y := startRow; y < endRow; y++ {
				rt.traceRow(sceneData.Pixels[y], y, viewport)
			}
		}(startRow, endRow)
	}
	wg.Wait()

	sceneData.Stats.Workers = numGoroutines
	sceneData.Stats.Elapsed = time.Since(start)
	sceneData.collectStats()

	return sceneData, nil
}

func (rt *Raytracer) traceRow(row []TracedPixel, y int, viewport Viewport) {
	for x := range row {
		ray := rt.camera.GetRay(viewport, x, y, rt.width, rt.height)
		brightness, hit, shadowed := trace(rt.scene, ray)

		row[x] = TracedPixel{
			X:         x,
			Y:         y,
			Intensity: brightness,
			Hit:       hit.T >= 0,
			Shadowed:  shadowed,
			Depth:     hit.T,
			Normal:    hit.Normal,
		}
	}
}

// workerCount never exceeds the number of rows so each goroutine gets work
func (rt *Raytracer) workerCount() int {
	n := rt.config.NumThreads
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > rt.height {
		n = rt.height
	}
	return n
}

// Render traces scene through camera at the given resolution and quantizes it
// with the default palette.
func Render(scene *Scene, camera Camera, width, height int) (OutputGrid, error) {
	rt, err := NewRaytracer(config.RaytracerConfig{Width: width, Height: height}, camera)
	if err != nil {
		return nil, err
	}
	rt.SetScene(scene)

	sceneData, err := rt.TraceScene()
	if err != nil {
		return nil, err
	}
	return DefaultPalette.Quantize(sceneData), nil
}

func checkResolution(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, width, height)
	}
	return nil
}
