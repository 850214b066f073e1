package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"asciiray/internal/logger"
	"asciiray/internal/util"
	"asciiray/pkg/config"
	"asciiray/pkg/storage"
)

// FrameUploader publishes finished frames
type FrameUploader interface {
	UploadFrame(ctx context.Context, frame storage.Frame) ([]string, error)
}

// Frame is one traced and quantized image
type Frame struct {
	ID    string
	Grid  OutputGrid
	Scene *SceneData
}

// Engine wires the scene, the raytracer and the output sinks together
type Engine struct {
	config   *config.Config
	logger   *logger.Logger
	scene    *Scene
	camera   Camera
	palette  Palette
	renderer *HybridRenderer
	preview  *ImageRenderer
	uploader FrameUploader
	stdout   io.Writer
}

// Option customizes an Engine
type Option func(*Engine)

// WithStdout replaces the writer used when the text output is "-"
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithUploader sets the uploader used by Run
func WithUploader(u FrameUploader) Option {
	return func(e *Engine) { e.uploader = u }
}

// NewEngine creates an engine from cfg. Scene and camera come from the
// configuration; output sinks are opened immediately.
func NewEngine(cfg *config.Config, log *logger.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scene, err := NewSceneFromConfig(cfg.Scene)
	if err != nil {
		return nil, err
	}

	palette, err := NewPalette(cfg.Renderer.CharSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	e := &Engine{
		config:  cfg,
		logger:  log,
		scene:   scene,
		camera:  NewCameraFromConfig(cfg.Camera),
		palette: palette,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if inside := scene.Enclosing(e.camera.Position); len(inside) > 0 {
		log.Warnf("camera at %v is inside sphere(s) %v", e.camera.Position, inside)
	}
	if inside := scene.Enclosing(scene.Light.Position); len(inside) > 0 {
		log.Warnf("light at %v is inside sphere(s) %v, everything will be shadowed", scene.Light.Position, inside)
	}

	// Output files are created last so a failed setup leaves none behind
	if e.uploader == nil && cfg.Output.S3.Enabled {
		uploader, err := newUploader(cfg.Output.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize uploader: %w", err)
		}
		e.uploader = uploader
	}

	if err := e.openRenderers(); err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

var newUploader = func(cfg config.S3Config) (FrameUploader, error) {
	u, err := storage.NewUploader(cfg)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (e *Engine) openRenderers() error {
	e.renderer = NewHybridRenderer()
	out := e.config.Output

	var ascii *ASCIIRenderer
	var err error
	if out.TextPath == "" || out.TextPath == "-" {
		ascii, err = NewASCIIRenderer(e.config.Renderer.CharSet, e.stdout)
	} else {
		if err = util.EnsureParentDir(out.TextPath); err != nil {
			return err
		}
		ascii, err = NewASCIIFileRenderer(e.config.Renderer.CharSet, out.TextPath)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize ASCII renderer: %w", err)
	}
	e.renderer.Add(ascii)

	if out.PNGPath != "" {
		if err := util.EnsureParentDir(out.PNGPath); err != nil {
			return err
		}
		e.preview, err = NewImageFileRenderer(e.config.Renderer.PNGCellWidth, e.config.Renderer.PNGCellHeight, out.PNGPath)
		if err != nil {
			return fmt.Errorf("failed to initialize PNG renderer: %w", err)
		}
		e.renderer.Add(e.preview)
	}

	return nil
}

// Scene returns the scene being rendered
func (e *Engine) Scene() *Scene {
	return e.scene
}

// Config returns the engine configuration
func (e *Engine) Config() *config.Config {
	return e.config
}

// RenderFrame traces the configured resolution
func (e *Engine) RenderFrame() (*Frame, error) {
	return e.RenderFrameAt(e.config.Raytracer.Width, e.config.Raytracer.Height)
}

// RenderFrameAt traces the scene at an explicit resolution. It is safe to
// call from several goroutines; each call gets its own raytracer.
func (e *Engine) RenderFrameAt(width, height int) (*Frame, error) {
	rtConfig := e.config.Raytracer
	rtConfig.Width = width
	rtConfig.Height = height

	rt, err := NewRaytracer(rtConfig, e.camera)
	if err != nil {
		return nil, err
	}
	rt.SetScene(e.scene)

	sceneData, err := rt.TraceScene()
	if err != nil {
		return nil, err
	}

	s := sceneData.Stats
	e.logger.Debugf("traced %dx%d with %d workers in %s: %d hit, %d sky, %d shadowed",
		width, height, s.Workers, s.Elapsed, s.HitPixels, s.SkyPixels, s.ShadowedPixels)

	return &Frame{
		ID:    uuid.NewString(),
		Grid:  e.palette.Quantize(sceneData),
		Scene: sceneData,
	}, nil
}

// PNG encodes a frame with the configured cell size
func (e *Engine) PNG(frame *Frame) ([]byte, error) {
	r, err := NewImageRenderer(e.config.Renderer.PNGCellWidth, e.config.Renderer.PNGCellHeight, nil)
	if err != nil {
		return nil, err
	}
	if err := r.Render(frame.Scene); err != nil {
		return nil, err
	}
	return r.Bytes(), nil
}

// Run renders one frame, sends it to every output and uploads it when an
// uploader is configured.
func (e *Engine) Run(ctx context.Context) (*Frame, error) {
	start := time.Now()

	frame, err := e.RenderFrame()
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	if err := e.renderer.Render(frame.Scene); err != nil {
		return frame, fmt.Errorf("output failed: %w", err)
	}

	if e.uploader != nil {
		upload := storage.Frame{ID: frame.ID, Text: frame.Grid.Bytes()}
		if e.preview != nil {
			upload.PNG = e.preview.Bytes()
		}

		keys, err := e.uploader.UploadFrame(ctx, upload)
		if err != nil {
			return frame, err
		}
		for _, k := range keys {
			e.logger.Infof("Uploaded %s", k)
		}
	}

	util.TimeTrack(start, "frame "+frame.ID, e.logger.Infof)
	return frame, nil
}

// Close releases the output sinks
func (e *Engine) Close() error {
	if e.renderer == nil {
		return nil
	}
	return e.renderer.Close()
}
