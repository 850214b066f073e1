package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the main configuration
type Config struct {
	Raytracer RaytracerConfig `yaml:"raytracer"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Camera    CameraConfig    `yaml:"camera"`
	Scene     SceneConfig     `yaml:"scene"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// RaytracerConfig contains raytracer configuration
type RaytracerConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	NumThreads int `yaml:"num_threads"` // 0 means one per CPU
}

// RendererConfig contains renderer configuration
type RendererConfig struct {
	CharSet       string `yaml:"charset"` // Characters from dark to bright
	PNGCellWidth  int    `yaml:"png_cell_width"`
	PNGCellHeight int    `yaml:"png_cell_height"`
}

// CameraConfig describes the pinhole camera
type CameraConfig struct {
	Position       Vec3    `yaml:"position"`
	ViewportHeight float64 `yaml:"viewport_height"`
	FocalLength    float64 `yaml:"focal_length"`
}

// SceneConfig lists the spheres and the light
type SceneConfig struct {
	Spheres []SphereConfig `yaml:"spheres"`
	Light   LightConfig    `yaml:"light"`
}

// SphereConfig describes one sphere
type SphereConfig struct {
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Albedo   float64 `yaml:"albedo"`
	Specular float64 `yaml:"specular"`
}

// LightConfig describes the point light
type LightConfig struct {
	Position Vec3 `yaml:"position"`
	Color    Vec3 `yaml:"color"`
}

// OutputConfig says where finished frames go
type OutputConfig struct {
	TextPath string   `yaml:"text_path"` // empty or "-" means stdout
	PNGPath  string   `yaml:"png_path"`  // empty disables the PNG preview
	S3       S3Config `yaml:"s3"`
}

// S3Config configures publishing frames to an S3 compatible bucket
type S3Config struct {
	Enabled        bool   `yaml:"enabled"`
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Prefix         string `yaml:"prefix"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// ServerConfig configures the HTTP render endpoint
type ServerConfig struct {
	Address   string `yaml:"address"`
	AccessKey string `yaml:"access_key"` // required in the Access-Key header when set
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig creates the reference configuration: an 80x40 frame of the
// ground sphere and four spheres.
func DefaultConfig() *Config {
	return &Config{
		Raytracer: RaytracerConfig{
			Width:      80,
			Height:     40,
			NumThreads: runtime.NumCPU(),
		},
		Renderer: RendererConfig{
			CharSet:       " .:-=+*#%@",
			PNGCellWidth:  8,
			PNGCellHeight: 16,
		},
		Camera: CameraConfig{
			Position:       Vec3{0, 0, 0},
			ViewportHeight: 2.0,
			FocalLength:    1.5,
		},
		Scene: SceneConfig{
			Spheres: []SphereConfig{
				{Center: Vec3{0, -100.5, -2.5}, Radius: 100, Albedo: 0.35, Specular: 0},
				{Center: Vec3{-0.9, -0.2, -2.0}, Radius: 0.5, Albedo: 0.9, Specular: 0.2},
				{Center: Vec3{0.7, 0, -2.8}, Radius: 0.7, Albedo: 0.8, Specular: 0.4},
				{Center: Vec3{1.6, -0.1, -1.8}, Radius: 0.35, Albedo: 0.95, Specular: 0.8},
				{Center: Vec3{-1.8, 0.3, -3.2}, Radius: 0.9, Albedo: 0.7, Specular: 0.1},
			},
			Light: LightConfig{
				Position: Vec3{2.5, 3.0, -1.5},
				Color:    Vec3{1.0, 0.9, 0.8},
			},
		},
		Output: OutputConfig{
			TextPath: "-",
			S3: S3Config{
				Region:         "us-east-1",
				Prefix:         "frames",
				ForcePathStyle: true,
			},
		},
		Server: ServerConfig{
			Address:   ":8080",
			MaxWidth:  400,
			MaxHeight: 200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file. When the file is missing or
// broken the defaults are returned together with the error.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks the values rendering depends on
func (c *Config) Validate() error {
	rt := c.Raytracer
	if rt.Width <= 0 || rt.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, rt.Width, rt.Height)
	}
	if rt.NumThreads < 0 {
		return fmt.Errorf("%w: num_threads %d", ErrInvalidConfig, rt.NumThreads)
	}
	if len(c.Renderer.CharSet) < 2 {
		return fmt.Errorf("%w: charset needs at least two characters", ErrInvalidConfig)
	}
	if c.Camera.ViewportHeight <= 0 || c.Camera.FocalLength <= 0 {
		return fmt.Errorf("%w: camera viewport %v focal %v", ErrInvalidConfig,
			c.Camera.ViewportHeight, c.Camera.FocalLength)
	}
	if len(c.Scene.Spheres) == 0 {
		return fmt.Errorf("%w: scene has no spheres", ErrInvalidConfig)
	}
	for i, s := range c.Scene.Spheres {
		if s.Radius <= 0 {
			return fmt.Errorf("%w: sphere %d radius %v", ErrInvalidConfig, i, s.Radius)
		}
	}
	// The server encodes PNG on demand even without a png_path
	if c.Renderer.PNGCellWidth <= 0 || c.Renderer.PNGCellHeight <= 0 {
		return fmt.Errorf("%w: png cell size %dx%d", ErrInvalidConfig,
			c.Renderer.PNGCellWidth, c.Renderer.PNGCellHeight)
	}
	if c.Output.S3.Enabled && c.Output.S3.Bucket == "" {
		return fmt.Errorf("%w: s3 upload enabled without a bucket", ErrInvalidConfig)
	}
	return nil
}
