package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable ApplyEnv reads
const EnvPrefix = "ASCIIRAY_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays ASCIIRAY_* environment variables on cfg. Secrets such as
// S3 keys are usually supplied this way rather than in the YAML file.
func ApplyEnv(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"WIDTH", &cfg.Raytracer.Width},
		{"HEIGHT", &cfg.Raytracer.Height},
		{"THREADS", &cfg.Raytracer.NumThreads},
		{"SERVER_MAX_WIDTH", &cfg.Server.MaxWidth},
		{"SERVER_MAX_HEIGHT", &cfg.Server.MaxHeight},
	}
	for _, e := range ints {
		if v, ok := lookupEnv(e.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, EnvPrefix, e.key, v)
			}
			*e.dst = n
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"CHARSET", &cfg.Renderer.CharSet},
		{"TEXT_PATH", &cfg.Output.TextPath},
		{"PNG_PATH", &cfg.Output.PNGPath},
		{"S3_BUCKET", &cfg.Output.S3.Bucket},
		{"S3_REGION", &cfg.Output.S3.Region},
		{"S3_ENDPOINT", &cfg.Output.S3.Endpoint},
		{"S3_ACCESS_KEY", &cfg.Output.S3.AccessKey},
		{"S3_SECRET_KEY", &cfg.Output.S3.SecretKey},
		{"S3_PREFIX", &cfg.Output.S3.Prefix},
		{"SERVER_ADDRESS", &cfg.Server.Address},
		{"SERVER_ACCESS_KEY", &cfg.Server.AccessKey},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FILE", &cfg.Log.File},
	}
	for _, e := range strs {
		if v, ok := lookupEnv(e.key); ok {
			*e.dst = v
		}
	}

	if v, ok := lookupEnv("S3_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sS3_ENABLED=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		cfg.Output.S3.Enabled = b
	}

	return nil
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}
