package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"asciiray/internal/logger"
	"asciiray/internal/util"
	"asciiray/pkg/config"
	"asciiray/pkg/engine"
	"asciiray/pkg/server"
)

func main() {
	configPath := flag.String("config", "asciiray.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Optional .env file with ASCIIRAY_* variables")
	width := flag.Int("width", 0, "Frame width in characters (overrides config)")
	height := flag.Int("height", 0, "Frame height in characters (overrides config)")
	threads := flag.Int("threads", -1, "Worker goroutines, 0 for one per CPU (overrides config)")
	textOut := flag.String("out", "", "Text output file, - for stdout (overrides config)")
	pngOut := flag.String("png", "", "Write a PNG preview to this file")
	upload := flag.Bool("upload", false, "Upload the frame to the configured S3 bucket")
	serve := flag.Bool("serve", false, "Serve frames over HTTP instead of rendering once")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this file and exit")
	flag.Parse()

	log := logger.NewLogger("info")

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	cfg := config.DefaultConfig()
	if util.FileExists(*configPath) {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}

	// Flags win over file and environment
	if *width > 0 {
		cfg.Raytracer.Width = *width
	}
	if *height > 0 {
		cfg.Raytracer.Height = *height
	}
	if *threads >= 0 {
		cfg.Raytracer.NumThreads = *threads
	}
	if *textOut != "" {
		cfg.Output.TextPath = *textOut
	}
	if *pngOut != "" {
		cfg.Output.PNGPath = *pngOut
	}
	if *upload {
		cfg.Output.S3.Enabled = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer log.Close()

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		log.Infof("Configuration written to %s", *writeConfig)
		return
	}

	eng, err := engine.NewEngine(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer eng.Close()

	if *serve {
		srv := server.NewServer(cfg.Server, eng, log)
		if err := srv.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := eng.Run(ctx); err != nil {
		log.Errorf("%v", err)
		eng.Close()
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) (*logger.Logger, error) {
	if cfg.File == "" {
		log := logger.NewLogger(cfg.Level)
		if _, err := logger.ParseLevel(cfg.Level); err != nil {
			log.Warnf("%v, using info", err)
		}
		return log, nil
	}

	log, err := logger.NewMultiLogger(cfg.Level, cfg.File)
	if err != nil {
		// Fall back to the console so the caller can still report the error
		return logger.NewLogger(cfg.Level), fmt.Errorf("log file %s: %w", cfg.File, err)
	}
	return log, nil
}
