package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Clamp restricts a value to be between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureParentDir creates the directory that will hold path
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if DirExists(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// TimeTrack reports how long something took through logf.
// Usage: defer TimeTrack(time.Now(), "trace", log.Debugf)
func TimeTrack(start time.Time, name string, logf func(format string, v ...interface{})) time.Duration {
	elapsed := time.Since(start)
	logf("%s took %s", name, elapsed)
	return elapsed
}
