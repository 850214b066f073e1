package engine

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestBrightnessImage(t *testing.T) {
	data := NewSceneData(3, 1)
	data.Pixels[0][0].Intensity = 0
	data.Pixels[0][1].Intensity = 0.5
	data.Pixels[0][2].Intensity = 1.5

	img := BrightnessImage(data)
	if img.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}

	expected := []uint8{0, 128, 255}
	for x, want := range expected {
		if got := img.GrayAt(x, 0).Y; got != want {
			t.Errorf("Pixel %d: expected %d, got %d", x, want, got)
		}
	}
}

func TestImageRenderer_Size(t *testing.T) {
	tests := []struct {
		name                  string
		cellWidth, cellHeight int
	}{
		{"one to one", 1, 1},
		{"text cell", 8, 16},
		{"square", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := NewImageRenderer(tt.cellWidth, tt.cellHeight, &buf)
			if err != nil {
				t.Fatal(err)
			}

			if err := r.Render(gradientScene(10, 4)); err != nil {
				t.Fatal(err)
			}

			img, err := png.Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Output is not a PNG: %v", err)
			}
			want := image.Rect(0, 0, 10*tt.cellWidth, 4*tt.cellHeight)
			if img.Bounds() != want {
				t.Errorf("Expected bounds %v, got %v", want, img.Bounds())
			}
			if !bytes.Equal(r.Bytes(), buf.Bytes()) {
				t.Error("Bytes() does not match the written PNG")
			}
		})
	}
}

func TestImageRenderer_InMemory(t *testing.T) {
	r, err := NewImageRenderer(2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Bytes() != nil {
		t.Error("Expected no bytes before the first render")
	}
	if err := r.Render(gradientScene(4, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(r.Bytes())); err != nil {
		t.Errorf("In-memory PNG does not decode: %v", err)
	}
	if err := r.Render(nil); err == nil {
		t.Error("Expected error for nil scene")
	}
}

func TestImageRenderer_InvalidCell(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {-2, 4}} {
		if _, err := NewImageRenderer(size[0], size[1], nil); err == nil {
			t.Errorf("Expected error for cell %v", size)
		}
	}
}

func TestImageFileRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")

	r, err := NewImageFileRenderer(1, 2, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(gradientScene(5, 5)); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 5 || cfg.Height != 10 {
		t.Errorf("Expected 5x10, got %dx%d", cfg.Width, cfg.Height)
	}
}
