package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"

	"github.com/nfnt/resize"
)

// ImageRenderer writes a grayscale PNG preview of the brightness buffer.
// Each traced pixel becomes a CellWidth x CellHeight block so the picture has
// the proportions of the text version.
type ImageRenderer struct {
	cellWidth  int
	cellHeight int
	out        io.Writer
	file       *os.File
	last       []byte
	mutex      sync.Mutex
}

// NewImageRenderer creates a PNG renderer writing to out. A nil out keeps the
// encoded image in memory only (see Bytes).
func NewImageRenderer(cellWidth, cellHeight int, out io.Writer) (*ImageRenderer, error) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("invalid PNG cell size %dx%d", cellWidth, cellHeight)
	}
	return &ImageRenderer{cellWidth: cellWidth, cellHeight: cellHeight, out: out}, nil
}

// NewImageFileRenderer creates a PNG renderer owning a new file at path
func NewImageFileRenderer(cellWidth, cellHeight int, path string) (*ImageRenderer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	r, err := NewImageRenderer(cellWidth, cellHeight, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// Name implements Renderer
func (r *ImageRenderer) Name() string {
	return "png"
}

// Render encodes the frame as PNG
func (r *ImageRenderer) Render(scene *SceneData) error {
	if scene == nil {
		return errors.New("png renderer: nil scene")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	img := r.Image(scene)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png renderer: %w", err)
	}
	r.last = buf.Bytes()

	if r.out == nil {
		return nil
	}
	if _, err := r.out.Write(r.last); err != nil {
		return fmt.Errorf("png renderer: %w", err)
	}
	return nil
}

// Image converts the frame to an upscaled grayscale image
func (r *ImageRenderer) Image(scene *SceneData) image.Image {
	src := BrightnessImage(scene)
	if r.cellWidth == 1 && r.cellHeight == 1 {
		return src
	}
	return resize.Resize(
		uint(scene.Width*r.cellWidth),
		uint(scene.Height*r.cellHeight),
		src,
		resize.NearestNeighbor,
	)
}

// Bytes returns the most recently encoded PNG
func (r *ImageRenderer) Bytes() []byte {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.last
}

// Close releases the output file if the renderer opened one
func (r *ImageRenderer) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// BrightnessImage maps each pixel's intensity to one gray level
func BrightnessImage(scene *SceneData) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, scene.Width, scene.Height))
	for y, row := range scene.Pixels {
		for x, p := range row {
			img.SetGray(x, y, color.Gray{Y: uint8(clamp01(p.Intensity)*255 + 0.5)})
		}
	}
	return img
}
