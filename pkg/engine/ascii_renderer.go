package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// DefaultCharSet orders the palette from darkest to brightest
const DefaultCharSet = " .:-=+*#%@"

// DefaultPalette is the 10-symbol palette built from DefaultCharSet
var DefaultPalette = Palette{chars: []byte(DefaultCharSet)}

// Palette quantizes brightness into an ordered set of characters
type Palette struct {
	chars []byte
}

// NewPalette builds a palette from a dark-to-bright charset.
// Only single-byte characters are supported.
func NewPalette(charset string) (Palette, error) {
	if len(charset) < 2 {
		return Palette{}, errors.New("palette needs at least two characters")
	}
	for _, r := range charset {
		if r > 0x7e || r < 0x20 {
			return Palette{}, fmt.Errorf("palette character %q is not printable ASCII", r)
		}
	}
	return Palette{chars: []byte(charset)}, nil
}

// Len returns the number of symbols
func (p Palette) Len() int {
	return len(p.chars)
}

// Index maps brightness to a palette index: floor(b*(n-0.01)) clamped to [0,n-1]
func (p Palette) Index(brightness float64) int {
	if math.IsNaN(brightness) {
		return 0
	}
	n := len(p.chars)
	scaled := brightness * (float64(n) - 0.01)
	if scaled <= 0 {
		return 0
	}
	if scaled >= float64(n-1) {
		return n - 1
	}
	return int(scaled)
}

// Char returns the symbol for a brightness value
func (p Palette) Char(brightness float64) byte {
	return p.chars[p.Index(brightness)]
}

// Quantize converts a traced frame into a character grid
func (p Palette) Quantize(scene *SceneData) OutputGrid {
	grid := make(OutputGrid, scene.Height)
	for y, row := range scene.Pixels {
		line := make([]byte, len(row))
		for x, pixel := range row {
			line[x] = p.Char(pixel.Intensity)
		}
		grid[y] = line
	}
	return grid
}

// BrightnessToChar quantizes brightness with the default palette
func BrightnessToChar(brightness float64) byte {
	return DefaultPalette.Char(brightness)
}

// OutputGrid holds height rows of width palette characters
type OutputGrid [][]byte

// Width returns the number of columns
func (g OutputGrid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows
func (g OutputGrid) Height() int {
	return len(g)
}

// Bytes joins the rows with newlines, including a trailing one
func (g OutputGrid) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(len(g) * (g.Width() + 1))
	for _, row := range g {
		buf.Write(row)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func (g OutputGrid) String() string {
	return string(g.Bytes())
}

// ASCIIRenderer writes frames as text art
type ASCIIRenderer struct {
	palette Palette
	out     io.Writer
	file    *os.File // set when the renderer owns its output
	mutex   sync.Mutex
}

// NewASCIIRenderer creates a renderer writing to out using charset
func NewASCIIRenderer(charset string, out io.Writer) (*ASCIIRenderer, error) {
	palette := DefaultPalette
	if charset != "" {
		var err error
		if palette, err = NewPalette(charset); err != nil {
			return nil, err
		}
	}

	return &ASCIIRenderer{palette: palette, out: out}, nil
}

// NewASCIIFileRenderer creates a renderer that writes to a new file at path
func NewASCIIFileRenderer(charset, path string) (*ASCIIRenderer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	r, err := NewASCIIRenderer(charset, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// Name implements Renderer
func (r *ASCIIRenderer) Name() string {
	return "ascii"
}

// Palette returns the palette in use
func (r *ASCIIRenderer) Palette() Palette {
	return r.palette
}

// Render quantizes the frame and writes it out
func (r *ASCIIRenderer) Render(scene *SceneData) error {
	if scene == nil {
		return errors.New("ascii renderer: nil scene")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, err := r.out.Write(r.palette.Quantize(scene).Bytes()); err != nil {
		return fmt.Errorf("ascii renderer: %w", err)
	}
	return nil
}

// Close releases the output file if the renderer opened one
func (r *ASCIIRenderer) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
