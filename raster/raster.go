// Package raster converts between the cell grid and bitmap image files.
// Export fills one S×S block per cell; import point-samples each cell's
// center and quantizes to the nearest palette color.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"pixed/canvas"
	"pixed/palette"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrEmptyImage is returned when a decoded source has no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Render draws the grid into an RGBA image at cellSize pixels per cell.
// Every pixel takes the palette color of its cell verbatim.
func Render(c *canvas.Canvas, pal palette.Palette, cellSize int) *image.RGBA {
	if cellSize < 1 {
		cellSize = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width()*cellSize, c.Height()*cellSize))
	for cy := range c.Height() {
		for cx := range c.Width() {
			col := pal[c.Get(cx, cy)]
			block := image.Rect(cx*cellSize, cy*cellSize, (cx+1)*cellSize, (cy+1)*cellSize)
			draw.Draw(img, block, image.NewUniform(col), image.Point{}, draw.Src)
		}
	}
	return img
}

// Save renders the grid and writes it as an uncompressed BMP. The encode
// goes through a temp file renamed into place so a failure never leaves a
// partial file at path.
func Save(path string, c *canvas.Canvas, pal palette.Palette, cellSize int) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name)
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination for %q: %w", path, defErr)
		}
		if !canRename {
			os.Remove(outFile.Name())
			return
		}
		if defErr := os.Rename(outFile.Name(), path); defErr != nil && err == nil {
			err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
		}
	}()

	if err = bmp.Encode(outFile, Render(c, pal, cellSize)); err != nil {
		return fmt.Errorf("could not encode BMP destination %q: %w", path, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination %q: %w", path, err)
	}

	canRename = true
	return nil
}

// Import maps img onto the grid: each cell samples the image pixel at its
// own center, alpha forced opaque, and stores the nearest palette index.
// This is point sampling, not area averaging; fine detail in a large source
// can alias, which is the documented behavior. The canvas is untouched on
// error.
func Import(img image.Image, c *canvas.Canvas, pal palette.Palette) error {
	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW <= 0 || imgH <= 0 {
		return ErrEmptyImage
	}

	w, h := c.Width(), c.Height()
	cells := make([]uint8, w*h)
	for cy := range h {
		for cx := range w {
			sx := int((float64(cx) + 0.5) / float64(w) * float64(imgW))
			sy := int((float64(cy) + 0.5) / float64(h) * float64(imgH))
			// guard against float rounding at the right/bottom edge
			sx = min(max(sx, 0), imgW-1)
			sy = min(max(sy, 0), imgH-1)

			r, g, b, _ := img.At(bounds.Min.X+sx, bounds.Min.Y+sy).RGBA()
			sample := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF}
			cells[cy*w+cx] = uint8(pal.NearestIndex(sample))
		}
	}
	return c.Restore(cells)
}

// Load decodes the image at path (BMP, PNG, GIF, JPEG or TIFF by content)
// and imports it onto the grid. The full source is decoded before any cell
// is written, so a failure leaves the canvas unchanged.
func Load(path string, c *canvas.Canvas, pal palette.Palette) error {
	imgFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return fmt.Errorf("could not decode image %q: %w", path, err)
	}

	if err := Import(img, c, pal); err != nil {
		return fmt.Errorf("could not import image %q: %w", path, err)
	}
	return nil
}
