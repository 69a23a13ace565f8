package palette

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// MaxColors is the largest palette a canvas cell index can address.
const MaxColors = 256

// Palette is an ordered list of drawing colors. Index 0 is the
// background/erase color by convention.
type Palette []color.RGBA

// NearestIndex returns the index of the palette entry closest to c by
// squared Euclidean distance in RGB space. Alpha is ignored. Ties break
// to the lowest index.
func (p Palette) NearestIndex(c color.Color) int {
	cr, cg, cb, _ := c.RGBA()
	r, g, b := int(cr>>8), int(cg>>8), int(cb>>8)

	ret, bestSum := 0, math.MaxInt
	for i, v := range p {
		dr := r - int(v.R)
		dg := g - int(v.G)
		db := b - int(v.B)
		sum := dr*dr + dg*dg + db*db
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// Colors converts the palette to the stdlib color.Palette form.
func (p Palette) Colors() color.Palette {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = c
	}
	return pal
}

// Default returns the stock 12-color palette. Index 0 is white and doubles
// as the background.
func Default() Palette {
	return Palette{
		{255, 255, 255, 255}, // white (background)
		{0, 0, 0, 255},       // black
		{255, 0, 0, 255},     // red
		{0, 255, 0, 255},     // lime
		{0, 0, 255, 255},     // blue
		{255, 255, 0, 255},   // yellow
		{255, 165, 0, 255},   // orange
		{128, 0, 128, 255},   // purple
		{0, 255, 255, 255},   // cyan
		{255, 192, 203, 255}, // pink
		{128, 128, 128, 255}, // gray
		{139, 69, 19, 255},   // brown
	}
}

func blackWhite() Palette {
	return Palette{
		{255, 255, 255, 255},
		{0, 0, 0, 255},
	}
}

func gray16() Palette {
	p := make(Palette, 16)
	for i := range p {
		v := uint8(255 - i*17)
		p[i] = color.RGBA{v, v, v, 255}
	}
	return p
}

// Load resolves name to a palette: a built-in name (default, bw, gray16),
// a RIFF PAL file (.pal), or a text file of hex colors (.hex, .txt), one
// per line.
func Load(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return Default(), nil
	case "bw":
		return blackWhite(), nil
	case "gray16":
		return gray16(), nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pal":
		return loadRIFF(name)
	case ".hex", ".txt":
		return loadHex(name)
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

func loadRIFF(name string) (Palette, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette file %q: %w", name, err)
	}
	defer f.Close()

	pal, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}
	return pal, validate(pal)
}

func loadHex(name string) (Palette, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("could not read palette file %q: %w", name, err)
	}

	var pal Palette
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		c, err := ParseHex(line)
		if err != nil {
			return nil, fmt.Errorf("bad color on line %d of %q: %w", i+1, name, err)
		}
		pal = append(pal, c)
	}
	return pal, validate(pal)
}

func validate(p Palette) error {
	if len(p) == 0 {
		return fmt.Errorf("palette has no colors")
	}
	if len(p) > MaxColors {
		return fmt.Errorf("palette has %d colors, at most %d supported", len(p), MaxColors)
	}
	return nil
}

// ParseHex reads a #RGB, #RGBA, #RRGGBB or #RRGGBBAA color string.
func ParseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}

		c.A = 0xFF
	case 9:
		n, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color: %w", err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields: %d", n)
		}
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	return c, nil
}
