package terminal

import colorful "github.com/lucasb-eyer/go-colorful"

// Color is a terminal color: the default color, a palette index or RGB.
type Color struct {
	R, G, B uint8
	Index   int  // -1 for RGB, 0-255 for indexed
	Default bool // Use default fg/bg
}

// DefaultColor selects the renderer's default foreground or background.
var DefaultColor = Color{Default: true, Index: -1}

// palette16 is the xterm 16-color palette.
var palette16 = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// ColorFromIndex returns a color from the 256-color palette. Out of range
// indices yield the default color.
func ColorFromIndex(index int) Color {
	switch {
	case index < 0 || index > 255:
		return DefaultColor
	case index < 16:
		p := palette16[index]
		return Color{R: p[0], G: p[1], B: p[2], Index: index}
	case index < 232:
		// 6x6x6 cube
		i := index - 16
		level := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + v*40)
		}
		return Color{R: level(i / 36), G: level((i / 6) % 6), B: level(i % 6), Index: index}
	default:
		gray := uint8((index-232)*10 + 8)
		return Color{R: gray, G: gray, B: gray, Index: index}
	}
}

// ColorFromRGB creates a truecolor value.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Index: -1}
}

// IsRGB reports whether c is a truecolor value.
func (c Color) IsRGB() bool {
	return !c.Default && c.Index < 0
}

// Colorful converts c to a go-colorful color. The default color converts
// to black; callers substitute their own default first.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Hex returns "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if c.Default {
		return ""
	}
	return c.Colorful().Hex()
}
