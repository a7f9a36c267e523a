// Package colorutil provides the named reference colors used in region mask images.
package colorutil

import (
	"image/color"
	"strings"
)

// Reference colors for painting region masks.
var (
	Green     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Yellow    = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Grey      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	LightBlue = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Purple    = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// NamedColor binds a symbolic mask color name to its RGB triple.
type NamedColor struct {
	Name  string
	Color color.RGBA
}

// named is kept in canonical order.
var named = []NamedColor{
	{"green", Green},
	{"black", Black},
	{"white", White},
	{"red", Red},
	{"blue", Blue},
	{"yellow", Yellow},
	{"grey", Grey},
	{"lightblue", LightBlue},
	{"purple", Purple},
}

// Named returns all recognized mask colors in canonical order.
func Named() []NamedColor {
	out := make([]NamedColor, len(named))
	copy(out, named)
	return out
}

// Lookup returns the reference color for a name. Matching ignores case and
// surrounding whitespace.
func Lookup(name string) (color.RGBA, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, nc := range named {
		if nc.Name == name {
			return nc.Color, true
		}
	}
	return color.RGBA{}, false
}
