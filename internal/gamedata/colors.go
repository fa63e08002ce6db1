package gamedata

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexRGBA converts a hex color string (e.g., "#FF0000" or "FF0000") to an opaque color.RGBA.
func ParseHexRGBA(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// ParseHexColor converts a hex color string to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	c, err := ParseHexRGBA(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)), nil
}

// MustParseHexRGBA converts a hex color string to color.RGBA, panicking on error.
func MustParseHexRGBA(hex string) color.RGBA {
	c, err := ParseHexRGBA(hex)
	if err != nil {
		panic(err)
	}
	return c
}
