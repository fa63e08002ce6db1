package autotile

import "image"

const (
	// SheetColumns is the number of frame columns in an auto-tile sheet.
	SheetColumns = 4
	// SheetRows is the number of frame rows in an auto-tile sheet.
	SheetRows = 4
)

// Frame addresses one sub-image of a sprite sheet.
type Frame struct {
	Column, Row int
}

// Rect returns the pixel rectangle of the frame for square tiles of the given size.
func (f Frame) Rect(tileSize int) image.Rectangle {
	x, y := f.Column*tileSize, f.Row*tileSize
	return image.Rect(x, y, x+tileSize, y+tileSize)
}

// frames maps every mask to its frame. The sheet is laid out so the column
// tracks horizontal connections (none, right, left+right, left) and the row
// tracks vertical ones (down, up+down, up, none):
//
//	row 0:  D     RD    RDL    DL
//	row 1:  UD    URD   URDL   UDL
//	row 2:  U     UR    URL    UL
//	row 3:  -     R     RL     L
var frames = [16]Frame{
	None:                     {0, 3},
	Up:                       {0, 2},
	Right:                    {1, 3},
	Up | Right:               {1, 2},
	Down:                     {0, 0},
	Up | Down:                {0, 1},
	Right | Down:             {1, 0},
	Up | Right | Down:        {1, 1},
	Left:                     {3, 3},
	Up | Left:                {3, 2},
	Right | Left:             {2, 3},
	Up | Right | Left:        {2, 2},
	Down | Left:              {3, 0},
	Up | Down | Left:         {3, 1},
	Right | Down | Left:      {2, 0},
	Up | Right | Down | Left: {2, 1},
}

// FrameFor returns the frame for a mask. Bits above Left are ignored.
func FrameFor(m Mask) Frame {
	return frames[m&All]
}

// MaskFor is the inverse of FrameFor. ok is false for coordinates outside the sheet.
func MaskFor(f Frame) (m Mask, ok bool) {
	if f.Column < 0 || f.Column >= SheetColumns || f.Row < 0 || f.Row >= SheetRows {
		return None, false
	}
	switch f.Column {
	case 1:
		m |= Right
	case 2:
		m |= Right | Left
	case 3:
		m |= Left
	}
	switch f.Row {
	case 0:
		m |= Down
	case 1:
		m |= Up | Down
	case 2:
		m |= Up
	}
	return m, true
}
