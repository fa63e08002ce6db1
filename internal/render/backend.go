// Package render turns board state into draw commands for a drawing backend.
package render

import "image"

// Image is a handle to a loaded sprite sheet. Source rectangles are relative
// to the top-left corner of its bounds.
type Image interface {
	Bounds() image.Rectangle
}

// Loader loads and releases sprite sheets by path.
type Loader interface {
	LoadImage(path string) (Image, error)
	ReleaseImage(img Image)
}

// Drawer draws the src region of img with its top-left corner at dst.
type Drawer interface {
	Draw(img Image, src image.Rectangle, dst image.Point)
}

// Backend is a complete drawing backend.
type Backend interface {
	Loader
	Drawer
}

// DrawCommand is one planned draw call.
type DrawCommand struct {
	Image  Image
	Source image.Rectangle
	Dest   image.Point
}
