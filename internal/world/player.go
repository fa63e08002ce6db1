package world

import "image"

// Player is the pushing character. Its position is changed by game logic and
// read once per frame by the renderer.
type Player struct {
	X, Y int
}

// NewPlayer creates a player at the given cell.
func NewPlayer(x, y int) *Player {
	return &Player{X: x, Y: y}
}

// MoveTo places the player on the given cell.
func (p *Player) MoveTo(x, y int) {
	p.X = x
	p.Y = y
}

// Location returns the player's cell as a point.
func (p *Player) Location() image.Point {
	return image.Pt(p.X, p.Y)
}
