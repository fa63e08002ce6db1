// Package game wires the board, its content and a drawing backend together
// and runs the frame loop.
package game

// State is where the game is in its content lifecycle.
type State int

const (
	// StateReady means the board is built and no content is held.
	StateReady State = iota
	// StateRunning means content is loaded and frames are being drawn.
	StateRunning
	// StateStopped means the loop ended and content was released.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
