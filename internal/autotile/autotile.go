// Package autotile selects sprite-sheet frames for tiles based on which of
// their orthogonal neighbors belong to the same terrain family.
package autotile

// Mask encodes which of the four orthogonal neighbors are connected.
type Mask uint8

// Direction bits. The order is fixed: up=1, right=2, down=4, left=8.
const (
	Up Mask = 1 << iota
	Right
	Down
	Left
)

const (
	// None is the mask of an isolated tile.
	None Mask = 0
	// All is the mask of a tile connected on every side.
	All = Up | Right | Down | Left
)

// Has reports whether every bit of d is set in m.
func (m Mask) Has(d Mask) bool {
	return m&d == d
}

// String returns the connected directions in "URDL" order, or "-" for None.
func (m Mask) String() string {
	if m&All == None {
		return "-"
	}
	var b []byte
	for _, d := range []struct {
		bit Mask
		ch  byte
	}{{Up, 'U'}, {Right, 'R'}, {Down, 'D'}, {Left, 'L'}} {
		if m.Has(d.bit) {
			b = append(b, d.ch)
		}
	}
	return string(b)
}

// Set is a set of tile kind ids that connect to each other.
type Set map[int]struct{}

// NewSet builds a set from the given ids.
func NewSet(ids ...int) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Lookup returns the tile kind id at (x, y). ok is false outside the board.
type Lookup func(x, y int) (id int, ok bool)

// Connections computes the neighbor mask for the tile at (x, y).
// Neighbors outside the board count as not connected.
func Connections(x, y int, matching Set, lookup Lookup) Mask {
	var m Mask
	for _, n := range neighbors {
		id, ok := lookup(x+n.dx, y+n.dy)
		if ok && matching.Contains(id) {
			m |= n.bit
		}
	}
	return m
}

var neighbors = [4]struct {
	bit    Mask
	dx, dy int
}{
	{Up, 0, -1},
	{Right, 1, 0},
	{Down, 0, 1},
	{Left, -1, 0},
}

// Select returns the frame for the tile at (x, y) given its matching set.
func Select(x, y int, matching Set, lookup Lookup) Frame {
	return FrameFor(Connections(x, y, matching, lookup))
}
