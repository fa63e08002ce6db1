package world

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/sokogrump/internal/telemetry"
)

const (
	// Default generated board dimensions
	DefaultWidth  = 24
	DefaultHeight = 16

	// BSP parameters
	minRoomSize = 3 // Minimum room dimension
	maxRoomSize = 6 // Maximum room dimension
	minLeafSize = 5 // Minimum BSP leaf size before stopping split

	minBoardSize = minLeafSize + 2
)

// Generated is a procedurally built board together with the rooms carved into it.
type Generated struct {
	*Board
	Rooms []Room
}

// RoomAt returns the index of the room containing the position, or -1 if not in a room.
func (g *Generated) RoomAt(x, y int) int {
	for i, room := range g.Rooms {
		if room.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Generate creates a walled board with rooms and corridors of floor using BSP.
// Every room after the first gets one box and one target; the player starts
// in the center of the first room. The same rng seed yields the same board.
func Generate(ctx context.Context, width, height int, rng *rand.Rand, kinds []TileKind) (*Generated, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "level.generate")
	defer span.End()

	if width < minBoardSize || height < minBoardSize {
		return nil, fmt.Errorf("%w: generated board must be at least %dx%d, got %dx%d",
			ErrInvalidLevel, minBoardSize, minBoardSize, width, height)
	}

	startTime := time.Now()

	g := &Generated{Board: NewBoard(width, height, Tile{ID: KindWall}, kinds)}
	gen := &generator{g: g, rng: rng}

	// Start BSP with everything inside the outer wall as root
	root := &bspNode{
		x:      1,
		y:      1,
		width:  width - 2,
		height: height - 2,
	}

	gen.splitNode(root)
	gen.createRooms(root)
	gen.connectRooms(root)
	gen.placeObjects()

	span.SetAttributes(
		attribute.Int("level.width", width),
		attribute.Int("level.height", height),
		attribute.Int("level.room_count", len(g.Rooms)),
		attribute.Int64("level.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return g, nil
}

type generator struct {
	g   *Generated
	rng *rand.Rand
}

// bspNode represents a node in the BSP tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// splitNode recursively splits a BSP node.
func (gen *generator) splitNode(node *bspNode) {
	canSplitH := node.height >= minLeafSize*2
	canSplitV := node.width >= minLeafSize*2

	var horizontal bool
	switch {
	case canSplitV && (node.width > node.height || !canSplitH):
		horizontal = false
	case canSplitH:
		horizontal = true
	default:
		return
	}

	size := node.width
	if horizontal {
		size = node.height
	}
	splitPos := minLeafSize + gen.rng.Intn(size-2*minLeafSize+1)

	if horizontal {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: splitPos}
		node.right = &bspNode{x: node.x, y: node.y + splitPos, width: node.width, height: node.height - splitPos}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: splitPos, height: node.height}
		node.right = &bspNode{x: node.x + splitPos, y: node.y, width: node.width - splitPos, height: node.height}
	}

	gen.splitNode(node.left)
	gen.splitNode(node.right)
}

// createRooms carves a room into every leaf large enough to hold one.
func (gen *generator) createRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		gen.createRooms(node.left)
		gen.createRooms(node.right)
		return
	}

	maxW := min(maxRoomSize, node.width-1)
	maxH := min(maxRoomSize, node.height-1)
	if maxW < minRoomSize || maxH < minRoomSize {
		return
	}

	room := Room{
		Width:  minRoomSize + gen.rng.Intn(maxW-minRoomSize+1),
		Height: minRoomSize + gen.rng.Intn(maxH-minRoomSize+1),
	}
	room.X = node.x + gen.rng.Intn(node.width-room.Width)
	room.Y = node.y + gen.rng.Intn(node.height-room.Height)

	node.room = &room
	gen.g.Rooms = append(gen.g.Rooms, room)

	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			gen.carve(x, y)
		}
	}
}

// connectRooms joins the rooms of sibling subtrees with L-shaped corridors.
func (gen *generator) connectRooms(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}

	gen.connectRooms(node.left)
	gen.connectRooms(node.right)

	a, b := firstRoom(node.left), firstRoom(node.right)
	if a == nil || b == nil {
		return
	}

	x1, y1 := a.Center()
	x2, y2 := b.Center()
	if gen.rng.Intn(2) == 0 {
		gen.carveLine(x1, y1, x2, y1)
		gen.carveLine(x2, y1, x2, y2)
	} else {
		gen.carveLine(x1, y1, x1, y2)
		gen.carveLine(x1, y2, x2, y2)
	}
}

// firstRoom returns a room from a subtree (any room will do).
func firstRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := firstRoom(node.left); room != nil {
		return room
	}
	return firstRoom(node.right)
}

// carveLine carves a horizontal or vertical run of floor.
func (gen *generator) carveLine(x1, y1, x2, y2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			gen.carve(x, y)
		}
	}
}

// carve turns an interior cell into floor; the outer wall is never touched.
func (gen *generator) carve(x, y int) {
	b := gen.g.Board
	if x > 0 && x < b.Width-1 && y > 0 && y < b.Height-1 {
		b.Tiles[y][x] = Tile{ID: KindFloor}
	}
}

// placeObjects puts the player in the first room and a box/target pair in each other room.
func (gen *generator) placeObjects() {
	rooms := gen.g.Rooms
	if len(rooms) == 0 {
		// Fallback: open up the center of the board for the player
		b := gen.g.Board
		cx, cy := b.Width/2, b.Height/2
		gen.carve(cx, cy)
		b.Player.MoveTo(cx, cy)
		return
	}

	px, py := rooms[0].Center()
	gen.g.Player.MoveTo(px, py)

	for _, room := range rooms[1:] {
		// Keep boxes off the room border so they stay pushable
		if room.Width < 3 || room.Height < 3 {
			continue
		}
		bx := room.X + 1 + gen.rng.Intn(room.Width-2)
		by := room.Y + 1 + gen.rng.Intn(room.Height-2)
		tx, ty := room.Center()
		if bx == tx && by == ty {
			continue
		}
		gen.g.Tiles[by][bx] = Tile{ID: KindBox}
		gen.g.Tiles[ty][tx] = Tile{ID: KindTarget}
	}
}
