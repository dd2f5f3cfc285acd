package campaign

import "image"

// Direction is one of the eight compass directions around a tile.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	numDirections
)

// Directions lists every direction in clockwise order starting at North.
var Directions = [numDirections]Direction{
	North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest,
}

// Cardinals lists the four edge-sharing directions in clockwise order.
var Cardinals = [4]Direction{North, East, South, West}

var directionOffsets = [numDirections]image.Point{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

var directionNames = [numDirections]string{
	North:     "north",
	NorthEast: "northeast",
	East:      "east",
	SouthEast: "southeast",
	South:     "south",
	SouthWest: "southwest",
	West:      "west",
	NorthWest: "northwest",
}

// Offset returns the grid step from a tile to its neighbour in this direction.
// Y grows downwards, so North is (0, -1).
func (d Direction) Offset() image.Point {
	return directionOffsets[d]
}

// IsCardinal reports whether d shares an edge with the tile (N, E, S, W).
func (d Direction) IsCardinal() bool {
	return d%2 == 0
}

// Next returns the direction 45 degrees clockwise of d.
func (d Direction) Next() Direction {
	return (d + 1) % numDirections
}

// Prev returns the direction 45 degrees counter-clockwise of d.
func (d Direction) Prev() Direction {
	return (d + numDirections - 1) % numDirections
}

func (d Direction) String() string {
	if d < 0 || d >= numDirections {
		return "invalid"
	}
	return directionNames[d]
}

// Neighbors holds the eight tiles around a tile, indexed by Direction.
// Entries outside the map are nil.
type Neighbors [numDirections]*Tile

// Get returns the neighbour in direction d, or nil.
func (n Neighbors) Get(d Direction) *Tile {
	return n[d]
}

// Present returns how many neighbours lie inside the map.
func (n Neighbors) Present() int {
	count := 0
	for _, t := range n {
		if t != nil {
			count++
		}
	}
	return count
}

// Visibility returns, per direction, whether the neighbour exists and is visible.
func (n Neighbors) Visibility() Visibility {
	var v Visibility
	for d, t := range n {
		v[d] = t != nil && t.Visible
	}
	return v
}

// Visibility is a per-direction visible flag for a tile's neighbourhood.
type Visibility [numDirections]bool

// Any reports whether any direction is visible.
func (v Visibility) Any() bool {
	for _, visible := range v {
		if visible {
			return true
		}
	}
	return false
}
