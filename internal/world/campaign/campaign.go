// Package campaign models the campaign map: a fixed rectangular grid of tiles,
// each carrying a player visibility flag and an opaque image reference.
//
// Lookups outside the grid return nil rather than an error so that
// neighbourhood walks at the map edge need no special cases.
package campaign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned when a tile grid is empty, ragged or has holes.
	ErrInvalidShape = errors.New("invalid map shape")
	// ErrCoordinateMismatch is returned when a tile's stored coordinates
	// disagree with its position in the grid.
	ErrCoordinateMismatch = errors.New("tile coordinate mismatch")
)

// Tile is one cell of the campaign map.
type Tile struct {
	x, y  int
	image string

	// Visible is whether the player can currently see this tile.
	Visible bool
}

// NewTile creates a tile at grid position (x, y).
func NewTile(x, y int, image string, visible bool) *Tile {
	return &Tile{x: x, y: y, image: image, Visible: visible}
}

// X returns the tile's column.
func (t *Tile) X() int { return t.x }

// Y returns the tile's row.
func (t *Tile) Y() int { return t.y }

// Image returns the tile's image reference.
func (t *Tile) Image() string { return t.image }

func (t *Tile) String() string {
	return fmt.Sprintf("(%d, %d)", t.x, t.y)
}

// Map is a rectangular grid of tiles indexed [x][y].
type Map struct {
	width  int
	height int
	image  string
	tiles  [][]*Tile
}

// New builds a map from a fully populated grid indexed [x][y].
func New(image string, tiles [][]*Tile) (*Map, error) {
	width := len(tiles)
	if width == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidShape)
	}
	height := len(tiles[0])
	if height == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidShape)
	}

	for x, column := range tiles {
		if len(column) != height {
			return nil, fmt.Errorf("%w: column %d has %d rows, expected %d", ErrInvalidShape, x, len(column), height)
		}
		for y, t := range column {
			if t == nil {
				return nil, fmt.Errorf("%w: missing tile at (%d, %d)", ErrInvalidShape, x, y)
			}
			if t.x != x || t.y != y {
				return nil, fmt.Errorf("%w: tile at (%d, %d) reports %s", ErrCoordinateMismatch, x, y, t)
			}
		}
	}

	return &Map{
		width:  width,
		height: height,
		image:  image,
		tiles:  tiles,
	}, nil
}

// Generate builds a width x height map whose tile images come from imageFor.
func Generate(width, height int, image string, imageFor func(x, y int) string, visible bool) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, width, height)
	}

	tiles := make([][]*Tile, width)
	for x := range tiles {
		tiles[x] = make([]*Tile, height)
		for y := range tiles[x] {
			tiles[x][y] = NewTile(x, y, imageFor(x, y), visible)
		}
	}
	return New(image, tiles)
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.width }

// Height returns the number of rows.
func (m *Map) Height() int { return m.height }

// Image returns the background image reference.
func (m *Map) Image() string { return m.image }

// Contains reports whether (x, y) lies on the map.
func (m *Map) Contains(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Tile returns the tile at (x, y), or nil when the position is off the map.
func (m *Map) Tile(x, y int) *Tile {
	if !m.Contains(x, y) {
		return nil
	}
	return m.tiles[x][y]
}

// Neighbors returns the eight tiles surrounding t.
func (m *Map) Neighbors(t *Tile) Neighbors {
	var n Neighbors
	for _, d := range Directions {
		off := d.Offset()
		n[d] = m.Tile(t.x+off.X, t.y+off.Y)
	}
	return n
}

// HasVisibleNeighbor reports whether any of the eight neighbours of t is visible.
func (m *Map) HasVisibleNeighbor(t *Tile) bool {
	return m.Neighbors(t).Visibility().Any()
}

// Each calls fn for every tile, column by column.
func (m *Map) Each(fn func(t *Tile)) {
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			fn(m.tiles[x][y])
		}
	}
}

// VisibleCount returns how many tiles are visible.
func (m *Map) VisibleCount() int {
	count := 0
	m.Each(func(t *Tile) {
		if t.Visible {
			count++
		}
	})
	return count
}

// AllVisible reports whether every tile is visible.
func (m *Map) AllVisible() bool {
	return m.VisibleCount() == m.width*m.height
}
