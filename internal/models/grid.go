package models

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("cell is outside the grid")
	ErrReservedCell  = errors.New("cell is reserved for the viewer")
	ErrDuplicateItem = errors.New("item placed in more than one cell")
	ErrDuplicateCell = errors.New("cell holds more than one item")
)

// Grid describes the room layout geometry. Center is the reserved viewer cell.
type Grid struct {
	Size   int
	Center Cell
}

// NewGrid returns a square grid of the given size with the reserved cell at its midpoint
func NewGrid(size int) Grid {
	return Grid{Size: size, Center: Cell{X: size / 2, Y: size / 2}}
}

// Contains reports whether c lies inside the grid
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Size && c.Y < g.Size
}

// IsReserved reports whether c is the viewer cell
func (g Grid) IsReserved(c Cell) bool {
	return c == g.Center
}

// Midpoint is the coordinate value the AR scene treats as its origin
func (g Grid) Midpoint() float64 {
	return float64(g.Size-1) / 2
}

// Validate checks the grid geometry itself
func (g Grid) Validate() error {
	if g.Size <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", g.Size)
	}
	if !g.Contains(g.Center) {
		return fmt.Errorf("reserved cell %s: %w", g.Center, ErrOutOfBounds)
	}
	return nil
}

// ValidateLayout checks that every entry is placeable and that no item or cell repeats
func (g Grid) ValidateLayout(l Layout) error {
	seenIDs := make(map[string]bool, len(l))
	seenCells := make(map[Cell]bool, len(l))
	for _, e := range l {
		c := e.Cell()
		if e.ID == "" {
			return fmt.Errorf("entry at %s has an empty identifier", c)
		}
		if !g.Contains(c) {
			return fmt.Errorf("item %s at %s: %w", e.ID, c, ErrOutOfBounds)
		}
		if g.IsReserved(c) {
			return fmt.Errorf("item %s at %s: %w", e.ID, c, ErrReservedCell)
		}
		if seenIDs[e.ID] {
			return fmt.Errorf("item %s: %w", e.ID, ErrDuplicateItem)
		}
		if seenCells[c] {
			return fmt.Errorf("%s: %w", c, ErrDuplicateCell)
		}
		seenIDs[e.ID] = true
		seenCells[c] = true
	}
	return nil
}
