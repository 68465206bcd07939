package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/roomcraft/roomcraft/internal/models"
)

var (
	ErrReservedCell = models.ErrReservedCell
	ErrOutOfBounds  = models.ErrOutOfBounds
	ErrCellOccupied = errors.New("cell already holds another item")
	ErrItemNotFound = errors.New("item is not in the inventory or on the grid")
)

// Pusher receives the full layout after every accepted mutation
type Pusher interface {
	Replace(ctx context.Context, layout models.Layout) error
}

// Editor keeps the inventory and the grid assignment for one user
type Editor struct {
	grid   models.Grid
	pusher Pusher

	// pushMu spans snapshot and push so the store sees layouts in mutation order
	pushMu sync.Mutex

	mu        sync.Mutex
	items     map[string]models.CatalogItem
	inventory []string
	cells     map[models.Cell]string
}

func New(grid models.Grid, pusher Pusher) *Editor {
	return &Editor{
		grid:   grid,
		pusher: pusher,
		items:  make(map[string]models.CatalogItem),
		cells:  make(map[models.Cell]string),
	}
}

// Grid returns the editor geometry
func (e *Editor) Grid() models.Grid {
	return e.grid
}

// Drop moves itemID from wherever it currently is (inventory or a cell) to
// the destination cell and pushes the resulting layout. Dropping an item on
// the cell it already occupies changes nothing and pushes nothing.
func (e *Editor) Drop(ctx context.Context, itemID string, to models.Cell) error {
	itemID = models.NormalizeID(itemID)

	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	e.mu.Lock()
	from, onGrid := e.cellOf(itemID)
	if onGrid && from == to {
		e.mu.Unlock()
		return nil
	}

	if !e.grid.Contains(to) {
		e.mu.Unlock()
		return fmt.Errorf("drop %s at %s: %w", itemID, to, ErrOutOfBounds)
	}
	if e.grid.IsReserved(to) {
		e.mu.Unlock()
		return fmt.Errorf("drop %s at %s: %w", itemID, to, ErrReservedCell)
	}
	if occupant, ok := e.cells[to]; ok && occupant != itemID {
		e.mu.Unlock()
		return fmt.Errorf("drop %s at %s (holds %s): %w", itemID, to, occupant, ErrCellOccupied)
	}

	if onGrid {
		delete(e.cells, from)
	} else if !e.takeFromInventory(itemID) {
		e.mu.Unlock()
		return fmt.Errorf("drop %s: %w", itemID, ErrItemNotFound)
	}
	e.cells[to] = itemID
	layout := e.layoutLocked()
	e.mu.Unlock()

	slog.Debug("Item dropped", "item", itemID, "to", to.String(), "from_grid", onGrid)
	return e.push(ctx, layout)
}

// ReturnToInventory clears the cell and puts its item back into the inventory
func (e *Editor) ReturnToInventory(ctx context.Context, cell models.Cell) error {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	e.mu.Lock()
	itemID, ok := e.cells[cell]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("cell %s is empty: %w", cell, ErrItemNotFound)
	}
	delete(e.cells, cell)
	e.inventory = append(e.inventory, itemID)
	layout := e.layoutLocked()
	e.mu.Unlock()

	slog.Debug("Item returned to inventory", "item", itemID, "from", cell.String())
	return e.push(ctx, layout)
}

// Reset clears the grid, replaces the inventory with items and pushes the
// empty layout. It starts a new design cycle.
func (e *Editor) Reset(ctx context.Context, items []models.CatalogItem) error {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	e.mu.Lock()
	e.items = make(map[string]models.CatalogItem, len(items))
	e.inventory = make([]string, 0, len(items))
	e.cells = make(map[models.Cell]string)
	for _, item := range items {
		item.ID = models.NormalizeID(item.ID)
		if _, dup := e.items[item.ID]; dup || item.ID == "" {
			continue
		}
		e.items[item.ID] = item
		e.inventory = append(e.inventory, item.ID)
	}
	e.mu.Unlock()

	return e.push(ctx, models.Layout{})
}

// Load seeds the grid from a stored layout without pushing. Items already
// on the grid leave the inventory; unknown identifiers are kept as bare items.
func (e *Editor) Load(layout models.Layout) error {
	if err := e.grid.ValidateLayout(layout); err != nil {
		return err
	}

	e.pushMu.Lock()
	defer e.pushMu.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cells = make(map[models.Cell]string, len(layout))
	for _, entry := range layout {
		if _, ok := e.items[entry.ID]; !ok {
			e.items[entry.ID] = models.CatalogItem{ID: entry.ID}
		}
		e.takeFromInventory(entry.ID)
		e.cells[entry.Cell()] = entry.ID
	}
	return nil
}

// Layout returns the current assignment in row-major order
func (e *Editor) Layout() models.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutLocked()
}

// Inventory returns the unplaced items in order
func (e *Editor) Inventory() []models.CatalogItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.CatalogItem, 0, len(e.inventory))
	for _, id := range e.inventory {
		out = append(out, e.items[id])
	}
	return out
}

// Item returns the catalog data of a known item
func (e *Editor) Item(id string) (models.CatalogItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.items[models.NormalizeID(id)]
	return item, ok
}

func (e *Editor) cellOf(itemID string) (models.Cell, bool) {
	for c, id := range e.cells {
		if id == itemID {
			return c, true
		}
	}
	return models.Cell{}, false
}

func (e *Editor) takeFromInventory(itemID string) bool {
	for i, id := range e.inventory {
		if id == itemID {
			e.inventory = append(e.inventory[:i], e.inventory[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Editor) layoutLocked() models.Layout {
	layout := make(models.Layout, 0, len(e.cells))
	for c, id := range e.cells {
		layout = append(layout, models.Entry{ID: id, X: c.X, Y: c.Y})
	}
	sort.Slice(layout, func(i, j int) bool {
		if layout[i].Y != layout[j].Y {
			return layout[i].Y < layout[j].Y
		}
		return layout[i].X < layout[j].X
	})
	return layout
}

// push keeps the local change when the store is unreachable; the next
// accepted mutation sends the whole layout again.
func (e *Editor) push(ctx context.Context, layout models.Layout) error {
	if e.pusher == nil {
		return nil
	}
	if err := e.pusher.Replace(ctx, layout); err != nil {
		slog.Error("Failed to push layout", "entries", len(layout), "err", err)
		return fmt.Errorf("failed to push layout: %w", err)
	}
	return nil
}
