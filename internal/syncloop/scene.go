package syncloop

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roomcraft/roomcraft/internal/models"
)

// ErrUnknownReference is returned when a layout names an item with no asset
var ErrUnknownReference = errors.New("layout references an item with no asset")

// Vec3 is a position in scene space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Asset is the template an item identifier materializes as
type Asset struct {
	Template string  `yaml:"template" json:"template"`
	Size     float64 `yaml:"size" json:"size"`
}

// AssetTable maps normalized item identifiers to assets
type AssetTable map[string]Asset

// Lookup finds the asset for id, normalizing it first
func (t AssetTable) Lookup(id string) (Asset, bool) {
	a, ok := t[models.NormalizeID(id)]
	return a, ok
}

// Normalizer converts grid cells into scene positions. The grid x axis maps
// to scene X and the grid y axis maps to scene Z; every object sits on Y=0.
type Normalizer struct {
	Center float64
	Scale  float64
}

// NewNormalizer centers the scene origin on the grid midpoint
func NewNormalizer(grid models.Grid, scale float64) Normalizer {
	return Normalizer{Center: grid.Midpoint(), Scale: scale}
}

func (n Normalizer) axis(v int) float64 {
	return (float64(v) - n.Center) * n.Scale
}

// Position returns the scene position of a cell
func (n Normalizer) Position(c models.Cell) Vec3 {
	return Vec3{X: n.axis(c.X), Y: 0, Z: n.axis(c.Y)}
}

// Scene is the AR runtime that instantiates objects
type Scene interface {
	Place(id string, asset Asset, pos Vec3) error
	Move(id string, pos Vec3) error
	Remove(id string) error
}

// LogScene is a Scene that only logs what it would render
type LogScene struct{}

func (LogScene) Place(id string, asset Asset, pos Vec3) error {
	slog.Info("Placed object", "item", id, "template", asset.Template, "size", asset.Size, "x", pos.X, "y", pos.Y, "z", pos.Z)
	return nil
}

func (LogScene) Move(id string, pos Vec3) error {
	slog.Info("Moved object", "item", id, "x", pos.X, "y", pos.Y, "z", pos.Z)
	return nil
}

func (LogScene) Remove(id string) error {
	slog.Info("Removed object", "item", id)
	return nil
}

// Reconciler drives a Scene towards a fetched layout
type Reconciler struct {
	assets     AssetTable
	normalizer Normalizer
	scene      Scene
	placed     map[string]Vec3
}

func NewReconciler(assets AssetTable, normalizer Normalizer, scene Scene) *Reconciler {
	return &Reconciler{
		assets:     assets,
		normalizer: normalizer,
		scene:      scene,
		placed:     make(map[string]Vec3),
	}
}

// Apply places new items, moves repositioned ones and removes items no
// longer in the layout. An unknown identifier halts the cycle at that entry:
// later entries are skipped and nothing is removed.
func (r *Reconciler) Apply(layout models.Layout) error {
	seen := make(map[string]bool, len(layout))

	for i, entry := range layout {
		asset, ok := r.assets.Lookup(entry.ID)
		if !ok {
			return fmt.Errorf("entry %d (%s): %w", i, entry.ID, ErrUnknownReference)
		}
		id := models.NormalizeID(entry.ID)
		seen[id] = true
		pos := r.normalizer.Position(entry.Cell())

		current, exists := r.placed[id]
		switch {
		case !exists:
			if err := r.scene.Place(id, asset, pos); err != nil {
				return fmt.Errorf("failed to place %s: %w", id, err)
			}
		case current != pos:
			if err := r.scene.Move(id, pos); err != nil {
				return fmt.Errorf("failed to move %s: %w", id, err)
			}
		default:
			continue
		}
		r.placed[id] = pos
	}

	for id := range r.placed {
		if seen[id] {
			continue
		}
		if err := r.scene.Remove(id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		delete(r.placed, id)
	}
	return nil
}

// Placed returns the number of objects currently in the scene
func (r *Reconciler) Placed() int {
	return len(r.placed)
}
