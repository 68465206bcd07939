package catalog

import (
	"context"

	"github.com/roomcraft/roomcraft/internal/models"
)

// DefaultLimit is the per-source cap on returned items
const DefaultLimit = 15

// Source is an external product catalog that can be queried by prompt text
type Source interface {
	Name() string
	Search(ctx context.Context, prompt string, limit int) ([]models.CatalogItem, error)
}
