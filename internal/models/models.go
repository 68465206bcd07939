package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CatalogItem represents a product candidate returned by a catalog source
type CatalogItem struct {
	ID           string `json:"id" parquet:"id"`
	Title        string `json:"title" parquet:"title"`
	Description  string `json:"description" parquet:"description"`
	Category     string `json:"productType" parquet:"product_type"`
	ImageURL     string `json:"imageUrl,omitempty" parquet:"image_url"`
	Price        string `json:"price,omitempty" parquet:"price"`
	CurrencyCode string `json:"currencyCode,omitempty" parquet:"currency_code"`
	Source       string `json:"source,omitempty" parquet:"source"`
}

// RecommendationRequest is the input of a single recommendation call
type RecommendationRequest struct {
	Products []CatalogItem `json:"products"`
	Prompt   string        `json:"prompt"`
}

// Recommendation is the validated result of a recommendation call.
// RecommendedIDs are normalized and ordered best-first.
type Recommendation struct {
	RecommendedIDs []string `json:"recommendedIds" yaml:"recommendedIds"`
	Theme          Theme    `json:"theme" yaml:"theme"`
}

// NormalizeID reduces compound identifiers such as "gid://shopify/Product/123"
// to their trailing path segment ("123"). Bare identifiers are returned trimmed.
func NormalizeID(id string) string {
	id = strings.TrimRight(strings.TrimSpace(id), "/")
	if idx := strings.LastIndex(id, "/"); idx != -1 {
		return id[idx+1:]
	}
	return id
}

// Cell is a grid coordinate
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Entry is one occupied cell of a layout. On the wire it is the triple [id, x, y].
type Entry struct {
	ID string
	X  int
	Y  int
}

// Cell returns the coordinate of the entry
func (e Entry) Cell() Cell {
	return Cell{X: e.X, Y: e.Y}
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.ID, e.X, e.Y})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("layout entry must be an [id, x, y] array: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("layout entry must have 3 elements, got %d", len(raw))
	}

	id, err := DecodeID(raw[0])
	if err != nil {
		return err
	}
	var x, y int
	if err := json.Unmarshal(raw[1], &x); err != nil {
		return fmt.Errorf("invalid x coordinate: %w", err)
	}
	if err := json.Unmarshal(raw[2], &y); err != nil {
		return fmt.Errorf("invalid y coordinate: %w", err)
	}

	e.ID = NormalizeID(id)
	e.X = x
	e.Y = y
	return nil
}

// DecodeID accepts identifiers sent either as JSON strings or numbers
func DecodeID(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("invalid identifier %s", string(data))
}

// Layout is the full assignment of items to grid cells
type Layout []Entry

// Clone returns a copy that does not share the backing array
func (l Layout) Clone() Layout {
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// Lookup returns the item identifier at the given cell
func (l Layout) Lookup(c Cell) (string, bool) {
	for _, e := range l {
		if e.X == c.X && e.Y == c.Y {
			return e.ID, true
		}
	}
	return "", false
}
