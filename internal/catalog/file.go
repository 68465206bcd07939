package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/roomcraft/roomcraft/internal/models"
)

// FileSource serves products from a local catalog snapshot (.parquet or .jsonl)
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the snapshot at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the snapshot file name
func (f *FileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Search returns at most limit snapshot items whose title, description or
// category mention any word of the prompt
func (f *FileSource) Search(ctx context.Context, prompt string, limit int) ([]models.CatalogItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	items, err := LoadSnapshot(f.path)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(prompt))
	matched := make([]models.CatalogItem, 0, limit)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !matchesAny(item, terms) {
			continue
		}
		if item.Source == "" {
			item.Source = f.Name()
		}
		matched = append(matched, item)
		if len(matched) == limit {
			break
		}
	}

	return matched, nil
}

func matchesAny(item models.CatalogItem, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(item.Title + " " + item.Description + " " + item.Category)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// LoadSnapshot reads every item from a .parquet or .jsonl snapshot.
// Identifiers are normalized on load.
func LoadSnapshot(path string) ([]models.CatalogItem, error) {
	var (
		items []models.CatalogItem
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		items, err = loadParquet(path)
	case ".jsonl", ".json":
		items, err = loadJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ID = models.NormalizeID(items[i].ID)
	}
	return items, nil
}

func loadJSONL(path string) ([]models.CatalogItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var items []models.CatalogItem
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var item models.CatalogItem
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	slog.Debug("Loaded JSONL catalog", "path", path, "items", len(items))
	return items, nil
}

func loadParquet(path string) ([]models.CatalogItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[models.CatalogItem](pf)
	defer reader.Close()

	var items []models.CatalogItem
	rows := make([]models.CatalogItem, 128)
	for {
		n, err := reader.Read(rows)
		items = append(items, rows[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Loaded Parquet catalog", "path", path, "items", len(items), "row_groups", len(pf.RowGroups()))
	return items, nil
}
