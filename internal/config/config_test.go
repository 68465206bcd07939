package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/roomcraft/roomcraft/internal/models"
	"gotest.tools/v3/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NilError(t, cfg.Validate())

	grid := cfg.LayoutGrid()
	assert.Equal(t, grid.Size, 7)
	assert.Equal(t, grid.Center, models.Cell{X: 3, Y: 3})
	assert.Equal(t, len(cfg.Catalog.Shops), 9)
	assert.Equal(t, cfg.Sync.Cadence, 3*time.Second)
	assert.Equal(t, len(cfg.Sync.Assets), 9)
	assert.Equal(t, cfg.Sync.Assets["14612445102452"].Template, "gothic_chair")

	for _, theme := range models.Themes {
		assert.Equal(t, len(cfg.Featured[theme]), 3, "theme %s", theme)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomcraft.yaml")
	content := `
port: "9000"
grid:
  size: 9
  center_x: 4
  center_y: 4
catalog:
  shops: [ruggable]
  snapshots: [catalog.parquet]
  concurrency: 3
recommend:
  provider: ollama
  max_results: 10
sync:
  cadence: 5s
  assets:
    "123":
      template: test_chair
      size: 2
`
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("PORT", "")
	t.Setenv("RECOMMEND_PROVIDER", "openai")
	t.Setenv("SHOPIFY_SHOPS", "chicoryhome, furniturebarn,")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("STORE_PATH", "/tmp/layout.db")

	cfg, err := Load(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.Port, "9000")
	assert.Equal(t, cfg.LayoutGrid().Center, models.Cell{X: 4, Y: 4})
	assert.Equal(t, cfg.Catalog.Concurrency, 3)
	assert.DeepEqual(t, cfg.Catalog.Shops, []string{"chicoryhome", "furniturebarn"})
	assert.Equal(t, cfg.Recommend.Provider, "openai")
	assert.Equal(t, cfg.Recommend.MaxResults, 10)
	assert.Equal(t, cfg.Store.Driver, "sqlite")
	assert.Equal(t, cfg.Store.Path, "/tmp/layout.db")
	assert.Equal(t, cfg.Sync.Cadence, 5*time.Second)
	assert.Equal(t, cfg.Sync.Assets["123"].Size, 2.0)

	sources := cfg.Sources()
	assert.Equal(t, len(sources), 3)
	assert.Equal(t, sources[0].Name(), "chicoryhome")
	assert.Equal(t, sources[2].Name(), "file:catalog.parquet")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "center outside grid", content: "grid: {size: 3, center_x: 5, center_y: 1}", errMsg: "invalid grid config"},
		{name: "unknown provider", content: "recommend: {provider: claude}", errMsg: "unknown recommend provider"},
		{name: "unknown driver", content: "store: {driver: redis}", errMsg: "unknown store driver"},
		{name: "bad yaml", content: "grid: [", errMsg: "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			assert.NilError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
