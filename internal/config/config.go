package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roomcraft/roomcraft/internal/catalog"
	"github.com/roomcraft/roomcraft/internal/models"
	"github.com/roomcraft/roomcraft/internal/syncloop"
)

// Config is the full runtime configuration
type Config struct {
	Port      string          `yaml:"port"`
	Grid      GridConfig      `yaml:"grid"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	Store     StoreConfig     `yaml:"store"`
	Sync      SyncConfig      `yaml:"sync"`
	// Featured items are appended to the inventory of a cycle with that theme
	Featured map[models.Theme][]models.CatalogItem `yaml:"featured"`
}

type GridConfig struct {
	Size    int `yaml:"size"`
	CenterX int `yaml:"center_x"`
	CenterY int `yaml:"center_y"`
}

type CatalogConfig struct {
	Shops       []string      `yaml:"shops"`
	APIVersion  string        `yaml:"api_version"`
	AccessToken string        `yaml:"access_token"`
	Snapshots   []string      `yaml:"snapshots"`
	Limit       int           `yaml:"limit"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type RecommendConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxResults  int     `yaml:"max_results"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type SyncConfig struct {
	Server       string              `yaml:"server"`
	Cadence      time.Duration       `yaml:"cadence"`
	InitialDelay time.Duration       `yaml:"initial_delay"`
	BackoffBase  time.Duration       `yaml:"backoff_base"`
	BackoffMax   time.Duration       `yaml:"backoff_max"`
	Scale        float64             `yaml:"scale"`
	Assets       syncloop.AssetTable `yaml:"assets"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port: "8080",
		Grid: GridConfig{Size: 7, CenterX: 3, CenterY: 3},
		Catalog: CatalogConfig{
			Shops: []string{
				"highfashionhome",
				"furnituremaxi",
				"thronekingdom",
				"chicoryhome",
				"furnitureofcanada",
				"furniturebarn",
				"thegoatwallart",
				"ruggable",
				"consciousitems",
			},
			APIVersion:  catalog.DefaultShopifyAPIVersion,
			Limit:       catalog.DefaultLimit,
			Concurrency: 0,
			Timeout:     30 * time.Second,
		},
		Recommend: RecommendConfig{
			Provider:    "gemini",
			Temperature: 0.2,
			MaxResults:  15,
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   "roomcraft.db",
		},
		Sync: SyncConfig{
			Server:       "http://localhost:8080",
			Cadence:      syncloop.DefaultCadence,
			InitialDelay: syncloop.DefaultInitialDelay,
			BackoffBase:  syncloop.DefaultBackoffBase,
			BackoffMax:   syncloop.DefaultBackoffMax,
			Scale:        100,
			Assets: syncloop.AssetTable{
				"7242646618181":  {Template: "cozy_cabinet", Size: 1},
				"7198596628549":  {Template: "cozy_sofa", Size: 1},
				"7221918859333":  {Template: "cozy_table", Size: 1},
				"14612445102452": {Template: "gothic_chair", Size: 1},
				"7407366602827":  {Template: "gothic_lamp", Size: 1},
				"7330042019915":  {Template: "gothic_table", Size: 1},
				"7272726954059":  {Template: "modern_chair", Size: 1},
				"6839446765643":  {Template: "modern_lamp", Size: 1},
				"4668497166411":  {Template: "modern_table", Size: 1},
			},
		},
		Featured: defaultFeatured(),
	}
}

func defaultFeatured() map[models.Theme][]models.CatalogItem {
	item := func(id, title, category, price, currency string) models.CatalogItem {
		return models.CatalogItem{ID: id, Title: title, Category: category, Price: price, CurrencyCode: currency, Source: "featured"}
	}
	return map[models.Theme][]models.CatalogItem{
		models.ThemeCozy: {
			item("7198596628549", "Avery Velvet Reversible Corner Sofa Bed With Storage Chaise", "Sofas & Armchairs", "499.99", "GBP"),
			item("7242646618181", "Boho 6 Drawers Chest Rattan Decorated Storage TV Cabinet", "Bedroom Furniture", "149.99", "GBP"),
			item("7221918859333", "Belluno 120cm Oval Coffee Table In Oak", "Living Room Furniture", "229.99", "GBP"),
		},
		models.ThemeModern: {
			item("7272726954059", "Tatum Dining Chair, Cream", "Furniture - Dining", "349.0", "USD"),
			item("4668497166411", "Montana Dining Table, Gray/Gold Base", "Furniture - Dining", "2599.0", "USD"),
			item("6839446765643", "Huxford Floor Lamp", "Lighting", "631.4", "USD"),
		},
		models.ThemeGothic: {
			item("14612445102452", "Chloe Throne Chair - Vinyl", "Queen Throne", "995.0", "USD"),
			item("7330042019915", "Bambi Dining Table, Black", "Furniture - Dining", "1299.0", "USD"),
			item("7407366602827", "Emberdale Floor Lamp, Black", "Lighting", "199.0", "USD"),
		},
		models.ThemeNature: {
			item("7332361175115", "Spencer Leather Swivel Chair, Nature 210-133", "Furniture - Chair", "2279.0", "USD"),
			item("7014066061387", "Cypress Root Coffee Table, Natural", "Furniture - Accent Tables", "1050.0", "USD"),
			item("7422418550859", "Faux Olive Tree by Four Hands", "Accessories", "529.0", "USD"),
		},
		models.ThemeUrban: {
			item("3946155114571", "Keppler Square Coffee Table by Four Hands", "Furniture - Accent Tables", "1249.0", "USD"),
			item("7288206950475", "Smart Barstool, Charcoal, Set of 2", "Furniture", "357.0", "USD"),
			item("7407343272011", "Steamport Floor Lamp, Gold", "Lighting", "299.0", "USD"),
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and environment overrides, in that order
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("RECOMMEND_PROVIDER"); v != "" {
		c.Recommend.Provider = v
	}
	if v := os.Getenv("RECOMMEND_MODEL"); v != "" {
		c.Recommend.Model = v
	}
	if v := os.Getenv("SHOPIFY_SHOPS"); v != "" {
		var shops []string
		for _, shop := range strings.Split(v, ",") {
			if shop = strings.TrimSpace(shop); shop != "" {
				shops = append(shops, shop)
			}
		}
		c.Catalog.Shops = shops
	}
	if v := os.Getenv("SHOPIFY_STOREFRONT_TOKEN"); v != "" {
		c.Catalog.AccessToken = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
}

// Validate checks values that would otherwise fail deep inside a component
func (c *Config) Validate() error {
	if err := c.LayoutGrid().Validate(); err != nil {
		return fmt.Errorf("invalid grid config: %w", err)
	}
	switch c.Recommend.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unknown recommend provider: %s", c.Recommend.Provider)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}
	if c.Sync.Scale <= 0 {
		return fmt.Errorf("sync scale must be positive, got %v", c.Sync.Scale)
	}
	return nil
}

// LayoutGrid returns the grid geometry
func (c *Config) LayoutGrid() models.Grid {
	return models.Grid{
		Size:   c.Grid.Size,
		Center: models.Cell{X: c.Grid.CenterX, Y: c.Grid.CenterY},
	}
}

// Sources builds the catalog sources: one per shop followed by one per snapshot
func (c *Config) Sources() []catalog.Source {
	sources := make([]catalog.Source, 0, len(c.Catalog.Shops)+len(c.Catalog.Snapshots))
	for _, shop := range c.Catalog.Shops {
		s := catalog.NewShopifySource(shop, c.Catalog.APIVersion, c.Catalog.Timeout)
		s.AccessToken = c.Catalog.AccessToken
		sources = append(sources, s)
	}
	for _, path := range c.Catalog.Snapshots {
		sources = append(sources, catalog.NewFileSource(path))
	}
	return sources
}
