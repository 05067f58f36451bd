package bramble

import (
	"os"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config holds runtime settings. Values are read from an optional KEY=value
// file and then from BRAMBLE_* environment variables; unset keys keep the
// DefaultConfig value.
type Config struct {
	Title  string `config:"BRAMBLE_TITLE"`
	Width  int    `config:"BRAMBLE_WIDTH"`
	Height int    `config:"BRAMBLE_HEIGHT"`
	TPS    int    `config:"BRAMBLE_TPS"`

	// AssetDir is scanned at startup and watched when HotReload is set.
	AssetDir  string `config:"BRAMBLE_ASSET_DIR"`
	HotReload bool   `config:"BRAMBLE_HOT_RELOAD"`
	// ReloadBudget caps how many changed files are reloaded per frame.
	ReloadBudget int `config:"BRAMBLE_RELOAD_BUDGET"`

	Debug              bool   `config:"BRAMBLE_DEBUG"`
	DebugStatsInterval int    `config:"BRAMBLE_DEBUG_STATS_INTERVAL"`
	LogLevel           string `config:"BRAMBLE_LOG_LEVEL"`
	ScreenshotDir      string `config:"BRAMBLE_SCREENSHOT_DIR"`

	// CatalogCapacity is the slot count of every asset catalog.
	CatalogCapacity int `config:"BRAMBLE_CATALOG_CAPACITY"`
	MaxEntities     int `config:"BRAMBLE_MAX_ENTITIES"`

	TileWidth      int    `config:"BRAMBLE_TILE_WIDTH"`
	TileHeight     int    `config:"BRAMBLE_TILE_HEIGHT"`
	TilesetTexture string `config:"BRAMBLE_TILESET_TEXTURE"`

	FontSize   float64 `config:"BRAMBLE_FONT_SIZE"`
	SampleRate int     `config:"BRAMBLE_SAMPLE_RATE"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Title:              "bramble",
		Width:              640,
		Height:             360,
		TPS:                60,
		AssetDir:           "assets",
		HotReload:          false,
		ReloadBudget:       4,
		Debug:              false,
		DebugStatsInterval: 60,
		LogLevel:           "info",
		ScreenshotDir:      "screenshots",
		CatalogCapacity:    256,
		MaxEntities:        128,
		TileWidth:          16,
		TileHeight:         16,
		TilesetTexture:     "tiles",
		FontSize:           16,
		SampleRate:         44100,
	}
}

// LoadConfig layers file (skipped when empty or missing) and the environment
// over DefaultConfig and validates the result.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()

	b := config.FromEnv()
	if file != "" {
		if _, err := os.Stat(file); err == nil {
			b = config.From(file).FromEnv()
		}
	}
	if err := b.To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "bramble: failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "bramble: invalid config")
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return eris.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return eris.Errorf("tps %d must be positive", c.TPS)
	}
	if c.CatalogCapacity < 2 {
		return eris.Errorf("catalog capacity %d must be at least 2", c.CatalogCapacity)
	}
	if c.MaxEntities <= 0 {
		return eris.Errorf("max entities %d must be positive", c.MaxEntities)
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return eris.Errorf("tile size %dx%d must be positive", c.TileWidth, c.TileHeight)
	}
	if c.ReloadBudget <= 0 {
		return eris.Errorf("reload budget %d must be positive", c.ReloadBudget)
	}
	if c.FontSize <= 0 {
		return eris.Errorf("font size %v must be positive", c.FontSize)
	}
	if c.SampleRate <= 0 {
		return eris.Errorf("sample rate %d must be positive", c.SampleRate)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
