package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Emulator EmulatorConfig
	OCR      OCRConfig
	Assets   AssetsConfig
	Queue    QueueConfig

	NetworkGuard bool   // Dismiss the network error modal before every probe
	DebugDump    bool   // Save the frame that failed a wait for later inspection
	LogLevel     string // zerolog level name
}

// EmulatorConfig names the windows of the emulator vendor in use
type EmulatorConfig struct {
	Window    string // Title of the top level window
	Child     string // Title of the child window that renders the game
	KeyHandle string // Title of the child window that accepts key messages
	Backend   string // "hwnd" or "desktop"
}

// OCRConfig holds tesseract settings
type OCRConfig struct {
	TessdataPrefix string
	DigitsLanguage string // Trained data that includes the game digit glyphs
}

// AssetsConfig holds catalogue locations
type AssetsConfig struct {
	ImagesDir string
	Overrides string // Optional YAML file overriding catalogue entries
}

// QueueConfig holds queue persistence settings
type QueueConfig struct {
	File string
}

// Backends understood by the window package.
const (
	BackendHWND    = "hwnd"
	BackendDesktop = "desktop"
)

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Emulator: EmulatorConfig{
			Window:    "NoxPlayer",
			Child:     "ScreenBoardClassWindow",
			KeyHandle: "sub",
			Backend:   BackendHWND,
		},
		OCR: OCRConfig{
			DigitsLanguage: "mff",
		},
		Assets: AssetsConfig{
			ImagesDir: "assets/images",
		},
		Queue: QueueConfig{
			File: "queue.yaml",
		},
		LogLevel: "info",
	}
}

// Load reads .env and .env.<APP_ENV> on top of the defaults.
func Load() (*Config, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found, using environment and defaults")
	}
	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	cfg := FromEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a config from a lookup function, falling back to Default values.
func FromEnv(get func(string) string) *Config {
	cfg := Default()
	str := func(key string, dst *string) {
		if v := get(key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v := get(key); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}

	str("EMULATOR_WINDOW", &cfg.Emulator.Window)
	str("EMULATOR_CHILD", &cfg.Emulator.Child)
	str("EMULATOR_KEY_HANDLE", &cfg.Emulator.KeyHandle)
	str("EMULATOR_BACKEND", &cfg.Emulator.Backend)
	str("TESSDATA_PREFIX", &cfg.OCR.TessdataPrefix)
	str("TESS_DIGITS_LANG", &cfg.OCR.DigitsLanguage)
	str("ASSETS_DIR", &cfg.Assets.ImagesDir)
	str("CATALOGUE_OVERRIDES", &cfg.Assets.Overrides)
	str("QUEUE_FILE", &cfg.Queue.File)
	str("LOG_LEVEL", &cfg.LogLevel)
	boolean("NETWORK_GUARD", &cfg.NetworkGuard)
	boolean("DEBUG_DUMP", &cfg.DebugDump)

	cfg.Emulator.Backend = strings.ToLower(cfg.Emulator.Backend)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Emulator.Window == "" {
		return fmt.Errorf("emulator window title cannot be empty")
	}
	if c.Emulator.Child == "" {
		return fmt.Errorf("emulator child window title cannot be empty")
	}
	switch c.Emulator.Backend {
	case BackendHWND, BackendDesktop:
	default:
		return fmt.Errorf("unknown emulator backend %q", c.Emulator.Backend)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Assets.ImagesDir == "" {
		return fmt.Errorf("assets directory cannot be empty")
	}
	return nil
}
