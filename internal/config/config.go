// Package config loads and saves the desktop viewer settings in ~/.lightbox.json.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lightbox/internal/gallery"
	"lightbox/internal/lightbox"
)

// Window size constants
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
	MinWidth      = 400
	MinHeight     = 300
)

// Grid and cache limits
const (
	DefaultThumbnailSize      = 160
	MinThumbnailSize          = 48
	MaxThumbnailSize          = 512
	DefaultCacheSize          = 16
	MaxCacheSize              = 64
	DefaultThumbnailCacheSize = 256
	MaxThumbnailCacheSize     = 4096
)

// Load status values
const (
	StatusOK      = "OK"
	StatusDefault = "Default"
	StatusWarning = "Warning"
	StatusError   = "Error"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
}

// Config is the persisted viewer configuration
type Config struct {
	WindowWidth        int                 `json:"window_width"`
	WindowHeight       int                 `json:"window_height"`
	Fullscreen         bool                `json:"fullscreen"`
	ThumbnailSize      int                 `json:"thumbnail_size"`
	SortMethod         int                 `json:"sort_method"`
	CacheSize          int                 `json:"cache_size"`
	ThumbnailCacheSize int                 `json:"thumbnail_cache_size"`
	Keybindings        map[string][]string `json:"keybindings"`
	Mousebindings      map[string][]string `json:"mousebindings"`
	MouseSettings      MouseSettings       `json:"mouse_settings"`
}

// Defaults holds the bindings used when the file leaves an action out.
// The host merges the overlay actions with its own.
type Defaults struct {
	Keybindings   map[string][]string
	Mousebindings map[string][]string
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

// Path returns the location of the config file
func Path() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "lightbox.json"
	}
	return filepath.Join(homeDir, ".lightbox.json")
}

// DefaultMouseSettings returns the default mouse settings
func DefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		EnableMouse:      true,
		WheelInverted:    false,
	}
}

// Default returns the configuration used when no file exists
func Default(defaults Defaults) Config {
	return Config{
		WindowWidth:        DefaultWidth,
		WindowHeight:       DefaultHeight,
		Fullscreen:         false,
		ThumbnailSize:      DefaultThumbnailSize,
		SortMethod:         gallery.SortNatural,
		CacheSize:          DefaultCacheSize,
		ThumbnailCacheSize: DefaultThumbnailCacheSize,
		Keybindings:        copyBindings(defaults.Keybindings),
		Mousebindings:      copyBindings(defaults.Mousebindings),
		MouseSettings:      DefaultMouseSettings(),
	}
}

// Load reads the config from Path
func Load(defaults Defaults) ConfigLoadResult {
	return LoadFromPath(Path(), defaults)
}

// LoadFromPath reads the config at configPath. A missing file yields the defaults,
// a malformed one yields the defaults with Status "Error". Out of range values are clamped.
func LoadFromPath(configPath string, defaults Defaults) ConfigLoadResult {
	config := Default(defaults)

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   StatusOK,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = StatusDefault
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = StatusError
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		// Unmarshal may have partly filled config
		result.Config = Default(defaults)
		return result
	}

	if config.WindowWidth < MinWidth {
		config.WindowWidth = DefaultWidth
	}
	if config.WindowHeight < MinHeight {
		config.WindowHeight = DefaultHeight
	}

	if config.ThumbnailSize < MinThumbnailSize {
		config.ThumbnailSize = DefaultThumbnailSize
	} else if config.ThumbnailSize > MaxThumbnailSize {
		config.ThumbnailSize = MaxThumbnailSize
	}

	if config.SortMethod < gallery.SortNatural || config.SortMethod > gallery.SortEntryOrder {
		config.SortMethod = gallery.SortNatural
	}

	if config.CacheSize < 1 {
		config.CacheSize = DefaultCacheSize
	} else if config.CacheSize > MaxCacheSize {
		config.CacheSize = MaxCacheSize
	}

	if config.ThumbnailCacheSize < 1 {
		config.ThumbnailCacheSize = DefaultThumbnailCacheSize
	} else if config.ThumbnailCacheSize > MaxThumbnailCacheSize {
		config.ThumbnailCacheSize = MaxThumbnailCacheSize
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}

	config.Keybindings = fillBindings(config.Keybindings, defaults.Keybindings)
	if err := lightbox.ValidateBindings(config.Keybindings); err != nil {
		log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
		config.Keybindings = copyBindings(defaults.Keybindings)
		result.Status = StatusWarning
		result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
	}

	config.Mousebindings = fillBindings(config.Mousebindings, defaults.Mousebindings)
	if err := ValidateMousebindings(config.Mousebindings); err != nil {
		log.Printf("Warning: Invalid mousebindings detected, using defaults: %v", err)
		config.Mousebindings = copyBindings(defaults.Mousebindings)
		result.Status = StatusWarning
		result.Warnings = append(result.Warnings, fmt.Sprintf("Mousebinding errors: %v", err))
	}

	result.Config = config
	return result
}

// Save writes config to Path
func Save(config Config) error {
	return SaveToPath(config, Path())
}

// SaveToPath writes config as indented JSON. Configs with an invalid window size are not saved.
func SaveToPath(config Config, configPath string) error {
	if config.WindowWidth < MinWidth || config.WindowHeight < MinHeight {
		return fmt.Errorf("not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("save config to %s: %w", configPath, err)
	}
	return nil
}

var mouseButtonNames = map[string]bool{
	"LeftClick": true, "RightClick": true, "MiddleClick": true, "Back": true, "Forward": true,
	"WheelUp": true, "WheelDown": true, "WheelLeft": true, "WheelRight": true,
}

// ValidateMousebindings checks mouse strings like "Shift+WheelUp" and detects conflicts
func ValidateMousebindings(mousebindings map[string][]string) error {
	mouseToAction := make(map[string]string)

	for action, mice := range mousebindings {
		for _, mouseStr := range mice {
			parts := strings.Split(mouseStr, "+")
			if !mouseButtonNames[parts[len(parts)-1]] {
				return fmt.Errorf("invalid mouse action '%s' for action '%s'", mouseStr, action)
			}
			for _, modifier := range parts[:len(parts)-1] {
				switch strings.ToLower(modifier) {
				case "shift", "ctrl", "alt":
				default:
					return fmt.Errorf("unknown modifier '%s' in '%s'", modifier, mouseStr)
				}
			}

			if existingAction, exists := mouseToAction[mouseStr]; exists && existingAction != action {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			mouseToAction[mouseStr] = action
		}
	}

	return nil
}

// fillBindings adds the default entry for every action the file left out
func fillBindings(bindings, defaults map[string][]string) map[string][]string {
	if bindings == nil {
		return copyBindings(defaults)
	}
	for action, keys := range defaults {
		if _, exists := bindings[action]; !exists {
			bindings[action] = append([]string(nil), keys...)
		}
	}
	return bindings
}

func copyBindings(bindings map[string][]string) map[string][]string {
	result := make(map[string][]string, len(bindings))
	for action, keys := range bindings {
		result[action] = append([]string(nil), keys...)
	}
	return result
}
