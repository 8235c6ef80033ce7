/*
Package config manages TOML configuration for hiroi tools.

Width limits, numeric ranges and suggestion defaults ship as builtin
defaults; a config.toml can override any subset of them.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/skmtlab/hiroi/internal/utils"
	"github.com/skmtlab/hiroi/pkg/field"
	"github.com/skmtlab/hiroi/pkg/suggest"
)

// Config holds the entire config structure
type Config struct {
	Field   FieldConfig   `toml:"field"`
	Range   RangeConfig   `toml:"range"`
	Suggest SuggestConfig `toml:"suggest"`
	Server  ServerConfig  `toml:"server"`
}

// FieldConfig caps the display width of text cells. Hankaku values are
// the authoritative budgets; zenkaku is the same budget counted in
// full-width characters. Text applies to every cell without a dedicated cap.
type FieldConfig struct {
	WorkTypeZenkaku int `toml:"work_type_zenkaku"`
	WorkTypeHankaku int `toml:"work_type_hankaku"`
	TextZenkaku     int `toml:"text_zenkaku"`
	TextHankaku     int `toml:"text_hankaku"`
	UnitZenkaku     int `toml:"unit_zenkaku"`
	UnitHankaku     int `toml:"unit_hankaku"`
}

// RangeConfig bounds the numeric cells, inclusive on both ends.
type RangeConfig struct {
	AdjustmentFactorMin float64 `toml:"adjustment_factor_min"`
	AdjustmentFactorMax float64 `toml:"adjustment_factor_max"`
	RoundingUnitMin     float64 `toml:"rounding_unit_min"`
	RoundingUnitMax     float64 `toml:"rounding_unit_max"`
	QuantityMin         float64 `toml:"quantity_min"`
	QuantityMax         float64 `toml:"quantity_max"`
}

// SuggestConfig holds autocomplete options.
type SuggestConfig struct {
	DebounceMs int `toml:"debounce_ms"`
	Limit      int `toml:"limit"`
}

// ServerConfig has suggest service options.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
	AccessLog    bool   `toml:"access_log"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "hiroi")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "hiroi")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/hiroi/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config carrying the builtin limits. The width
// and range values mirror the field package defaults so the two never
// drift apart.
func DefaultConfig() *Config {
	t := field.DefaultTable()
	return &Config{
		Field: FieldConfig{
			WorkTypeZenkaku: t.Constraints[field.WorkType].Zenkaku,
			WorkTypeHankaku: t.Constraints[field.WorkType].Hankaku,
			TextZenkaku:     t.Constraints[field.ItemName].Zenkaku,
			TextHankaku:     t.Constraints[field.ItemName].Hankaku,
			UnitZenkaku:     t.Constraints[field.Unit].Zenkaku,
			UnitHankaku:     t.Constraints[field.Unit].Hankaku,
		},
		Range: RangeConfig{
			AdjustmentFactorMin: t.Ranges[field.AdjustmentFactor].Min,
			AdjustmentFactorMax: t.Ranges[field.AdjustmentFactor].Max,
			RoundingUnitMin:     t.Ranges[field.RoundingUnit].Min,
			RoundingUnitMax:     t.Ranges[field.RoundingUnit].Max,
			QuantityMin:         t.Ranges[field.Quantity].Min,
			QuantityMax:         t.Ranges[field.Quantity].Max,
		},
		Suggest: SuggestConfig{
			DebounceMs: int(suggest.DefaultDebounce / time.Millisecond),
			Limit:      suggest.DefaultLimit,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			DefaultLimit: suggest.DefaultLimit,
			MaxLimit:     25,
			AccessLog:    true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever valid keys a malformed config holds,
// keeping defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if fieldSection, ok := utils.ExtractSection(tempConfig, "field"); ok {
		extractFieldConfig(fieldSection, &config.Field)
	}
	if rangeSection, ok := utils.ExtractSection(tempConfig, "range"); ok {
		extractRangeConfig(rangeSection, &config.Range)
	}
	if suggestSection, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(suggestSection, &config.Suggest)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	return config, nil
}

// extractFieldConfig extracts width limits from a map
func extractFieldConfig(data map[string]any, f *FieldConfig) {
	if val, ok := utils.ExtractInt64(data, "work_type_zenkaku"); ok {
		f.WorkTypeZenkaku = val
	}
	if val, ok := utils.ExtractInt64(data, "work_type_hankaku"); ok {
		f.WorkTypeHankaku = val
	}
	if val, ok := utils.ExtractInt64(data, "text_zenkaku"); ok {
		f.TextZenkaku = val
	}
	if val, ok := utils.ExtractInt64(data, "text_hankaku"); ok {
		f.TextHankaku = val
	}
	if val, ok := utils.ExtractInt64(data, "unit_zenkaku"); ok {
		f.UnitZenkaku = val
	}
	if val, ok := utils.ExtractInt64(data, "unit_hankaku"); ok {
		f.UnitHankaku = val
	}
}

// extractRangeConfig extracts numeric bounds from a map
func extractRangeConfig(data map[string]any, r *RangeConfig) {
	if val, ok := utils.ExtractFloat64(data, "adjustment_factor_min"); ok {
		r.AdjustmentFactorMin = val
	}
	if val, ok := utils.ExtractFloat64(data, "adjustment_factor_max"); ok {
		r.AdjustmentFactorMax = val
	}
	if val, ok := utils.ExtractFloat64(data, "rounding_unit_min"); ok {
		r.RoundingUnitMin = val
	}
	if val, ok := utils.ExtractFloat64(data, "rounding_unit_max"); ok {
		r.RoundingUnitMax = val
	}
	if val, ok := utils.ExtractFloat64(data, "quantity_min"); ok {
		r.QuantityMin = val
	}
	if val, ok := utils.ExtractFloat64(data, "quantity_max"); ok {
		r.QuantityMax = val
	}
}

// extractSuggestConfig extracts autocomplete options from a map
func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		s.DebounceMs = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		s.Limit = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		server.Addr = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractBool(data, "access_log"); ok {
		server.AccessLog = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes runtime-tunable values and saves to file
func (c *Config) Update(configPath string, debounceMs, limit, maxLimit *int) error {
	if debounceMs != nil {
		c.Suggest.DebounceMs = *debounceMs
	}
	if limit != nil {
		c.Suggest.Limit = *limit
	}
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	return SaveConfig(c, configPath)
}

// FieldTable materializes the configured limits as a validation table.
// The work type and unit caps apply to their own cells; the text caps
// cover every other text cell.
func (c *Config) FieldTable() *field.Table {
	t := field.DefaultTable()
	for name := range t.Constraints {
		switch name {
		case field.WorkType:
			t.Constraints[name] = field.Constraint{Zenkaku: c.Field.WorkTypeZenkaku, Hankaku: c.Field.WorkTypeHankaku}
		case field.Unit:
			t.Constraints[name] = field.Constraint{Zenkaku: c.Field.UnitZenkaku, Hankaku: c.Field.UnitHankaku}
		default:
			t.Constraints[name] = field.Constraint{Zenkaku: c.Field.TextZenkaku, Hankaku: c.Field.TextHankaku}
		}
	}
	t.Ranges = map[field.Name]field.Range{
		field.AdjustmentFactor: {Min: c.Range.AdjustmentFactorMin, Max: c.Range.AdjustmentFactorMax},
		field.RoundingUnit:     {Min: c.Range.RoundingUnitMin, Max: c.Range.RoundingUnitMax},
		field.Quantity:         {Min: c.Range.QuantityMin, Max: c.Range.QuantityMax},
	}
	return t
}

// Debounce returns the configured debounce interval as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Suggest.DebounceMs) * time.Millisecond
}
