package osmrail

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ttdrail/ttd"
)

type Config struct {
	Size     float64 `yaml:"size"`     // degrees of latitude and longitude covered
	MapSize  int     `yaml:"map_size"` // tiles per side
	Owner    uint8   `yaml:"owner"`
	RailType uint8   `yaml:"rail_type"`

	Railways  []string `yaml:"railways"`  // railway=* values laid as track
	Stations  []string `yaml:"stations"`  // railway=* node values turned into platforms
	Crossings []string `yaml:"crossings"` // railway=* node values turned into level crossings

	// railway:signal:main:function values mapped to signal type names
	SignalFunctions map[string]string `yaml:"signal_functions"`
	DefaultSignal   string            `yaml:"default_signal"`
	SemaphoreForms  []string          `yaml:"semaphore_forms"`
}

func DefaultConfig() Config {
	return Config{
		Size:      0.1,
		MapSize:   256,
		Owner:     0,
		Railways:  []string{"rail", "light_rail", "narrow_gauge"},
		Stations:  []string{"station", "halt"},
		Crossings: []string{"level_crossing"},
		SignalFunctions: map[string]string{
			"entry":        "entry",
			"exit":         "exit",
			"intermediate": "combo",
			"block":        "block",
		},
		DefaultSignal:  "block",
		SemaphoreForms: []string{"semaphore"},
	}
}

// ParseConfig overlays YAML on the defaults.
func ParseConfig(raw []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("osmrail config: %w", err)
	}
	return c, c.Validate()
}

func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ParseConfig(raw)
}

func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %v", c.Size)
	}
	if c.MapSize < 16 || c.MapSize > 4096 {
		return fmt.Errorf("map_size %d out of range [16, 4096]", c.MapSize)
	}
	if !ttd.Owner(c.Owner).IsCompany() {
		return fmt.Errorf("owner %d is not a company", c.Owner)
	}
	if _, err := ttd.ParseSignalType(c.DefaultSignal); err != nil {
		return fmt.Errorf("default_signal: %w", err)
	}
	for f, name := range c.SignalFunctions {
		if _, err := ttd.ParseSignalType(name); err != nil {
			return fmt.Errorf("signal_functions[%s]: %w", f, err)
		}
	}
	return nil
}

func (c Config) signalType(function string) ttd.SignalType {
	name, ok := c.SignalFunctions[function]
	if !ok {
		name = c.DefaultSignal
	}
	t, _ := ttd.ParseSignalType(name) // checked by Validate
	return t
}
