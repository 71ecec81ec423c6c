package types

import (
	"encoding/json"
	"fmt"
	"os"
)

type CommandConfig struct {
	DataDir  string `json:"datadir"`
	Tree     string `json:"tree"`
	HashType string `json:"hash"`
	LogLevel string `json:"loglevel"`
	Debug    string `json:"debug"`
}

// DefaultCommandConfig keeps everything in memory under the "default" tree.
func DefaultCommandConfig() CommandConfig {
	return CommandConfig{
		Tree:     "default",
		HashType: "blake2b",
		LogLevel: "info",
	}
}

// LoadCommandConfig overlays the JSON file at path onto the defaults. Fields
// the file leaves out keep their default values.
func LoadCommandConfig(path string) (CommandConfig, error) {
	cfg := DefaultCommandConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// String method returns the CommandConfig as a formatted JSON string
func (c *CommandConfig) String() string {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(jsonData)
}
