package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validation bounds for rule configs
const (
	MaxStartingMoney = 100000
	MaxGoSalary      = 10000
	MaxJailFee       = 10000
	MaxJailTurnLimit = 10
	MaxCardChainCap  = 64
)

// Supported config file extensions
var ConfigExtensions = []string{".json", ".yaml", ".yml"}

// DefaultGameConfig returns the classic rules
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:                  "classic",
		Description:           "Classic rules: $1500 start, $200 GO salary, $50 jail fee",
		StartingMoney:         DefaultStartingMoney,
		GoSalary:              DefaultGoSalary,
		JailFee:               DefaultJailFee,
		MaxJailTurns:          DefaultMaxJailTurns,
		MinPlayers:            MinPlayers,
		MaxPlayers:            MaxPlayers,
		AutoBuy:               true,
		NearestCardDoubleRent: true,
		MaxCardChain:          DefaultMaxCardChain,
	}
}

// ValidateGameConfig validates a rules configuration
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.StartingMoney < 1 || config.StartingMoney > MaxStartingMoney {
		return fmt.Errorf("config validation: starting_money must be between 1 and %d, got %d", MaxStartingMoney, config.StartingMoney)
	}
	if config.GoSalary < 0 || config.GoSalary > MaxGoSalary {
		return fmt.Errorf("config validation: go_salary must be between 0 and %d, got %d", MaxGoSalary, config.GoSalary)
	}
	if config.JailFee < 0 || config.JailFee > MaxJailFee {
		return fmt.Errorf("config validation: jail_fee must be between 0 and %d, got %d", MaxJailFee, config.JailFee)
	}
	if config.MaxJailTurns < 1 || config.MaxJailTurns > MaxJailTurnLimit {
		return fmt.Errorf("config validation: max_jail_turns must be between 1 and %d, got %d", MaxJailTurnLimit, config.MaxJailTurns)
	}

	if config.MinPlayers < MinPlayers {
		return fmt.Errorf("config validation: min_players must be at least %d, got %d", MinPlayers, config.MinPlayers)
	}
	if config.MaxPlayers > MaxPlayers {
		return fmt.Errorf("config validation: max_players must be at most %d, got %d", MaxPlayers, config.MaxPlayers)
	}
	if config.MinPlayers > config.MaxPlayers {
		return fmt.Errorf("config validation: min_players (%d) cannot exceed max_players (%d)", config.MinPlayers, config.MaxPlayers)
	}

	if config.MaxCardChain < 1 || config.MaxCardChain > MaxCardChainCap {
		return fmt.Errorf("config validation: max_card_chain must be between 1 and %d, got %d", MaxCardChainCap, config.MaxCardChain)
	}

	return nil
}

// ParseGameConfig decodes a config in the format implied by ext (".json", ".yaml" or ".yml")
func ParseGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return &config, nil
}

// LoadGameConfig loads and validates a rules configuration file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, err
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigByName loads a rules configuration by name from the configs directory,
// trying each supported extension in turn
func LoadConfigByName(configName string) (*GameConfig, error) {
	return LoadConfigFromDir("configs", configName)
}

// LoadConfigFromDir loads a rules configuration by name from dir
func LoadConfigFromDir(dir, configName string) (*GameConfig, error) {
	candidates := []string{configName}
	if ext := filepath.Ext(configName); !hasConfigExtension(ext) {
		candidates = candidates[:0]
		for _, ext := range ConfigExtensions {
			candidates = append(candidates, configName+ext)
		}
	}

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		config, err := LoadGameConfig(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config '%s': %w", name, err)
		}
		return config, nil
	}
	return nil, fmt.Errorf("config file '%s' not found", configName)
}

func hasConfigExtension(ext string) bool {
	for _, e := range ConfigExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
