// Package config provides rule configuration management for the Monopoly engine.
//
// The config package handles:
//   - Loading rule configurations from JSON and YAML files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Rule configurations live in the configs directory as .json, .yaml or .yml
// files. Each one sets the house rules a session is played with: starting
// money, GO salary, jail fee and attempts, player limits, whether landing on
// an unowned space buys it automatically, whether the nearest railroad and
// utility cards charge double rent, and how many card-driven moves may chain
// in one turn. The board and the card decks are fixed.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration, extension optional
//	rules, err := manager.LoadConfig("quick")
//
//	// classic, else the first valid file, else the built-in rules
//	defaultRules := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
package config
