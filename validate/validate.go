// Command validate checks the rule configuration files in a directory
// (default: configs). For every .json, .yaml and .yml file it checks:
//   - the file decodes with no unknown keys
//   - required fields and value ranges
//   - the rules are playable: a seeded smoke game runs without errors
//
// It prints a report and exits with non-zero status if any file is invalid.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/monopoly/game/engine"
	"gopkg.in/yaml.v3"
)

const (
	smokeSeed  = 1
	smokeTurns = 200
)

// ValidationResult captures the outcome of validating a single file.
// Errors are problems that make the file invalid. Info lists facts about a
// valid file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// decodeStrict parses a config and rejects keys GameConfig does not know
func decodeStrict(data []byte, ext string) (*engine.GameConfig, error) {
	var config engine.GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return &config, nil
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := decodeStrict(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	if config.JailFee >= config.StartingMoney {
		result.fail("jail_fee (%d) must be lower than starting_money (%d)", config.JailFee, config.StartingMoney)
	}

	if result.Valid {
		turns, err := smokeTest(config)
		if err != nil {
			result.fail("Smoke game failed after %d turns: %v", turns, err)
			return result
		}
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Money: start $%d, GO salary $%d, jail fee $%d", config.StartingMoney, config.GoSalary, config.JailFee),
			fmt.Sprintf("✓ Players: %d-%d", config.MinPlayers, config.MaxPlayers),
			fmt.Sprintf("✓ Auto-buy: %t, nearest card double rent: %t", config.AutoBuy, config.NearestCardDoubleRent),
			fmt.Sprintf("✓ Smoke game: %d turns", turns),
		)
	}

	return result
}

// smokeTest plays a seeded game with the maximum number of players
func smokeTest(config *engine.GameConfig) (int, error) {
	names := make([]string, config.MaxPlayers)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}

	e, err := engine.NewEngine(config, names, engine.WithSeed(smokeSeed))
	if err != nil {
		return 0, err
	}

	turns := 0
	for ; turns < smokeTurns && !e.IsGameOver(); turns++ {
		if _, err := e.PlayTurn(); err != nil {
			return turns, err
		}
	}
	return turns, nil
}

// configFiles lists the config files of dir in name order
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, e := range engine.ConfigExtensions {
			if ext == e {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// run validates every config in dir and reports whether all are valid
func run(dir string, w io.Writer) (bool, error) {
	files, err := configFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no config files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ok, err := run(dir, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}
