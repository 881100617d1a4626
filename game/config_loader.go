package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// LoadRules loads economy rules from a YAML file or a directory of YAML files.
// An empty path returns DefaultRules. Fields the files leave out keep their
// stock values.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to stat rules path: %w", err)
	}

	var rules Rules
	if info.IsDir() {
		err = LoadConfigFromDirInto(path, &rules)
	} else {
		err = LoadConfigInto(path, &rules)
	}
	if err != nil {
		return Rules{}, err
	}

	rules.fillDefaults()
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}

// LoadConfigInto loads config into the provided struct (out must be a pointer).
func LoadConfigInto(configPath string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// LoadConfigFromDirInto loads config from a directory into the provided struct (out must be a pointer).
// All YAML files in the directory are loaded and merged, with later files (alphabetically) overriding earlier ones.
func LoadConfigFromDirInto(configDir string, out interface{}) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	entries, err := os.ReadDir(configDir)
	if err != nil {
		return fmt.Errorf("failed to read config directory: %w", err)
	}

	var yamlFiles []string
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if !entry.IsDir() && (strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			yamlFiles = append(yamlFiles, entry.Name())
		}
	}
	sort.Strings(yamlFiles)

	if len(yamlFiles) == 0 {
		return fmt.Errorf("no YAML files found in config directory: %s", configDir)
	}

	for _, filename := range yamlFiles {
		v.SetConfigFile(filepath.Join(configDir, filename))
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to merge config from %s: %w", filename, err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}
