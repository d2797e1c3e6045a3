package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "config.json"

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig reads a JSON or YAML config file, chosen by extension.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if isYAML(path) {
		cfg, err = parseConfigYAML(data)
	} else {
		cfg, err = parseConfigJSON(string(data))
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w\ndelete the file to generate a new one", path, err)
	}
	return cfg, nil
}

func parseConfigJSON(data string) (Config, error) {
	if !gjson.Valid(data) {
		return Config{}, errors.New("config JSON was poorly formatted")
	}
	cfg := DefaultConfig()
	root := gjson.Parse(data)
	if !root.IsObject() {
		return Config{}, errors.New("config JSON must be an object")
	}

	readInt := func(key string, dst *int) {
		if v := root.Get(key); v.Exists() {
			*dst = int(v.Int())
		}
	}
	readInt("threshold_damage", &cfg.ThresholdDamage)
	readInt("max_iterations", &cfg.MaxIterations)
	readInt("tolerance_step", &cfg.ToleranceStep)
	readInt("max_attempts", &cfg.MaxAttempts)
	if v := root.Get("policy"); v.Exists() {
		cfg.Policy = strings.ToLower(strings.TrimSpace(v.String()))
	}

	if spells := root.Get("spells"); spells.Exists() {
		if !spells.IsArray() {
			return Config{}, errors.New("spells must be an array")
		}
		cfg.Spells = cfg.Spells[:0:0]
		spells.ForEach(func(_, v gjson.Result) bool {
			cfg.Spells = append(cfg.Spells, parseSpellRecord(v))
			return true
		})
	}
	return cfg, nil
}

func parseSpellRecord(v gjson.Result) SpellRecord {
	rec := SpellRecord{
		Name:    v.Get("name").String(),
		Damage:  int(v.Get("damage").Int()),
		Enabled: true,
	}
	if e := v.Get("enabled"); e.Exists() {
		rec.Enabled = e.Bool()
	}
	return rec
}

// UnmarshalYAML treats a spell without an enabled key as enabled, matching
// the JSON loader.
func (r *SpellRecord) UnmarshalYAML(n *yaml.Node) error {
	type plain SpellRecord
	p := plain{Enabled: true}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*r = SpellRecord(p)
	return nil
}

func parseConfigYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config YAML was poorly formatted: %w", err)
	}
	cfg.Policy = strings.ToLower(strings.TrimSpace(cfg.Policy))
	return cfg, nil
}

// EncodeConfig renders cfg in the format matching path's extension.
func EncodeConfig(path string, cfg Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(raw), nil
}

// EnsureConfig loads the config at path, first writing the default config
// there if the file does not exist.
func EnsureConfig(path string, log *zap.Logger) (Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		def := DefaultConfig()
		data, err := EncodeConfig(path, def)
		if err != nil {
			return Config{}, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
		log.Info("created default config", zap.String("path", path))
		return def, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}
	return LoadConfig(path)
}
