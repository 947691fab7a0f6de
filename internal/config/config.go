/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	Theme    string `yaml:"theme"`     // "system" | "light" | "dark"
	CrashDir string `yaml:"crash_dir"` // empty means the OS temp dir
}

type StarfieldConfig struct {
	Preset     string `yaml:"preset"` // "classic" | "deep"
	FPS        int    `yaml:"fps"`
	Seed       uint64 `yaml:"seed"`        // 0 means time-seeded
	FixedCount int    `yaml:"fixed_count"` // overrides the preset's fixed count when > 0
	Density    int    `yaml:"density"`     // px² per particle; overrides the preset's density when > 0
}

type BookConfig struct {
	AssetsDir         string `yaml:"assets_dir"`
	Catalogue         string `yaml:"catalogue"` // optional external catalogue; empty uses the built-in one
	CompactBreakpoint int    `yaml:"compact_breakpoint"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Starfield     StarfieldConfig `yaml:"starfield"`
	Book          BookConfig      `yaml:"book"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "dark"},
		Starfield:     StarfieldConfig{Preset: "classic", FPS: 60},
		Book:          BookConfig{AssetsDir: "public", CompactBreakpoint: 1024},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvTheme      = "GRM_THEME"
	EnvCrashDir   = "GRM_CRASH_DIR"
	EnvPreset     = "GRM_STARFIELD_PRESET"
	EnvFPS        = "GRM_STARFIELD_FPS"
	EnvSeed       = "GRM_STARFIELD_SEED"
	EnvAssetsDir  = "GRM_ASSETS_DIR"
	EnvCatalogue  = "GRM_CATALOGUE"
	EnvBreakpoint = "GRM_COMPACT_BREAKPOINT"
	EnvLogLevel   = "GRM_LOG_LEVEL"
	EnvLogFormat  = "GRM_LOG_FORMAT"
	EnvLogSource  = "GRM_LOG_SOURCE"
	EnvLogFile    = "GRM_LOG_FILE"
	EnvConfigPath = "GRM_CONFIG"
)

// envKeys maps dotted config keys to the env var that overrides them.
var envKeys = map[string]string{
	"general.theme":           EnvTheme,
	"general.crash_dir":       EnvCrashDir,
	"starfield.preset":        EnvPreset,
	"starfield.fps":           EnvFPS,
	"starfield.seed":          EnvSeed,
	"book.assets_dir":         EnvAssetsDir,
	"book.catalogue":          EnvCatalogue,
	"book.compact_breakpoint": EnvBreakpoint,
	"logging.level":           EnvLogLevel,
	"logging.format":          EnvLogFormat,
	"logging.source":          EnvLogSource,
	"logging.file":            EnvLogFile,
}

// ConfigPath returns the per-user config file path. GRM_CONFIG takes precedence.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Grimoire")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Grimoire")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "grimoire")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, &ParseError{Path: path, Err: err}
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// ParseError reports a config file that exists but is not valid YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return "parse config " + e.Path + ": " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.General.Theme); v != "" {
		dst.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.General.CrashDir); v != "" {
		dst.General.CrashDir = v
	}
	// starfield
	if v := strings.TrimSpace(src.Starfield.Preset); v != "" {
		dst.Starfield.Preset = strings.ToLower(v)
	}
	if src.Starfield.FPS > 0 {
		dst.Starfield.FPS = src.Starfield.FPS
	}
	if src.Starfield.Seed != 0 {
		dst.Starfield.Seed = src.Starfield.Seed
	}
	if src.Starfield.FixedCount > 0 {
		dst.Starfield.FixedCount = src.Starfield.FixedCount
	}
	if src.Starfield.Density > 0 {
		dst.Starfield.Density = src.Starfield.Density
	}
	// book
	if v := strings.TrimSpace(src.Book.AssetsDir); v != "" {
		dst.Book.AssetsDir = v
	}
	if v := strings.TrimSpace(src.Book.Catalogue); v != "" {
		dst.Book.Catalogue = v
	}
	if src.Book.CompactBreakpoint > 0 {
		dst.Book.CompactBreakpoint = src.Book.CompactBreakpoint
	}
	// logging
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := env(EnvTheme); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := env(EnvCrashDir); v != "" {
		cfg.General.CrashDir = v
	}
	if v := env(EnvPreset); v != "" {
		cfg.Starfield.Preset = strings.ToLower(v)
	}
	if v := env(EnvFPS); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Starfield.FPS = n
		}
	}
	if v := env(EnvSeed); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Starfield.Seed = n
		}
	}
	if v := env(EnvAssetsDir); v != "" {
		cfg.Book.AssetsDir = v
	}
	if v := env(EnvCatalogue); v != "" {
		cfg.Book.Catalogue = v
	}
	if v := env(EnvBreakpoint); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Book.CompactBreakpoint = n
		}
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := env(EnvLogFormat); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := env(EnvLogSource); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := env(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

func env(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
