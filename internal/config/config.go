// Package config provides configuration loading.
//
// Values are plain strings keyed by lower-case names. They are resolved in
// this order, later sources winning: built-in defaults, PIXTWEAK_*
// environment variables, the TOML file, then the environment again so it
// always beats the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/pixtweak/internal/colors"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PIXTWEAK_"
)

// option is one known key, its default and the validator applied to it.
type option struct {
	key      string
	value    string
	validate Validator
}

// options lists every known key. Directory defaults depend on the XDG
// locations so they are computed per load.
func options(configDir, stateDir string) []option {
	positive := PositiveIntValidator()
	boolean := BoolValidator()
	return []option{
		{key: "config_dir", value: configDir},
		{key: "state_dir", value: stateDir},
		{key: "hooks_dir", value: filepath.Join(configDir, "hooks")},

		{key: "history_cap", value: "40", validate: positive},
		{key: "max_canvas_width", value: "1400", validate: positive},
		{key: "max_canvas_height", value: "1000", validate: positive},
		{key: "persistence_backend", value: "file", validate: EnumValidator(set("file", "sqlite", "none"))},

		{key: "export_format", value: "png", validate: EnumValidator(set("png", "jpeg", "webp"))},
		{key: "export_quality", value: "0.92", validate: UnitFloatValidator()},
		{key: "export_filename", value: "edited-image"},

		{key: "hooks_enabled", value: "true", validate: boolean},
		{key: "hooks_failure_mode", value: "warn", validate: EnumValidator(set("ignore", "warn", "abort"))},
		{key: "hooks_timeout", value: "30", validate: positive},

		{key: "logging_enabled", value: "false", validate: boolean},
		{key: "logging_level", value: "info", validate: EnumValidator(set("debug", "info", "warn", "error"))},
		{key: "logging_max_files", value: "10", validate: positive},
		{key: "debug", value: "false", validate: boolean},
	}
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

var (
	values   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

func init() {
	for _, o := range options("", "") {
		if o.validate != nil {
			RegisterValidator(o.key, o.validate)
		}
	}
}

// Load resolves the configuration. Calling it again starts from scratch.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	values = make(map[string]string)
	defaults = make(map[string]string)
	configDir, stateDir := xdgDirs()
	for _, o := range options(configDir, stateDir) {
		values[o.key] = o.value
		defaults[o.key] = o.value
	}

	applyEnv()
	applyFile(configPath())
	applyEnv()
	validate()
	followConfigDir()
	writeSample()
}

// reset clears loaded configuration. Used by tests.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	values = nil
	defaults = nil
}

func xdgDirs() (configDir, stateDir string) {
	home, _ := os.UserHomeDir()
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(configHome, "pixtweak"), filepath.Join(stateHome, "pixtweak")
}

// configPath returns PIXTWEAK_CONFIG_PATH, or config.toml in config_dir
// when it exists. Empty means no file.
func configPath() string {
	if p := os.Getenv(EnvPrefix + "CONFIG_PATH"); p != "" {
		return p
	}
	p := filepath.Join(values["config_dir"], "config"+FileExtTOML)
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func applyFile(path string) {
	if path == "" || strings.ToLower(filepath.Ext(path)) != FileExtTOML {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", path, err))
		return
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", path, err))
		return
	}
	for k, v := range raw {
		key := strings.ToLower(k)
		s, ok := stringify(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		values[key] = s
	}
}

// stringify converts a decoded TOML scalar to its string form.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func applyEnv() {
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key == "config_path" {
			continue
		}
		values[key] = val
	}
}

func validate() {
	for key, val := range values {
		v := getValidator(key)
		if v == nil {
			continue
		}
		normalized, err := v(key, val, defaults[key])
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaults[key]))
			normalized = defaults[key]
		}
		values[key] = normalized
	}
}

// followConfigDir moves hooks_dir under a relocated config_dir unless it was
// set on its own.
func followConfigDir() {
	if values["config_dir"] == defaults["config_dir"] || values["hooks_dir"] != defaults["hooks_dir"] {
		return
	}
	values["hooks_dir"] = filepath.Join(values["config_dir"], "hooks")
}

// writeSample writes the defaults to config_dir/config.toml on first run.
func writeSample() {
	dir := values["config_dir"]
	if dir == "" {
		return
	}
	path := filepath.Join(dir, "config"+FileExtTOML)
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		colors.Debug(fmt.Sprintf("unable to create config dir %s: %v", dir, err))
		return
	}

	typed := make(map[string]any, len(defaults))
	for k, v := range defaults {
		typed[k] = natural(v)
	}
	data, err := toml.Marshal(typed)
	if err != nil {
		colors.Warning(fmt.Sprintf("unable to marshal sample config: %v", err))
		return
	}
	header := "# pixtweak configuration\n# This file is in TOML format.\n# Uncomment and edit values as needed.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), FileModeFile); err != nil {
		colors.Warning(fmt.Sprintf("unable to write sample config to %s: %v", path, err))
	}
}

// natural restores the natural TOML type of a default value.
func natural(val string) any {
	if n, err := strconv.Atoi(val); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

func lookup(key string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := values[key]
	return v, ok
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetFloat returns a configuration value as float, or default.
func GetFloat(key string, defaultValue float64) float64 {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	switch normalizeBool(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return defaultValue
}
