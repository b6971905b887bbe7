package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyDefaultScope         = "default_install_level"
	KeyDefaultStandard      = "default_standard"
	KeyBackupOnOverwrite    = "options.backup_on_overwrite"
	KeySetScriptPermissions = "options.set_script_permissions"
)

var defaults = map[string]interface{}{
	KeyDefaultScope:         string(paths.User),
	KeyDefaultStandard:      string(standard.AgentSkills),
	KeyBackupOnOverwrite:    true,
	KeySetScriptPermissions: true,
}

// Config is the effective configuration.
type Config struct {
	DefaultScope    paths.Scope `mapstructure:"default_install_level"`
	DefaultStandard standard.ID `mapstructure:"default_standard"`
	Options         Options     `mapstructure:"options"`
}

// Options are boolean install switches.
type Options struct {
	BackupOnOverwrite    bool `mapstructure:"backup_on_overwrite"`
	SetScriptPermissions bool `mapstructure:"set_script_permissions"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DefaultScope:    paths.User,
		DefaultStandard: standard.AgentSkills,
		Options:         Options{BackupOnOverwrite: true, SetScriptPermissions: true},
	}
}

// Policy is the conflict policy implied by the options.
func (c Config) Policy() conflict.Policy {
	if c.Options.BackupOnOverwrite {
		return conflict.BackupThenOverwrite
	}
	return conflict.Overwrite
}

// PathEnv names the variable that overrides the config file location.
func PathEnv() string { return branding.EnvVar("CONFIG") }

// Dir returns the directory of the default config file.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file in use: $AGENT_SKILLS_CONFIG when set,
// otherwise ~/.agent-skills/config.yaml.
func FilePath() string {
	if p := os.Getenv(PathEnv()); p != "" {
		return p
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Keys returns the known setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads FilePath with environment overrides applied.
func Load() (Config, error) {
	return LoadFile(FilePath())
}

// LoadFile reads the config at path. A missing file yields the defaults.
// Variables named AGENT_SKILLS_<KEY> (dots become underscores) override
// file values.
func LoadFile(path string) (Config, error) {
	v := newViper(path)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := read(v, path); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	scope, err := paths.ParseScope(string(c.DefaultScope))
	if err != nil {
		return fmt.Errorf("config %s: %w", KeyDefaultScope, err)
	}
	c.DefaultScope = scope

	id, err := standard.Parse(string(c.DefaultStandard))
	if err != nil {
		return fmt.Errorf("config %s: %w", KeyDefaultStandard, err)
	}
	c.DefaultStandard = id
	return nil
}

// Get returns the effective value of key as text.
func Get(key string) (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	switch key {
	case KeyDefaultScope:
		return string(cfg.DefaultScope), nil
	case KeyDefaultStandard:
		return string(cfg.DefaultStandard), nil
	case KeyBackupOnOverwrite:
		return strconv.FormatBool(cfg.Options.BackupOnOverwrite), nil
	case KeySetScriptPermissions:
		return strconv.FormatBool(cfg.Options.SetScriptPermissions), nil
	default:
		return "", unknownKey(key)
	}
}

// Set validates value for key and writes it to FilePath.
func Set(key, value string) error {
	return SetFile(FilePath(), key, value)
}

// SetFile validates value for key and writes it to the config at path.
// Only values already in the file are preserved; environment overrides are
// never written back.
func SetFile(path, key, value string) error {
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", filepath.Dir(path), err)
	}

	v := newViper(path)
	if err := read(v, path); err != nil {
		return err
	}
	v.Set(key, typed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func read(v *viper.Viper, path string) error {
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

func parseValue(key, value string) (interface{}, error) {
	switch key {
	case KeyDefaultScope:
		scope, err := paths.ParseScope(value)
		if err != nil {
			return nil, err
		}
		return string(scope), nil
	case KeyDefaultStandard:
		id, err := standard.Parse(value)
		if err != nil {
			return nil, err
		}
		return string(id), nil
	case KeyBackupOnOverwrite, KeySetScriptPermissions:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		return b, nil
	default:
		return nil, unknownKey(key)
	}
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
}
