// Package config loads modal defaults and logging settings from TOML or YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yeeaiclub/fastoverlay"
)

// DefaultRelPath is the config file looked up under the XDG config dirs.
const DefaultRelPath = "fastoverlay/config.toml"

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the on-disk configuration.
type Config struct {
	Log   LogConfig   `toml:"log" yaml:"log"`
	Modal ModalConfig `toml:"modal" yaml:"modal"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// ModalConfig holds the defaults applied to every modal the CLI creates.
type ModalConfig struct {
	UnmountWhenHidden        bool                     `toml:"unmount_when_hidden" yaml:"unmount_when_hidden"`
	AnimateInitialAppearance bool                     `toml:"animate_initial_appearance" yaml:"animate_initial_appearance"`
	MaxTransitionTimeoutMs   int                      `toml:"max_transition_timeout_ms" yaml:"max_transition_timeout_ms"`
	DismissOnEscape          bool                     `toml:"dismiss_on_escape" yaml:"dismiss_on_escape"`
	Backdrop                 fastoverlay.BackdropMode `toml:"backdrop" yaml:"backdrop"`
	EnforceFocus             bool                     `toml:"enforce_focus" yaml:"enforce_focus"`
	RestoreFocus             bool                     `toml:"restore_focus" yaml:"restore_focus"`
	AutoFocus                bool                     `toml:"auto_focus" yaml:"auto_focus"`
	ContainerClass           string                   `toml:"container_class" yaml:"container_class"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	d := fastoverlay.DefaultOptions()
	return Config{
		Log: LogConfig{Level: "info"},
		Modal: ModalConfig{
			UnmountWhenHidden:        d.UnmountWhenHidden,
			AnimateInitialAppearance: d.AnimateInitialAppearance,
			MaxTransitionTimeoutMs:   int(d.MaxTransitionTimeout / time.Millisecond),
			DismissOnEscape:          d.DismissOnEscape,
			Backdrop:                 d.Backdrop,
			EnforceFocus:             d.EnforceFocus,
			RestoreFocus:             d.RestoreFocus,
			AutoFocus:                d.AutoFocus,
			ContainerClass:           d.ContainerClassName,
		},
	}
}

// Load reads path, choosing the decoder by extension. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	conf := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), &conf); err != nil {
		return conf, fmt.Errorf("parse %s: %w", path, err)
	}
	return conf, nil
}

// Decode unmarshals data in the format named by ext (".toml", ".yaml", ".yml").
func Decode(data []byte, ext string, conf *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, conf)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, conf)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadDefault loads the config file from the XDG config search path. A missing
// file is not an error.
func LoadDefault() (Config, error) {
	path, err := xdg.SearchConfigFile(DefaultRelPath)
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath is where LoadDefault expects the user's config file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, DefaultRelPath)
}

// Save writes conf as TOML, creating parent directories.
func Save(path string, conf Config) error {
	data, err := toml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LogLevel parses the configured level, falling back to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ModalOptions converts the modal section into fastoverlay options.
func (c Config) ModalOptions() []fastoverlay.Option {
	m := c.Modal
	return []fastoverlay.Option{
		fastoverlay.WithUnmountWhenHidden(m.UnmountWhenHidden),
		fastoverlay.WithAnimateInitialAppearance(m.AnimateInitialAppearance),
		fastoverlay.WithMaxTransitionTimeout(time.Duration(max(0, m.MaxTransitionTimeoutMs)) * time.Millisecond),
		fastoverlay.WithDismissOnEscape(m.DismissOnEscape),
		fastoverlay.WithBackdrop(m.Backdrop),
		fastoverlay.WithEnforceFocus(m.EnforceFocus),
		fastoverlay.WithRestoreFocus(m.RestoreFocus),
		fastoverlay.WithAutoFocus(m.AutoFocus),
		fastoverlay.WithContainerClassName(m.ContainerClass),
	}
}
