package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileSchema mirrors the TOML layout of a configuration file.
type fileSchema struct {
	Keyboard struct {
		ModeKey        string   `toml:"mode_key"`
		Modal          bool     `toml:"modal"`
		Ignore         []string `toml:"ignore"`
		IgnoreNumLock  *bool    `toml:"ignore_numlock"`
		IgnoreCapsLock *bool    `toml:"ignore_capslock"`
	} `toml:"keyboard"`

	Keys map[string]string `toml:"keys"`

	Feedback struct {
		VisualBell     *bool  `toml:"visual_bell"`
		BellColor      string `toml:"bell_color"`
		BellWidth      *int   `toml:"bell_width"`
		BellDurationMS *int   `toml:"bell_duration_ms"`
		IndicatorLED   *bool  `toml:"indicator_led"`
	} `toml:"feedback"`

	Sections map[string]sectionSchema `toml:"sections"`
}

type sectionSchema struct {
	Key      string   `toml:"key"`
	Ignore   []string `toml:"ignore"`
	Position string   `toml:"position"`
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads and parses a configuration file. A missing file yields the
// default configuration without error; a malformed one fails with a
// ParseError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses TOML configuration data. The source name is used in error
// messages only.
func Parse(source string, data []byte) (*Config, error) {
	var schema fileSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return schema.normalize(), nil
}

// normalize converts the raw file schema into a Config, filling defaults
// for everything the file leaves unset.
func (s *fileSchema) normalize() *Config {
	cfg := Default()

	cfg.ModeKey = s.Keyboard.ModeKey
	cfg.Modal = s.Keyboard.Modal
	cfg.IgnoredActions = append(cfg.IgnoredActions, s.Keyboard.Ignore...)
	if s.Keyboard.IgnoreNumLock != nil {
		cfg.IgnoreNumLock = *s.Keyboard.IgnoreNumLock
	}
	if s.Keyboard.IgnoreCapsLock != nil {
		cfg.IgnoreCapsLock = *s.Keyboard.IgnoreCapsLock
	}

	for name, key := range s.Keys {
		cfg.Keys[name] = key
	}

	if s.Feedback.VisualBell != nil {
		cfg.Feedback.VisualBell = *s.Feedback.VisualBell
	}
	if s.Feedback.BellColor != "" {
		cfg.Feedback.BellColor = s.Feedback.BellColor
	}
	if s.Feedback.BellWidth != nil {
		cfg.Feedback.BellWidth = *s.Feedback.BellWidth
	}
	if s.Feedback.BellDurationMS != nil {
		cfg.Feedback.BellDuration = time.Duration(*s.Feedback.BellDurationMS) * time.Millisecond
	}
	if s.Feedback.IndicatorLED != nil {
		cfg.Feedback.IndicatorLED = *s.Feedback.IndicatorLED
	}

	for name, sec := range s.Sections {
		cfg.Sections[name] = &Section{
			Name:     name,
			Key:      sec.Key,
			Ignored:  sec.Ignore,
			Position: sec.Position,
		}
	}

	return cfg
}
