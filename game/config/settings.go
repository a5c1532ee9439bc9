package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/wricardo/connect-four/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	DefaultSessionTTL      = 24 * time.Hour
	DefaultCleanupInterval = 1 * time.Hour
)

// Duration is a time.Duration that reads and writes JSON as "1h30m"
type Duration time.Duration

// MarshalJSON encodes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts either a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// Settings holds everything a front end needs to start a game
type Settings struct {
	Player1         string         `json:"player1,omitempty"`
	Player2         string         `json:"player2,omitempty"`
	Markers         engine.Markers `json:"markers"`
	ColumnBase      int            `json:"column_base"`
	WatchAddr       string         `json:"watch_addr,omitempty"`
	SessionTTL      Duration       `json:"session_ttl"`
	CleanupInterval Duration       `json:"cleanup_interval"`
}

// Defaults returns the settings used when nothing else is configured
func Defaults() *Settings {
	return &Settings{
		Markers:         engine.DefaultMarkers,
		ColumnBase:      0,
		SessionTTL:      Duration(DefaultSessionTTL),
		CleanupInterval: Duration(DefaultCleanupInterval),
	}
}

// Validate checks the settings for values no front end can work with
func (s *Settings) Validate() error {
	if s.ColumnBase != 0 && s.ColumnBase != 1 {
		return fmt.Errorf("%w: column_base must be 0 or 1, got %d", ErrInvalidConfig, s.ColumnBase)
	}

	markers := map[string]string{
		"first":  s.Markers.First,
		"second": s.Markers.Second,
		"empty":  s.Markers.Empty,
	}
	seen := make(map[string]string)
	for _, name := range []string{"first", "second", "empty"} {
		marker := markers[name]
		if marker == "" {
			return fmt.Errorf("%w: %s marker is required", ErrInvalidConfig, name)
		}
		// Every marker fills one board cell
		if n := utf8.RuneCountInString(marker); n > 1 {
			return fmt.Errorf("%w: %s marker %q must be a single character, got %d", ErrInvalidConfig, name, marker, n)
		}
		if other, dup := seen[marker]; dup {
			return fmt.Errorf("%w: %s and %s markers are both %q", ErrInvalidConfig, other, name, marker)
		}
		seen[marker] = name
	}

	if s.SessionTTL <= 0 {
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup_interval must be positive", ErrInvalidConfig)
	}

	return nil
}

// LowColumn is the first column number shown to players
func (s *Settings) LowColumn() int {
	return s.ColumnBase
}

// HighColumn is the last column number shown to players
func (s *Settings) HighColumn() int {
	return s.ColumnBase + engine.Columns - 1
}

// Clone returns an independent copy
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}

// LoadFile reads settings from a JSON file. Fields missing from the file keep
// their default values.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Settings, error) {
	settings := Defaults()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}
