package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/connect-four/game/engine"
)

func TestDefaults(t *testing.T) {
	settings := Defaults()

	if err := settings.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if settings.Markers != engine.DefaultMarkers {
		t.Errorf("Expected default markers, got %+v", settings.Markers)
	}
	if settings.LowColumn() != 0 || settings.HighColumn() != 6 {
		t.Errorf("Expected columns 0-6, got %d-%d", settings.LowColumn(), settings.HighColumn())
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
		errMsg string
	}{
		{
			name:   "column base 2",
			modify: func(s *Settings) { s.ColumnBase = 2 },
			errMsg: "column_base",
		},
		{
			name:   "negative column base",
			modify: func(s *Settings) { s.ColumnBase = -1 },
			errMsg: "column_base",
		},
		{
			name:   "empty marker",
			modify: func(s *Settings) { s.Markers.Empty = "" },
			errMsg: "empty marker is required",
		},
		{
			name:   "duplicate markers",
			modify: func(s *Settings) { s.Markers.Second = s.Markers.First },
			errMsg: "first and second markers",
		},
		{
			name:   "two character marker",
			modify: func(s *Settings) { s.Markers.First = "XX" },
			errMsg: "first marker \"XX\" must be a single character",
		},
		{
			name:   "zero session ttl",
			modify: func(s *Settings) { s.SessionTTL = 0 },
			errMsg: "session_ttl",
		},
		{
			name:   "negative cleanup interval",
			modify: func(s *Settings) { s.CleanupInterval = Duration(-time.Second) },
			errMsg: "cleanup_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Defaults()
			tt.modify(settings)

			err := settings.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}

	t.Run("multibyte marker", func(t *testing.T) {
		settings := Defaults()
		settings.Markers.First = "●"
		if err := settings.Validate(); err != nil {
			t.Errorf("Expected a single multibyte marker to be valid, got %v", err)
		}
	})

	t.Run("one based", func(t *testing.T) {
		settings := Defaults()
		settings.ColumnBase = 1
		if err := settings.Validate(); err != nil {
			t.Errorf("Expected column base 1 to be valid, got %v", err)
		}
		if settings.HighColumn() != 7 {
			t.Errorf("Expected high column 7, got %d", settings.HighColumn())
		}
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		os.WriteFile(path, []byte(`{"player1": "Ana", "column_base": 1, "session_ttl": "30m"}`), 0644)

		settings, err := LoadFile(path)
		if err != nil {
			t.Fatalf("Failed to load file: %v", err)
		}
		if settings.Player1 != "Ana" || settings.ColumnBase != 1 {
			t.Errorf("Unexpected settings %+v", settings)
		}
		if time.Duration(settings.SessionTTL) != 30*time.Minute {
			t.Errorf("Expected 30m ttl, got %v", time.Duration(settings.SessionTTL))
		}
		if time.Duration(settings.CleanupInterval) != DefaultCleanupInterval {
			t.Errorf("Expected default cleanup interval, got %v", time.Duration(settings.CleanupInterval))
		}
		if settings.Markers != engine.DefaultMarkers {
			t.Errorf("Expected default markers, got %+v", settings.Markers)
		}
	})

	t.Run("numeric duration", func(t *testing.T) {
		path := filepath.Join(dir, "numeric.json")
		os.WriteFile(path, []byte(`{"cleanup_interval": 1000000000}`), 0644)

		settings, err := LoadFile(path)
		if err != nil {
			t.Fatalf("Failed to load file: %v", err)
		}
		if time.Duration(settings.CleanupInterval) != time.Second {
			t.Errorf("Expected 1s, got %v", time.Duration(settings.CleanupInterval))
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "bad-duration.json")
		os.WriteFile(path, []byte(`{"session_ttl": "forever"}`), 0644)

		if _, err := LoadFile(path); err == nil {
			t.Error("Expected error for unparsable duration")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.json"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		os.WriteFile(path, []byte(`{"column_base": 7}`), 0644)

		_, err := LoadFile(path)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestDuration_JSON(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Minute))
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `"1h30m0s"` {
		t.Errorf("Expected \"1h30m0s\", got %s", data)
	}
}
