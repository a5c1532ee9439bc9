package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// DefaultProfile is loaded as the default when present in the profile directory
const DefaultProfile = "default"

// ProfileInfo summarizes a settings profile found on disk
type ProfileInfo struct {
	Filename   string `json:"filename"`
	ProfileID  string `json:"profile_id"`
	Player1    string `json:"player1,omitempty"`
	Player2    string `json:"player2,omitempty"`
	ColumnBase int    `json:"column_base"`
}

// Manager loads and caches named settings profiles from a directory
type Manager struct {
	profileDir      string
	defaultSettings *Settings
	profiles        map[string]*Settings
	mu              sync.RWMutex
}

// NewManager creates a new profile manager
func NewManager(profileDir string) (*Manager, error) {
	if _, err := os.Stat(profileDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile directory does not exist: %s", profileDir)
	}

	m := &Manager{
		profileDir: profileDir,
		profiles:   make(map[string]*Settings),
	}

	if err := m.loadDefaultProfile(); err != nil {
		return nil, fmt.Errorf("failed to load default profile: %w", err)
	}

	return m, nil
}

// LoadProfile loads a profile by name. Returned settings are copies and may be
// modified by the caller.
func (m *Manager) LoadProfile(name string) (*Settings, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if settings, exists := m.profiles[name]; exists {
		m.mu.RUnlock()
		return settings.Clone(), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if settings, exists := m.profiles[name]; exists {
		return settings.Clone(), nil
	}

	data, err := os.ReadFile(filepath.Join(m.profileDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	settings, err := parse(data)
	if err != nil {
		return nil, err
	}

	m.profiles[name] = settings
	return settings.Clone(), nil
}

// ListProfiles returns every valid profile in the directory, sorted by name
func (m *Manager) ListProfiles() ([]*ProfileInfo, error) {
	entries, err := os.ReadDir(m.profileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var profiles []*ProfileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		settings, err := m.LoadProfile(name)
		if err != nil {
			// Skip invalid profiles
			continue
		}

		profiles = append(profiles, &ProfileInfo{
			Filename:   entry.Name(),
			ProfileID:  name,
			Player1:    settings.Player1,
			Player2:    settings.Player2,
			ColumnBase: settings.ColumnBase,
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].ProfileID < profiles[j].ProfileID
	})

	return profiles, nil
}

// GetDefault returns a copy of the default settings
func (m *Manager) GetDefault() *Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultSettings.Clone()
}

// SetDefault sets the default settings by profile name
func (m *Manager) SetDefault(name string) error {
	settings, err := m.LoadProfile(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultSettings = settings
	return nil
}

// RefreshCache drops every cached profile and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.profiles = make(map[string]*Settings)
	m.mu.Unlock()

	return m.loadDefaultProfile()
}

// SaveProfile validates and writes a profile to disk
func (m *Manager) SaveProfile(name string, settings *Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	name = strings.TrimSuffix(name, ".json")
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.profileDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	m.mu.Lock()
	m.profiles[name] = settings.Clone()
	m.mu.Unlock()

	return nil
}

// loadDefaultProfile uses default.json when present, built-in defaults otherwise
func (m *Manager) loadDefaultProfile() error {
	settings, err := m.LoadProfile(DefaultProfile)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return err
		}
		settings = Defaults()
	}

	m.mu.Lock()
	m.defaultSettings = settings
	m.mu.Unlock()
	return nil
}
