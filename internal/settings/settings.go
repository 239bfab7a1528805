// Package settings persists the studio's display preferences as a TOML
// document, independent of the entity collections.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

type Settings struct {
	StudioName  string `toml:"studio_name" json:"studioName"`
	DisplayName string `toml:"display_name" json:"userName"`
	ThemeColor  string `toml:"theme_color" json:"primaryColor"`
	// NotificationsEnabled gates the deadline scan on every full load.
	NotificationsEnabled bool   `toml:"notifications_enabled" json:"enableNotifications"`
	LogoPath             string `toml:"logo_path,omitempty" json:"studioImageUrl,omitempty"`
}

func Default() Settings {
	return Settings{
		StudioName:           "LensFlow Studio",
		DisplayName:          "مبدع لنس فلو",
		ThemeColor:           "#6366f1",
		NotificationsEnabled: true,
	}
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func (s Settings) Validate() error {
	if s.StudioName == "" {
		return fmt.Errorf("studio name is required: %w", model.ErrValidation)
	}

	if !hexColor.MatchString(s.ThemeColor) {
		return fmt.Errorf("theme color %q is not a hex color: %w", s.ThemeColor, model.ErrValidation)
	}

	return nil
}

// Dir returns the XDG-compliant settings directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lensflow")
	}

	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".config", "lensflow")
}

// DefaultPath is where the binaries keep the settings document.
func DefaultPath() string {
	return filepath.Join(Dir(), "settings.toml")
}

// Load reads the document at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}

		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}

	return s, nil
}

// Save validates s and writes it to path.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	return nil
}
