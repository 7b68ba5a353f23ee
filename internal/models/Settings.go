package models

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cast"
)

const (
	MinSize        = 128
	MaxSize        = 1024
	MinHistorySize = 1
	MaxHistorySize = 1000

	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

type Settings struct {
	Theme           string `json:"theme"`
	DefaultSize     int    `json:"defaultSize"`
	ForegroundColor string `json:"foregroundColor"`
	BackgroundColor string `json:"backgroundColor"`
	AutoOpen        bool   `json:"autoOpen"`
	SaveScans       bool   `json:"saveScans"`
	SoundFeedback   bool   `json:"soundFeedback"`
	HistorySize     int    `json:"historySize"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:           ThemeLight,
		DefaultSize:     256,
		ForegroundColor: "#000000",
		BackgroundColor: "#ffffff",
		AutoOpen:        false,
		SaveScans:       true,
		SoundFeedback:   true,
		HistorySize:     50,
	}
}

func ClampSize(size int) int {
	return min(max(size, MinSize), MaxSize)
}

func ClampHistorySize(n int) int {
	return min(max(n, MinHistorySize), MaxHistorySize)
}

func IsHexColor(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

func validTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark || s == ThemeAuto
}

// Normalize repairs values read from storage field by field.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !validTheme(s.Theme) {
		s.Theme = def.Theme
	}
	if !IsHexColor(s.ForegroundColor) {
		s.ForegroundColor = def.ForegroundColor
	}
	if !IsHexColor(s.BackgroundColor) {
		s.BackgroundColor = def.BackgroundColor
	}
	s.DefaultSize = ClampSize(s.DefaultSize)
	s.HistorySize = ClampHistorySize(s.HistorySize)
	return s
}

// Merge applies a partial update on top of s. Unknown keys and null values are ignored.
// On error s is returned unchanged.
func (s Settings) Merge(partial map[string]any) (Settings, error) {
	next := s
	for key, raw := range partial {
		if raw == nil {
			continue
		}
		var err error
		switch key {
		case "theme":
			var v string
			if v, err = cast.ToStringE(raw); err == nil && !validTheme(v) {
				err = fmt.Errorf("unsupported theme %q", v)
			}
			next.Theme = v
		case "defaultSize":
			var v int
			v, err = cast.ToIntE(raw)
			next.DefaultSize = ClampSize(v)
		case "historySize":
			var v int
			v, err = cast.ToIntE(raw)
			next.HistorySize = ClampHistorySize(v)
		case "foregroundColor":
			next.ForegroundColor, err = colorValue(raw)
		case "backgroundColor":
			next.BackgroundColor, err = colorValue(raw)
		case "autoOpen":
			next.AutoOpen, err = cast.ToBoolE(raw)
		case "saveScans":
			next.SaveScans, err = cast.ToBoolE(raw)
		case "soundFeedback":
			next.SoundFeedback, err = cast.ToBoolE(raw)
		}
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, key, err)
		}
	}
	return next, nil
}

func colorValue(raw any) (string, error) {
	v, err := cast.ToStringE(raw)
	if err != nil {
		return "", err
	}
	if !IsHexColor(v) {
		return "", fmt.Errorf("not a hex color: %q", v)
	}
	return v, nil
}
