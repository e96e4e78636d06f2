package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings tunes the editor: size floor, nudge step, handle geometry and the
// defaults applied to newly created elements.
type Settings struct {
	MinSize            float64 `yaml:"minSize" json:"minSize"`
	NudgeStep          float64 `yaml:"nudgeStep" json:"nudgeStep"`
	HandleRadius       float64 `yaml:"handleRadius" json:"handleRadius"`
	RotateHandleOffset float64 `yaml:"rotateHandleOffset" json:"rotateHandleOffset"`

	Artboard  ArtboardSettings  `yaml:"artboard" json:"artboard"`
	Rectangle RectangleDefaults `yaml:"rectangle" json:"rectangle"`
	Text      TextDefaults      `yaml:"text" json:"text"`
}

type ArtboardSettings struct {
	Width      float64 `yaml:"width" json:"width"`
	Height     float64 `yaml:"height" json:"height"`
	Background string  `yaml:"background" json:"background"`
}

type RectangleDefaults struct {
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	FillColor string  `yaml:"fillColor" json:"fillColor"`
}

type TextDefaults struct {
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	Content   string  `yaml:"content" json:"content"`
	FontSize  float64 `yaml:"fontSize" json:"fontSize"`
	TextColor string  `yaml:"textColor" json:"textColor"`
}

// DefaultSettings returns the built-in editor settings.
func DefaultSettings() Settings {
	return Settings{
		MinSize:            20,
		NudgeStep:          5,
		HandleRadius:       6,
		RotateHandleOffset: 25,
		Artboard: ArtboardSettings{
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		Rectangle: RectangleDefaults{
			Width:     150,
			Height:    100,
			FillColor: "#3b82f6",
		},
		Text: TextDefaults{
			Width:     200,
			Height:    40,
			Content:   "Text",
			FontSize:  16,
			TextColor: "#111827",
		},
	}
}

// LoadSettings reads a YAML settings file. An empty path or a missing file
// yields DefaultSettings; fields absent from the file keep their defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("unmarshal settings: %w", err)
	}

	settings.fillZeroes()
	return settings, nil
}

// fillZeroes restores defaults for values a file set to zero or negative.
func (s *Settings) fillZeroes() {
	d := DefaultSettings()
	if s.MinSize <= 0 {
		s.MinSize = d.MinSize
	}
	if s.NudgeStep <= 0 {
		s.NudgeStep = d.NudgeStep
	}
	if s.HandleRadius <= 0 {
		s.HandleRadius = d.HandleRadius
	}
	if s.RotateHandleOffset <= 0 {
		s.RotateHandleOffset = d.RotateHandleOffset
	}
	if s.Artboard.Width <= 0 {
		s.Artboard.Width = d.Artboard.Width
	}
	if s.Artboard.Height <= 0 {
		s.Artboard.Height = d.Artboard.Height
	}
	if s.Rectangle.Width <= 0 {
		s.Rectangle.Width = d.Rectangle.Width
	}
	if s.Rectangle.Height <= 0 {
		s.Rectangle.Height = d.Rectangle.Height
	}
	if s.Text.Width <= 0 {
		s.Text.Width = d.Text.Width
	}
	if s.Text.Height <= 0 {
		s.Text.Height = d.Text.Height
	}
	if s.Text.FontSize <= 0 {
		s.Text.FontSize = d.Text.FontSize
	}
}
