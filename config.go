package mapedit

import (
	"fmt"
	"os"

	"github.com/gekko3d/mapedit/editor"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/selection/manipulators"
	"github.com/gekko3d/mapedit/textool"
	"gopkg.in/yaml.v3"
)

type SelectionConfig struct {
	EntityPriorityWeight float64 `yaml:"entityPriorityWeight"`
	DefaultManipulator   string  `yaml:"defaultManipulator"`
	// PointEpsilon is the half size of a point test in device units.
	PointEpsilon float64 `yaml:"pointEpsilon"`
}

type TextureToolConfig struct {
	DefaultManipulator string `yaml:"defaultManipulator"`
}

type UndoConfig struct {
	// MaxDepth bounds the undo stack, 0 keeps everything.
	MaxDepth int `yaml:"maxDepth"`
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

// Config is the editor configuration file.
type Config struct {
	Selection    SelectionConfig     `yaml:"selection"`
	Manipulators manipulators.Config `yaml:"manipulators"`
	TextureTool  TextureToolConfig   `yaml:"textureTool"`
	Undo         UndoConfig          `yaml:"undo"`
	Log          LogConfig           `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Selection: SelectionConfig{
			EntityPriorityWeight: editor.DefaultConfig().EntityPriorityWeight,
			DefaultManipulator:   "translate",
			PointEpsilon:         0.02,
		},
		Manipulators: manipulators.DefaultConfig(),
		TextureTool:  TextureToolConfig{DefaultManipulator: "drag"},
		Undo:         UndoConfig{MaxDepth: 256},
		Log:          LogConfig{Prefix: "mapedit"},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := selection.ParseManipulatorType(c.Selection.DefaultManipulator); err != nil {
		return fmt.Errorf("selection.defaultManipulator: %w", err)
	}
	if c.Selection.PointEpsilon <= 0 {
		return fmt.Errorf("selection.pointEpsilon must be positive, got %g", c.Selection.PointEpsilon)
	}
	if c.Selection.EntityPriorityWeight < 0 {
		return fmt.Errorf("selection.entityPriorityWeight must not be negative, got %g", c.Selection.EntityPriorityWeight)
	}
	t, err := selection.ParseManipulatorType(c.TextureTool.DefaultManipulator)
	if err != nil {
		return fmt.Errorf("textureTool.defaultManipulator: %w", err)
	}
	if t != selection.Drag && t != selection.Rotate {
		return fmt.Errorf("textureTool.defaultManipulator: %s is not available in the texture tool", t)
	}
	if c.Manipulators.CircleSegments < 8 {
		return fmt.Errorf("manipulators.circleSegments must be at least 8, got %d", c.Manipulators.CircleSegments)
	}
	if c.Manipulators.AxisLength <= 0 || c.Manipulators.RotateRadius <= 0 {
		return fmt.Errorf("manipulators: handle sizes must be positive")
	}
	if c.Undo.MaxDepth < 0 {
		return fmt.Errorf("undo.maxDepth must not be negative, got %d", c.Undo.MaxDepth)
	}
	return nil
}

// EditorConfig converts the selection sections. c must be valid.
func (c Config) EditorConfig() editor.Config {
	t, _ := selection.ParseManipulatorType(c.Selection.DefaultManipulator)
	return editor.Config{
		EntityPriorityWeight: c.Selection.EntityPriorityWeight,
		DefaultManipulator:   t,
		Manipulators:         c.Manipulators,
	}
}

// TexToolConfig converts the texture tool section. c must be valid.
func (c Config) TexToolConfig() textool.Config {
	t, _ := selection.ParseManipulatorType(c.TextureTool.DefaultManipulator)
	return textool.Config{
		DefaultManipulator: t,
		Manipulators:       c.Manipulators,
	}
}
