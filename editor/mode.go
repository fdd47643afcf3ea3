package editor

import (
	"fmt"
	"strings"

	"github.com/gekko3d/mapedit/scene"
)

// Mode is the outer selection mode of the scene.
type Mode int

const (
	// Primitive picks brushes and patches, and point entities ahead of them.
	Primitive Mode = iota
	// Entity picks whole entities only.
	Entity
	// Component picks vertices or faces of the selected nodes.
	Component
)

func (m Mode) String() string {
	switch m {
	case Primitive:
		return "primitive"
	case Entity:
		return "entity"
	case Component:
		return "component"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseComponentMode accepts "vertex" and "face".
func ParseComponentMode(name string) (scene.ComponentMode, error) {
	switch strings.ToLower(name) {
	case "vertex":
		return scene.ComponentVertex, nil
	case "face":
		return scene.ComponentFace, nil
	}
	return scene.ComponentDefault, fmt.Errorf("unknown component mode %q", name)
}
