package textool

import (
	"fmt"
	"strings"
)

// SelectionMode is the texture tool's selection mode.
type SelectionMode int

const (
	// Surface picks whole faces and patches.
	Surface SelectionMode = iota
	// Vertex picks the texture coordinates of single corners.
	Vertex
)

func (m SelectionMode) String() string {
	switch m {
	case Surface:
		return "surface"
	case Vertex:
		return "vertex"
	}
	return fmt.Sprintf("SelectionMode(%d)", int(m))
}

func ParseSelectionMode(name string) (SelectionMode, error) {
	switch strings.ToLower(name) {
	case "surface":
		return Surface, nil
	case "vertex":
		return Vertex, nil
	}
	return Surface, fmt.Errorf("unknown texture tool mode %q", name)
}
