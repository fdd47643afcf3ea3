package editor

import (
	"fmt"
	"strings"

	"github.com/gekko3d/mapedit/scene"
)

// SelectionInfo counts what is selected. It is rebuilt on first use after
// the selection changes.
type SelectionInfo struct {
	Brushes    int
	Patches    int
	Entities   int
	Faces      int
	Components int
}

func (i SelectionInfo) Total() int {
	return i.Brushes + i.Patches + i.Entities
}

// String renders the counts for a status bar.
func (i SelectionInfo) String() string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", label, n))
		}
	}
	add(i.Brushes, "Brushes")
	add(i.Patches, "Patches")
	add(i.Entities, "Entities")
	add(i.Faces, "Faces")
	add(i.Components, "Components")
	if len(parts) == 0 {
		return "Nothing selected"
	}
	return strings.Join(parts, " ")
}

func (s *SelectionSystem) Info() SelectionInfo {
	if !s.infoDirty {
		return s.info
	}
	var info SelectionInfo
	for _, n := range s.Selected() {
		switch n.(type) {
		case *scene.Brush:
			info.Brushes++
		case *scene.Patch:
			info.Patches++
		case *scene.Entity:
			info.Entities++
		}
	}
	for _, n := range s.ComponentNodes() {
		if b, ok := n.(*scene.Brush); ok {
			for _, f := range b.Faces() {
				if f.IsSelected() {
					info.Faces++
				}
			}
		}
		if c, ok := n.(scene.ComponentEditable); ok {
			info.Components += c.CountSelectedComponents()
		}
	}
	s.info, s.infoDirty = info, false
	return info
}
