package mapedit

import (
	"fmt"
	"strings"

	"github.com/gekko3d/mapedit/editor"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/textool"
)

// StatusText renders the selection counts for the status bar. The text is
// rebuilt on first read after any selection or mode change.
type StatusText struct {
	sel   *editor.SelectionSystem
	tool  *textool.SelectionSystem
	text  string
	dirty bool
}

func NewStatusText(sel *editor.SelectionSystem) *StatusText {
	st := &StatusText{sel: sel, dirty: true}
	sel.SelectionChanged.Connect(func(selection.Selectable) { st.dirty = true })
	sel.ModeChanged.Connect(func(editor.Mode) { st.dirty = true })
	sel.SceneChanged.Connect(func(string) { st.dirty = true })
	return st
}

// AttachTextureTool adds the texture tool counts to the text.
func (st *StatusText) AttachTextureTool(tool *textool.SelectionSystem) {
	st.tool = tool
	st.dirty = true
	tool.SelectionChanged.Connect(func(selection.Selectable) { st.dirty = true })
	tool.ModeChanged.Connect(func(textool.SelectionMode) { st.dirty = true })
}

func (st *StatusText) Text() string {
	if !st.dirty {
		return st.text
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", st.sel.Mode(), st.sel.Info())
	if st.tool != nil && st.tool.Graph().Len() > 0 {
		fmt.Fprintf(&b, " | Texture [%s] %s: %d", st.tool.Mode(), st.tool.Graph().ActiveMaterial(), st.tool.Graph().Len())
		if n := st.tool.CountSelected(); n > 0 {
			fmt.Fprintf(&b, " selected: %d", n)
		}
		if n := st.tool.CountSelectedComponents(); n > 0 {
			fmt.Fprintf(&b, " editing: %d", n)
		}
	}
	st.text, st.dirty = b.String(), false
	return st.text
}
