package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_LevelsAndPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("mapedit", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String(), "debug is off by default")

	l.SetDebug(true)
	l.Debugf("shown %d", 2)
	l.Infof("info")
	l.Warnf("careful")

	assert.Contains(t, out.String(), "[mapedit] DEBUG: shown 2")
	assert.Contains(t, out.String(), "[mapedit] INFO: info")
	assert.Contains(t, errOut.String(), "[mapedit] WARN: careful")
	assert.NotContains(t, out.String(), "careful")
}

func TestDefaultLogger_NamedSharesSink(t *testing.T) {
	var out, errOut bytes.Buffer
	root := NewWriterLogger("mapedit", false, &out, &errOut)
	sel := root.Named("selection")
	undo := sel.Named("undo")

	// The debug switch is shared by the whole tree.
	root.SetDebug(true)
	assert.True(t, undo.DebugEnabled())
	sel.Debugf("mode %s", "component")
	undo.Errorf("failed")

	assert.Contains(t, out.String(), "[mapedit/selection] DEBUG: mode component")
	assert.Contains(t, errOut.String(), "[mapedit/selection/undo] ERROR: failed")
	assert.Same(t, root, root.Named(""))

	bare := NewWriterLogger("", false, &out, &errOut).Named("textool")
	assert.Equal(t, "textool", bare.(*DefaultLogger).Scope())
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	assert.NotNil(t, l.Named("selection"))
	assert.NotPanics(t, func() { l.Named("x").Errorf("nothing %s", "here") })
}
