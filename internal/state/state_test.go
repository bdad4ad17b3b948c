package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/history"
	"github.com/jorge-barreto/srcparam/internal/param"
)

const src = "LIN X 1 Y 1 Z 0.4\r\nLAYER_COOLING=50\r\nLIN X 1 Y 2 Z 0.8\r\n"

func TestLoad_NoSession(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoad_BadID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte(`{"id":"x"}`), 0644))
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session id")
}

func TestDocument_RoundTripKeepsHistory(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument("/parts/a.src", src)

	s, err := doc.Session()
	require.NoError(t, err)
	_, err = s.Bind(anchor.AtZ(0.8), param.ToolSpeed, "80", false)
	require.NoError(t, err)
	_, err = s.Bind(anchor.AtZ(0.8), param.Drive, "TRUE", false)
	require.NoError(t, err)
	doc.Capture(s)
	require.NoError(t, doc.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, loaded.ID)
	assert.Equal(t, src, loaded.Text)
	require.NotNil(t, loaded.Undo)
	assert.Nil(t, loaded.Redo)

	restored, err := loaded.Session()
	require.NoError(t, err)
	assert.Equal(t, history.Dirty, restored.HistoryState())
	assert.Equal(t, s.Render().Text(), restored.Render().Text())
	assert.Contains(t, restored.Render().Text(), "LIN X 1 Y 2 Z 0.8\r\nTOOL_RPM=80\r\nACT_DRIVE=TRUE\r\n")

	require.NoError(t, restored.Undo())
	assert.NotContains(t, restored.Render().Text(), "ACT_DRIVE")
	assert.Contains(t, restored.Render().Text(), "TOOL_RPM=80")

	loaded.Capture(restored)
	require.NoError(t, loaded.Save(dir))
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, again.Undo)
	require.NotNil(t, again.Redo)
	s3, err := again.Session()
	require.NoError(t, err)
	require.NoError(t, s3.Redo())
	assert.Equal(t, s.Render().Text(), s3.Render().Text())
}

func TestDocument_BadOverlay(t *testing.T) {
	doc := NewDocument("a.src", src)
	doc.Overlay = []BindingDoc{{Z: 0.8, Values: []ValueDoc{{Kind: "SPINDLE", Value: "1"}}}}
	_, err := doc.Session()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Z=0.8")
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Remove(dir))
	require.NoError(t, NewDocument("a.src", "").Save(dir))
	require.NoError(t, Remove(dir))
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrNoSession)
}
