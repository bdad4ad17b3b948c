package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/binder"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/history"
	"github.com/jorge-barreto/srcparam/internal/param"
)

const part = `DEF part()
TRIGGER WHEN DISTANCE=0 DELAY=0 DO PRINT_PROGRESS=10
$VEL.CP=0.3
LIN X 1 Y 1 Z 0.4
LAYER_COOLING=50
LIN X 1 Y 2 Z 0.8
LIN X 2 Y 2 Z 0.8
END
`

func TestBind_EndToEnd(t *testing.T) {
	s := New("LIN X1 Y1 Z12.500\n")
	e, err := s.Bind(anchor.AtZ(12.5), param.ToolSpeed, "80", false)
	require.NoError(t, err)
	assert.True(t, e.Overlay)
	assert.Equal(t, binder.Inserted, e.Action)
	assert.Equal(t, "LIN X1 Y1 Z12.500\nTOOL_RPM=80\n", s.Render().Text())
	assert.Equal(t, "LIN X1 Y1 Z12.500\n", s.Text(), "overlay bindings stay out of the line store")
}

func TestBind_RangeEnforcement(t *testing.T) {
	tests := []struct {
		name      string
		kind      param.Kind
		raw       string
		confirmed bool
		want      error
	}{
		{"tool speed over max", param.ToolSpeed, "150", false, editerr.ErrParameterOutOfRange},
		{"tool speed fraction", param.ToolSpeed, "80.5", false, editerr.ErrMalformedParameter},
		{"feed rate needs confirmation", param.FeedRate, "0.8", false, editerr.ErrParameterNeedsConfirmation},
		{"feed rate over max confirmed", param.FeedRate, "2.5", true, editerr.ErrParameterOutOfRange},
		{"cooling over max", param.Cooling, "250", false, editerr.ErrParameterOutOfRange},
		{"drive not boolean", param.Drive, "maybe", false, editerr.ErrParameterOutOfRange},
		{"not a number", param.Cooling, "abc", false, editerr.ErrMalformedParameter},
		{"tool speed beyond int64", param.ToolSpeed, "1e20", false, editerr.ErrParameterOutOfRange},
		{"cooling beyond int64", param.Cooling, "9223372036854775808", false, editerr.ErrParameterOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(part)
			_, err := s.Bind(anchor.AtZ(0.8), tt.kind, tt.raw, tt.confirmed)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, part, s.Render().Text())
			assert.Equal(t, history.Clean, s.HistoryState())
		})
	}
}

func TestBind_FeedRateConfirmed(t *testing.T) {
	s := New(part)
	_, err := s.Bind(anchor.AtZ(0.8), param.FeedRate, "0.8", true)
	require.NoError(t, err)
	assert.Contains(t, s.Render().Text(), "LIN X 1 Y 2 Z 0.8\n$VEL.CP=0.8\n")
}

func TestBind_AnchorBounds(t *testing.T) {
	s := New(part)
	for _, a := range []anchor.Anchor{anchor.AtZ(-1), anchor.AtZ(5), anchor.AtProgress(101), anchor.AtProgress(-3)} {
		_, err := s.Bind(a, param.Cooling, "10", false)
		assert.ErrorIs(t, err, editerr.ErrParameterOutOfRange, a.String())
	}
	_, err := s.Bind(anchor.AtProgress(50), param.Cooling, "10", false)
	assert.ErrorIs(t, err, editerr.ErrAnchorNotFound)
	_, err = s.Bind(anchor.AtZ(0.6), param.Cooling, "10", false)
	assert.ErrorIs(t, err, editerr.ErrAnchorNotFound)
	assert.Equal(t, history.Clean, s.HistoryState())
}

func TestBind_ZRequiresStrictMotionLine(t *testing.T) {
	s := New("LIN {X 1, Y 1, Z 3}\nLIN X 1 Y 1 Z 5\n")
	_, err := s.Bind(anchor.AtZ(3), param.Cooling, "10", false)
	require.ErrorIs(t, err, editerr.ErrAnchorNotFound)
}

func TestBind_ZSkipsLooseLineAtSameHeight(t *testing.T) {
	in := "LIN_REL X 0 Y 0 Z 5.0\nLAYER_COOLING=20\nLIN X 1 Y 1 Z 5.0\nEND\n"
	s := New(in)
	e, err := s.Bind(anchor.AtZ(5), param.Cooling, "10", false)
	require.NoError(t, err)
	assert.True(t, e.Overlay, "the loose line's block is not the anchor's block")
	assert.Equal(t, "LIN_REL X 0 Y 0 Z 5.0\nLAYER_COOLING=20\nLIN X 1 Y 1 Z 5.0\nLAYER_COOLING=10\nEND\n", s.Render().Text())

	_, err = s.Unbind(anchor.AtZ(5), param.Cooling)
	require.NoError(t, err)
	_, err = s.Unbind(anchor.AtZ(5), param.Cooling)
	require.ErrorIs(t, err, editerr.ErrParameterNotFound)
	assert.Equal(t, in, s.Render().Text())
}

func TestBind_ZOverwritesMaterializedStatement(t *testing.T) {
	s := New(part)
	e, err := s.Bind(anchor.AtZ(0.4), param.Cooling, "75", false)
	require.NoError(t, err)
	assert.False(t, e.Overlay)
	assert.Equal(t, binder.Updated, e.Action)
	assert.Equal(t, 5, e.Line)
	assert.Zero(t, s.Overlay().Len())

	r, ok := s.Catalog().Get("Cooling (LAYER_COOLING) (Line 5)")
	require.True(t, ok)
	assert.Equal(t, int64(75), r.Value.Int)
}

func TestBind_ZOverlayUpdateKeepsOrder(t *testing.T) {
	s := New(part)
	_, err := s.Bind(anchor.AtZ(0.8), param.Cooling, "10", false)
	require.NoError(t, err)
	_, err = s.Bind(anchor.AtZ(0.8), param.Drive, "true", false)
	require.NoError(t, err)
	e, err := s.Bind(anchor.AtZ(0.8), param.Cooling, "20", false)
	require.NoError(t, err)
	assert.Equal(t, binder.Updated, e.Action)
	assert.Contains(t, s.Render().Text(), "LIN X 1 Y 2 Z 0.8\nLAYER_COOLING=20\nACT_DRIVE=TRUE\nLIN X 2 Y 2 Z 0.8\n")
}

func TestBind_ProgressMaterializes(t *testing.T) {
	s := New(part)
	_, err := s.Bind(anchor.AtProgress(10), param.ToolSpeed, "80", false)
	require.NoError(t, err)
	_, err = s.Bind(anchor.AtProgress(10), param.Cooling, "40", false)
	require.NoError(t, err)

	want := `DEF part()
TRIGGER WHEN DISTANCE=0 DELAY=0 DO PRINT_PROGRESS=10
TRIGGER WHEN DISTANCE=0 DELAY=0 DO TOOL_RPM=80
$VEL.CP=0.3
LAYER_COOLING=40
LIN X 1 Y 1 Z 0.4
LAYER_COOLING=50
LIN X 1 Y 2 Z 0.8
LIN X 2 Y 2 Z 0.8
END
`
	assert.Equal(t, want, s.Text())
	_, ok := s.Catalog().Get("Tool Speed (TOOL_RPM) (Line 3)")
	assert.True(t, ok, "catalog is re-extracted after every edit")
}

func TestBind_TriggerTemplate(t *testing.T) {
	s := New(part, WithTrigger(binder.Template{Distance: 1, Delay: -50}))
	_, err := s.Bind(anchor.AtProgress(10), param.Drive, "FALSE", false)
	require.NoError(t, err)
	assert.Contains(t, s.Text(), "PRINT_PROGRESS=10\nTRIGGER WHEN DISTANCE=1 DELAY=-50 DO ACT_DRIVE=FALSE\n")
}

func TestUnbind_DeletionContainment(t *testing.T) {
	s := New(part)
	_, err := s.Bind(anchor.AtProgress(10), param.ToolSpeed, "80", false)
	require.NoError(t, err)
	_, err = s.Bind(anchor.AtProgress(10), param.Cooling, "40", false)
	require.NoError(t, err)

	e, err := s.Unbind(anchor.AtProgress(10), param.Cooling)
	require.NoError(t, err)
	assert.Equal(t, binder.Removed, e.Action)
	assert.Equal(t, int64(40), e.Value.Int)
	_, err = s.Unbind(anchor.AtProgress(10), param.ToolSpeed)
	require.NoError(t, err)

	// FeedRate was in the block before any binding; removing the others keeps it.
	assert.Equal(t, part, s.Text())

	_, err = s.Unbind(anchor.AtProgress(10), param.Drive)
	assert.ErrorIs(t, err, editerr.ErrParameterNotFound)
}

func TestUnbind_ZPrefersOverlay(t *testing.T) {
	s := New(part)
	_, err := s.Bind(anchor.AtZ(0.8), param.Cooling, "10", false)
	require.NoError(t, err)
	e, err := s.Unbind(anchor.AtZ(0.8), param.Cooling)
	require.NoError(t, err)
	assert.True(t, e.Overlay)
	assert.Equal(t, part, s.Render().Text())

	e, err = s.Unbind(anchor.AtZ(0.4), param.Cooling)
	require.NoError(t, err)
	assert.False(t, e.Overlay)
	assert.NotContains(t, s.Text(), "LAYER_COOLING=50")
	assert.Contains(t, s.Text(), "LIN X 1 Y 1 Z 0.4\nLIN X 1 Y 2 Z 0.8\n")
}

func TestSetValue_PreservesPrefix(t *testing.T) {
	s := New("LIN X 0 Y 0 Z 1\n  ;fan LAYER_COOLING=50 ; keep\r\n")
	key := param.Key(param.Cooling, 2)
	_, err := s.SetValue(key, "120", false)
	require.NoError(t, err)
	assert.Equal(t, "LIN X 0 Y 0 Z 1\n  ;fan LAYER_COOLING=120 ; keep\r\n", s.Text())

	_, err = s.SetValue("Cooling (LAYER_COOLING) (Line 9)", "1", false)
	assert.ErrorIs(t, err, editerr.ErrParameterNotFound)
}

func TestDeleteRecord_RederivesKeys(t *testing.T) {
	s := New("$VEL.CP=0.3\nTOOL_RPM=80\n")
	_, err := s.DeleteRecord(param.Key(param.FeedRate, 1))
	require.NoError(t, err)
	assert.Equal(t, "TOOL_RPM=80\n", s.Text())
	_, ok := s.Catalog().Get(param.Key(param.ToolSpeed, 1))
	assert.True(t, ok)
	_, ok = s.Catalog().Get(param.Key(param.ToolSpeed, 2))
	assert.False(t, ok)
}

func TestUndoRedo_Symmetry(t *testing.T) {
	s := New(part)
	require.ErrorIs(t, s.Undo(), history.ErrNothingToUndo)
	require.ErrorIs(t, s.Redo(), history.ErrNothingToRedo)

	before := s.Render().Text()
	beforeCat := s.Catalog()
	_, err := s.Bind(anchor.AtZ(0.8), param.ToolSpeed, "100", false)
	require.NoError(t, err)
	_, err = s.SetValue(param.Key(param.FeedRate, 3), "0.2", false)
	require.NoError(t, err)
	after := s.Render().Text()

	require.NoError(t, s.Undo())
	assert.Equal(t, history.PostUndo, s.HistoryState())
	assert.Contains(t, s.Render().Text(), "$VEL.CP=0.3")
	assert.Contains(t, s.Render().Text(), "TOOL_RPM=100", "only the last edit is undone")
	assert.ErrorIs(t, s.Undo(), history.ErrNothingToUndo)

	require.NoError(t, s.Redo())
	assert.Equal(t, after, s.Render().Text())
	assert.Equal(t, history.Dirty, s.HistoryState())

	// New edit after undo discards redo.
	require.NoError(t, s.Undo())
	_, err = s.Unbind(anchor.AtZ(0.8), param.ToolSpeed)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Redo(), history.ErrNothingToRedo)
	assert.Equal(t, before, s.Render().Text())
	assert.Equal(t, beforeCat, s.Catalog())
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	s := New(part)
	c := s.Catalog()
	c.Records[0].Line = 99
	o := s.Overlay()
	o.Set(0.8, param.Value{Kind: param.Cooling, Int: 1})
	assert.NotEqual(t, 99, s.Catalog().Records[0].Line)
	assert.Zero(t, s.Overlay().Len())
}

func TestBatch_CommitsAsOneStep(t *testing.T) {
	s := New(part)
	edits, err := s.Batch(func(tx *Tx) error {
		if _, err := tx.Bind(anchor.AtProgress(10), param.Cooling, "40", false); err != nil {
			return err
		}
		if _, err := tx.Bind(anchor.AtZ(0.8), param.Drive, "TRUE", false); err != nil {
			return err
		}
		_, err := tx.SetValue(param.Key(param.Cooling, 6), "60", false)
		return err
	})
	require.NoError(t, err)
	require.Len(t, edits, 3)
	assert.Contains(t, s.Text(), "LAYER_COOLING=60")

	require.NoError(t, s.Undo())
	assert.Equal(t, part, s.Render().Text())
}

func TestBatch_FailureCommitsNothing(t *testing.T) {
	s := New(part)
	_, err := s.Batch(func(tx *Tx) error {
		if _, err := tx.Bind(anchor.AtProgress(10), param.Cooling, "40", false); err != nil {
			return err
		}
		_, err := tx.Bind(anchor.AtZ(0.8), param.ToolSpeed, "500", false)
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, editerr.ErrParameterOutOfRange))
	assert.Equal(t, part, s.Text())
	assert.Equal(t, history.Clean, s.HistoryState())
}

func TestRestoreFromSnapshots(t *testing.T) {
	var o anchor.Overlay
	o.Set(0.8, param.Value{Kind: param.Cooling, Int: 5})
	undo := NewSnapshot(part, nil)
	h, err := history.Restore[Snapshot](&undo, nil)
	require.NoError(t, err)

	s := New(part, WithOverlay(&o), WithHistory(h))
	assert.Contains(t, s.Render().Text(), "LIN X 1 Y 2 Z 0.8\nLAYER_COOLING=5\n")
	require.NoError(t, s.Undo())
	assert.Equal(t, part, s.Render().Text())
}
