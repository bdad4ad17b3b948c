// Package session owns the editing state of one program: the line store, the catalog
// extracted from it, the Z-height overlay and the undo/redo history.
//
// Every mutation follows the same path. The request is validated, the next state is
// computed on copies, the current state is snapshotted into history, the next state is
// committed and the catalog is re-extracted. A request that fails at any step leaves the
// session and its history untouched.
//
// A Session is not safe for concurrent use.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/binder"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/history"
	"github.com/jorge-barreto/srcparam/internal/param"
	"github.com/jorge-barreto/srcparam/internal/program"
	"github.com/jorge-barreto/srcparam/internal/synth"
)

// Snapshot is a full copy of the editing state.
type Snapshot struct {
	Program *program.Program
	Catalog *param.Catalog
	Overlay *anchor.Overlay
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Program: s.Program.Clone(),
		Catalog: s.Catalog.Clone(),
		Overlay: s.Overlay.Clone(),
	}
}

// NewSnapshot builds a snapshot from program text and an overlay. The catalog is
// extracted from the text.
func NewSnapshot(text string, overlay *anchor.Overlay) Snapshot {
	p := program.Parse(text)
	if overlay == nil {
		overlay = &anchor.Overlay{}
	}
	return Snapshot{Program: p, Catalog: param.Extract(p.Lines()), Overlay: overlay.Clone()}
}

// Edit describes a committed change.
type Edit struct {
	Op      string
	Target  string // anchor or record key
	Value   param.Value
	Action  binder.Action
	Line    int  // program line touched, 0 for overlay edits
	Overlay bool // the change lives in the Z-height overlay
}

func (e Edit) String() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Overlay {
		where = "overlay"
	}
	return fmt.Sprintf("%s %s %s (%s, %s)", e.Op, e.Target, e.Value.Statement(), e.Action, where)
}

// Option configures a Session.
type Option func(*Session)

// WithLimits sets the value ceilings.
func WithLimits(l param.Limits) Option {
	return func(s *Session) { s.limits = l }
}

// WithTrigger sets the condition used for inserted trigger statements.
func WithTrigger(t binder.Template) Option {
	return func(s *Session) { s.tmpl = t }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithOverlay starts the session with existing Z-height bindings.
func WithOverlay(o *anchor.Overlay) Option {
	return func(s *Session) {
		if o != nil {
			s.cur.Overlay = o.Clone()
		}
	}
}

// WithHistory restores saved undo and redo slots.
func WithHistory(h *history.History[Snapshot]) Option {
	return func(s *Session) {
		if h != nil {
			s.hist = h
		}
	}
}

// Session is the editing facade.
type Session struct {
	cur    Snapshot
	hist   *history.History[Snapshot]
	limits param.Limits
	tmpl   binder.Template
	log    *zap.Logger
}

// New opens a session on program text.
func New(text string, opts ...Option) *Session {
	s := &Session{
		cur:    NewSnapshot(text, nil),
		hist:   history.New[Snapshot](),
		limits: param.DefaultLimits(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log.Debug("session opened",
		zap.Int("lines", s.cur.Program.Len()),
		zap.Int("records", len(s.cur.Catalog.Records)),
		zap.Int("issues", len(s.cur.Catalog.Issues)))
	return s
}

// Program returns a copy of the line store.
func (s *Session) Program() *program.Program { return s.cur.Program.Clone() }

// Catalog returns a copy of the current catalog.
func (s *Session) Catalog() *param.Catalog { return s.cur.Catalog.Clone() }

// Overlay returns a copy of the Z-height bindings.
func (s *Session) Overlay() *anchor.Overlay { return s.cur.Overlay.Clone() }

// Text returns the line store text without overlay bindings.
func (s *Session) Text() string { return s.cur.Program.Text() }

// Limits returns the value ceilings in force.
func (s *Session) Limits() param.Limits { return s.limits }

// Render synthesizes the output program.
func (s *Session) Render() synth.Result {
	res := synth.Render(s.cur.Program, s.cur.Overlay)
	for _, err := range res.Skipped {
		s.log.Warn("binding skipped", zap.Error(err))
	}
	return res
}

// HistoryState returns the position of the undo/redo machine.
func (s *Session) HistoryState() history.State { return s.hist.State() }

// Slots returns the saved undo and redo snapshots.
func (s *Session) Slots() (undo, redo *Snapshot) { return s.hist.Slots() }

// Bind sets kind k to raw at anchor a. See Tx.Bind.
func (s *Session) Bind(a anchor.Anchor, k param.Kind, raw string, confirmed bool) (Edit, error) {
	return s.apply(func(tx *Tx) (Edit, error) { return tx.Bind(a, k, raw, confirmed) })
}

// Unbind removes kind k from anchor a. See Tx.Unbind.
func (s *Session) Unbind(a anchor.Anchor, k param.Kind) (Edit, error) {
	return s.apply(func(tx *Tx) (Edit, error) { return tx.Unbind(a, k) })
}

// SetValue changes the value of an extracted record. See Tx.SetValue.
func (s *Session) SetValue(key, raw string, confirmed bool) (Edit, error) {
	return s.apply(func(tx *Tx) (Edit, error) { return tx.SetValue(key, raw, confirmed) })
}

// DeleteRecord removes the statement of an extracted record. See Tx.DeleteRecord.
func (s *Session) DeleteRecord(key string) (Edit, error) {
	return s.apply(func(tx *Tx) (Edit, error) { return tx.DeleteRecord(key) })
}

// Undo restores the state before the last committed edit.
func (s *Session) Undo() error {
	prev, err := s.hist.Undo(s.cur.Clone())
	if err != nil {
		return err
	}
	s.cur = prev
	s.log.Info("undo", zap.String("history", s.hist.State().String()))
	return nil
}

// Redo reapplies the edit reverted by Undo.
func (s *Session) Redo() error {
	next, err := s.hist.Redo(s.cur.Clone())
	if err != nil {
		return err
	}
	s.cur = next
	s.log.Info("redo", zap.String("history", s.hist.State().String()))
	return nil
}

// Batch runs fn against a working copy. When fn returns nil and made at least one edit,
// the result is committed as a single undo step; otherwise nothing changes.
func (s *Session) Batch(fn func(tx *Tx) error) ([]Edit, error) {
	tx := s.begin()
	if err := fn(tx); err != nil {
		s.log.Debug("batch rejected", zap.Int("edits", len(tx.edits)), zap.Error(err))
		return nil, err
	}
	if len(tx.edits) == 0 {
		return nil, nil
	}
	s.commit(tx)
	return tx.edits, nil
}

func (s *Session) apply(op func(tx *Tx) (Edit, error)) (Edit, error) {
	tx := s.begin()
	e, err := op(tx)
	if err != nil {
		s.log.Debug("edit rejected", zap.String("code", string(editerr.Classify(err))), zap.Error(err))
		return Edit{}, err
	}
	s.commit(tx)
	return e, nil
}

func (s *Session) begin() *Tx {
	return &Tx{cur: s.cur, limits: s.limits, tmpl: s.tmpl}
}

func (s *Session) commit(tx *Tx) {
	s.hist.Snapshot(s.cur)
	s.cur = tx.cur
	for _, e := range tx.edits {
		s.log.Info(e.Op,
			zap.String("target", e.Target),
			zap.String("statement", e.Value.Statement()),
			zap.Stringer("action", e.Action),
			zap.Int("line", e.Line),
			zap.Bool("overlay", e.Overlay))
	}
}
