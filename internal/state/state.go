package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/history"
	"github.com/jorge-barreto/srcparam/internal/param"
	"github.com/jorge-barreto/srcparam/internal/session"
)

// DirName is the project directory holding config.yaml and session.json.
const DirName = ".srcparam"

// ErrNoSession is returned by Load when no program has been opened.
var ErrNoSession = errors.New("no open session (run 'srcparam open <file>')")

// Document is the persisted editing session. The line store is kept as text and the
// catalog is re-extracted on load.
type Document struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	Opened     time.Time    `json:"opened"`
	Text       string       `json:"text"`
	Overlay    []BindingDoc `json:"overlay,omitempty"`
	Undo       *SnapshotDoc `json:"undo,omitempty"`
	Redo       *SnapshotDoc `json:"redo,omitempty"`
	LastOutput string       `json:"last_output,omitempty"`
}

// SnapshotDoc is a saved history slot.
type SnapshotDoc struct {
	Text    string       `json:"text"`
	Overlay []BindingDoc `json:"overlay,omitempty"`
}

// BindingDoc is one Z-height anchor of the overlay.
type BindingDoc struct {
	Z      float64    `json:"z"`
	Values []ValueDoc `json:"values"`
}

// ValueDoc is a bound value in program notation, e.g. {"kind": "TOOL_RPM", "value": "80"}.
type ValueDoc struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func sessionPath(dir string) string {
	return filepath.Join(dir, "session.json")
}

// NewDocument starts a document for a freshly opened source file.
func NewDocument(source, text string) *Document {
	return &Document{
		ID:     uuid.NewString(),
		Source: source,
		Opened: time.Now(),
		Text:   text,
	}
}

// Load reads the session document from dir.
func Load(dir string) (*Document, error) {
	data, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sessionPath(dir), err)
	}
	if _, err := uuid.Parse(d.ID); err != nil {
		return nil, fmt.Errorf("parsing %s: invalid session id %q", sessionPath(dir), d.ID)
	}
	return &d, nil
}

// Save writes the document to dir.
func (d *Document) Save(dir string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(sessionPath(dir), data, 0644)
}

// Remove deletes the session document from dir. A missing document is not an error.
func Remove(dir string) error {
	if err := os.Remove(sessionPath(dir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Session rebuilds the editing session, including both history slots.
func (d *Document) Session(opts ...session.Option) (*session.Session, error) {
	overlay, err := decodeOverlay(d.Overlay)
	if err != nil {
		return nil, err
	}
	undo, err := decodeSnapshot(d.Undo)
	if err != nil {
		return nil, fmt.Errorf("undo slot: %w", err)
	}
	redo, err := decodeSnapshot(d.Redo)
	if err != nil {
		return nil, fmt.Errorf("redo slot: %w", err)
	}
	h, err := history.Restore(undo, redo)
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithOverlay(overlay), session.WithHistory(h))
	return session.New(d.Text, opts...), nil
}

// Capture copies the state of s into the document.
func (d *Document) Capture(s *session.Session) {
	d.Text = s.Text()
	d.Overlay = encodeOverlay(s.Overlay())
	undo, redo := s.Slots()
	d.Undo = encodeSnapshot(undo)
	d.Redo = encodeSnapshot(redo)
}

func encodeSnapshot(s *session.Snapshot) *SnapshotDoc {
	if s == nil {
		return nil
	}
	return &SnapshotDoc{Text: s.Program.Text(), Overlay: encodeOverlay(s.Overlay)}
}

func decodeSnapshot(d *SnapshotDoc) (*session.Snapshot, error) {
	if d == nil {
		return nil, nil
	}
	o, err := decodeOverlay(d.Overlay)
	if err != nil {
		return nil, err
	}
	s := session.NewSnapshot(d.Text, o)
	return &s, nil
}

func encodeOverlay(o *anchor.Overlay) []BindingDoc {
	if o == nil {
		return nil
	}
	var out []BindingDoc
	for _, b := range o.Bindings {
		bd := BindingDoc{Z: b.Z}
		for _, v := range b.Values {
			bd.Values = append(bd.Values, ValueDoc{Kind: v.Kind.Token(), Value: v.String()})
		}
		out = append(out, bd)
	}
	return out
}

func decodeOverlay(docs []BindingDoc) (*anchor.Overlay, error) {
	o := &anchor.Overlay{}
	for _, b := range docs {
		for _, vd := range b.Values {
			k, err := param.ParseKind(vd.Kind)
			if err != nil {
				return nil, fmt.Errorf("overlay at Z=%g: %w", b.Z, err)
			}
			v, err := param.Parse(k, vd.Value)
			if err != nil {
				return nil, fmt.Errorf("overlay at Z=%g: %w", b.Z, err)
			}
			o.Set(b.Z, v)
		}
	}
	return o, nil
}
