package session

import (
	"fmt"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/binder"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/param"
)

// Tx is a working copy of the session state. Edits made through a Tx are visible to
// later edits in the same Tx and are committed together. State objects are replaced,
// never modified in place, so the snapshot a Tx started from stays intact.
type Tx struct {
	cur    Snapshot
	limits param.Limits
	tmpl   binder.Template
	edits  []Edit
}

// Catalog returns the catalog of the working copy.
func (tx *Tx) Catalog() *param.Catalog { return tx.cur.Catalog.Clone() }

// Bind sets kind k to raw at anchor a.
//
// Progress anchors are materialized in the program: an existing statement in the
// anchor's block is overwritten, otherwise a new statement is inserted. Z-height anchors
// must resolve to a "LIN X Y Z" motion line; an existing statement in the block is
// overwritten, otherwise the value is kept in the overlay and written at render time.
func (tx *Tx) Bind(a anchor.Anchor, k param.Kind, raw string, confirmed bool) (Edit, error) {
	v, err := tx.limits.ParseChecked(k, raw, confirmed)
	if err != nil {
		return Edit{}, err
	}
	if err := tx.checkAnchor(a); err != nil {
		return Edit{}, err
	}
	e := Edit{Op: "bind", Target: a.String(), Value: v}

	if a.Type == anchor.Progress {
		ch, err := binder.Upsert(tx.cur.Program, a, v, tx.tmpl)
		if err != nil {
			return Edit{}, err
		}
		e.Action, e.Line = ch.Action, ch.Line
		return tx.record(e, Snapshot{Program: ch.Program, Overlay: tx.cur.Overlay}), nil
	}

	site, err := tx.motionSite(a, k)
	if err != nil {
		return Edit{}, err
	}
	if b, ok := tx.cur.Overlay.Lookup(a.Z); ok {
		if _, bound := b.Get(k); bound {
			return tx.bindOverlay(e, a.Z, v, binder.Updated), nil
		}
	}
	if site.Existing > 0 {
		ch, err := binder.Overwrite(tx.cur.Program, site.Existing, v)
		if err != nil {
			return Edit{}, err
		}
		e.Action, e.Line = ch.Action, ch.Line
		return tx.record(e, Snapshot{Program: ch.Program, Overlay: tx.cur.Overlay}), nil
	}
	return tx.bindOverlay(e, a.Z, v, binder.Inserted), nil
}

func (tx *Tx) bindOverlay(e Edit, z float64, v param.Value, action binder.Action) Edit {
	o := tx.cur.Overlay.Clone()
	o.Set(z, v)
	e.Action, e.Overlay = action, true
	return tx.record(e, Snapshot{Program: tx.cur.Program, Overlay: o})
}

// Unbind removes kind k from anchor a. For Z-height anchors an overlay binding is
// removed first; otherwise the statement in the anchor's block is deleted. The anchor
// line and other kinds stay.
func (tx *Tx) Unbind(a anchor.Anchor, k param.Kind) (Edit, error) {
	if err := tx.checkAnchor(a); err != nil {
		return Edit{}, err
	}
	e := Edit{Op: "unbind", Target: a.String(), Value: param.Value{Kind: k}}

	if a.Type == anchor.ZHeight {
		if b, ok := tx.cur.Overlay.Lookup(a.Z); ok {
			if v, bound := b.Get(k); bound {
				o := tx.cur.Overlay.Clone()
				o.Remove(a.Z, k)
				e.Value, e.Action, e.Overlay = v, binder.Removed, true
				return tx.record(e, Snapshot{Program: tx.cur.Program, Overlay: o}), nil
			}
		}
	}

	var site binder.Site
	var err error
	if a.Type == anchor.ZHeight {
		site, err = tx.motionSite(a, k)
	} else {
		site, err = binder.Locate(tx.cur.Program, a, k)
	}
	if err != nil {
		return Edit{}, err
	}
	if site.Existing == 0 {
		return Edit{}, fmt.Errorf("%w: no %s bound at %s", editerr.ErrParameterNotFound, k.Token(), a)
	}
	if r, ok := tx.cur.Catalog.AtLine(site.Existing); ok {
		e.Value = r.Value
	}
	ch, err := binder.DeleteLine(tx.cur.Program, site.Existing)
	if err != nil {
		return Edit{}, err
	}
	e.Action, e.Line = ch.Action, ch.Line
	return tx.record(e, Snapshot{Program: ch.Program, Overlay: tx.cur.Overlay}), nil
}

// SetValue changes the value of the record with the given key. Only the value text of
// the statement is rewritten.
func (tx *Tx) SetValue(key, raw string, confirmed bool) (Edit, error) {
	r, ok := tx.cur.Catalog.Get(key)
	if !ok {
		return Edit{}, fmt.Errorf("%w: no record %q", editerr.ErrParameterNotFound, key)
	}
	v, err := tx.limits.ParseChecked(r.Kind, raw, confirmed)
	if err != nil {
		return Edit{}, err
	}
	ch, err := binder.Overwrite(tx.cur.Program, r.Line, v)
	if err != nil {
		return Edit{}, err
	}
	e := Edit{Op: "set", Target: key, Value: v, Action: ch.Action, Line: ch.Line}
	return tx.record(e, Snapshot{Program: ch.Program, Overlay: tx.cur.Overlay}), nil
}

// DeleteRecord removes the line holding the record with the given key. Keys of records
// below it change because line numbers are re-derived.
func (tx *Tx) DeleteRecord(key string) (Edit, error) {
	r, ok := tx.cur.Catalog.Get(key)
	if !ok {
		return Edit{}, fmt.Errorf("%w: no record %q", editerr.ErrParameterNotFound, key)
	}
	ch, err := binder.DeleteLine(tx.cur.Program, r.Line)
	if err != nil {
		return Edit{}, err
	}
	e := Edit{Op: "delete", Target: key, Value: r.Value, Action: ch.Action, Line: ch.Line}
	return tx.record(e, Snapshot{Program: ch.Program, Overlay: tx.cur.Overlay}), nil
}

// motionSite locates the block of the first strict motion line at a's height, the line
// overlay bindings for a are rendered after.
func (tx *Tx) motionSite(a anchor.Anchor, k param.Kind) (binder.Site, error) {
	n, ok := anchor.ResolveMotion(tx.cur.Program.Lines(), a.Z)
	if !ok {
		return binder.Site{}, fmt.Errorf("%w: no LIN X Y Z motion line at %s", editerr.ErrAnchorNotFound, a)
	}
	return binder.LocateAt(tx.cur.Program, n, k), nil
}

// checkAnchor enforces the anchor bounds: progress within 0..100 and Z within
// [0, highest Z in the program].
func (tx *Tx) checkAnchor(a anchor.Anchor) error {
	switch a.Type {
	case anchor.Progress:
		if a.Percent < 0 || a.Percent > 100 {
			return fmt.Errorf("%w: progress must be between 0 and 100, got %d", editerr.ErrParameterOutOfRange, a.Percent)
		}
	case anchor.ZHeight:
		max := anchor.MaxZ(tx.cur.Program.Lines())
		if a.Z < 0 || a.Z > max+anchor.Tolerance {
			return fmt.Errorf("%w: Z must be between 0 and %g, got %g", editerr.ErrParameterOutOfRange, max, a.Z)
		}
	default:
		return fmt.Errorf("%w: unknown anchor type", editerr.ErrAnchorNotFound)
	}
	return nil
}

// record installs next as the working state, re-extracting the catalog.
func (tx *Tx) record(e Edit, next Snapshot) Edit {
	next.Catalog = param.Extract(next.Program.Lines())
	tx.cur = next
	tx.edits = append(tx.edits, e)
	return e
}
