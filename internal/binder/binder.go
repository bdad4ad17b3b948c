// Package binder inserts, overwrites and removes parameter statements in the block that
// follows an anchor line.
//
// Every function works on a copy of the program and returns it in a Change; the input is
// never modified, so a failed edit leaves nothing behind.
package binder

import (
	"fmt"
	"strconv"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/param"
	"github.com/jorge-barreto/srcparam/internal/program"
)

// Template is the condition written in front of trigger-style statements.
type Template struct {
	Distance float64
	Delay    float64
}

// Statement renders v as a conditional trigger,
// e.g. "TRIGGER WHEN DISTANCE=0 DELAY=0 DO TOOL_RPM=80".
func (t Template) Statement(v param.Value) string {
	return fmt.Sprintf("TRIGGER WHEN DISTANCE=%s DELAY=%s DO %s",
		strconv.FormatFloat(t.Distance, 'f', -1, 64),
		strconv.FormatFloat(t.Delay, 'f', -1, 64),
		v.Statement())
}

// Action says what a Change did to the program.
type Action int

const (
	Inserted Action = iota + 1
	Updated
	Removed
)

func (a Action) String() string {
	switch a {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is the result of a successful edit.
type Change struct {
	Program *program.Program
	Line    int // line inserted, updated or removed (1-based, in the program it applied to)
	Action  Action
}

// Site describes an anchor and its parameter block.
type Site struct {
	Anchor   int
	Block    []int
	Existing int // block line holding the kind's statement, 0 when absent
}

// End returns the line after the last block line, where bare statements are appended.
func (s Site) End() int {
	return s.Anchor + len(s.Block) + 1
}

// Locate resolves a and scans its block for a statement of kind k.
func Locate(p *program.Program, a anchor.Anchor, k param.Kind) (Site, error) {
	lines := p.Lines()
	at, ok := anchor.Resolve(lines, a)
	if !ok {
		return Site{}, fmt.Errorf("%w: no line for %s", editerr.ErrAnchorNotFound, a)
	}
	return LocateAt(p, at, k), nil
}

// LocateAt scans the block of the anchor line at for a statement of kind k.
func LocateAt(p *program.Program, at int, k param.Kind) Site {
	lines := p.Lines()
	site := Site{Anchor: at, Block: anchor.Block(lines, at)}
	for _, n := range site.Block {
		if param.Assigns(lines[n-1], k) {
			site.Existing = n
			break
		}
	}
	return site
}

// Upsert materializes v in the block of a. An existing statement of the same kind is
// overwritten in place. Otherwise trigger-style kinds are inserted right after the anchor
// and bare kinds at the end of the block.
func Upsert(p *program.Program, a anchor.Anchor, v param.Value, tmpl Template) (Change, error) {
	site, err := Locate(p, a, v.Kind)
	if err != nil {
		return Change{}, err
	}
	if site.Existing > 0 {
		return Overwrite(p, site.Existing, v)
	}
	out := p.Clone()
	line, at := v.Statement(), site.End()
	if v.Kind.TriggerStyle() {
		line, at = tmpl.Statement(v), site.Anchor+1
	}
	if err := out.Insert(at, line); err != nil {
		return Change{}, err
	}
	return Change{Program: out, Line: at, Action: Inserted}, nil
}

// Overwrite replaces the value of the statement on line n with v.
func Overwrite(p *program.Program, n int, v param.Value) (Change, error) {
	cur, err := p.Line(n)
	if err != nil {
		return Change{}, fmt.Errorf("%w: %w", editerr.ErrParameterNotFound, err)
	}
	next, err := param.Rewrite(cur, v)
	if err != nil {
		return Change{}, err
	}
	out := p.Clone()
	if err := out.Replace(n, next); err != nil {
		return Change{}, err
	}
	return Change{Program: out, Line: n, Action: Updated}, nil
}

// Remove deletes the statement of kind k from the block of a. The anchor line and other
// kinds in the block stay.
func Remove(p *program.Program, a anchor.Anchor, k param.Kind) (Change, error) {
	site, err := Locate(p, a, k)
	if err != nil {
		return Change{}, err
	}
	if site.Existing == 0 {
		return Change{}, fmt.Errorf("%w: no %s bound at %s", editerr.ErrParameterNotFound, k.Token(), a)
	}
	return DeleteLine(p, site.Existing)
}

// DeleteLine removes line n.
func DeleteLine(p *program.Program, n int) (Change, error) {
	out := p.Clone()
	if err := out.Delete(n); err != nil {
		return Change{}, fmt.Errorf("%w: %w", editerr.ErrParameterNotFound, err)
	}
	return Change{Program: out, Line: n, Action: Removed}, nil
}
