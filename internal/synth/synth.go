// Package synth produces the program text that is previewed and saved: the line store
// with every Z-height binding emitted after its motion line.
package synth

import (
	"fmt"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/program"
)

// Result is the synthesized program plus the bindings that could not be placed.
type Result struct {
	Program *program.Program
	Skipped []error
}

// Text returns the synthesized program text.
func (r Result) Text() string {
	return r.Program.Text()
}

// Render walks p once. After the motion line that anchors each binding it emits one
// "<TOKEN>=<value>" line per bound kind, in binding order. Bindings whose anchor does not
// resolve to a strict motion line are reported in Skipped and left out. Neither p nor
// overlay is modified.
func Render(p *program.Program, overlay *anchor.Overlay) Result {
	lines := p.Lines()
	res := Result{}

	after := make(map[int][]anchor.Binding)
	if overlay != nil {
		for _, b := range overlay.Bindings {
			a := anchor.AtZ(b.Z)
			n, ok := anchor.ResolveMotion(lines, b.Z)
			if !ok {
				res.Skipped = append(res.Skipped, fmt.Errorf("%w: no LIN X Y Z motion line for %s", editerr.ErrAnchorNotFound, a))
				continue
			}
			after[n] = append(after[n], b)
		}
	}

	out := make([]string, 0, len(lines)+overlayLen(overlay))
	for i, line := range lines {
		out = append(out, line)
		for _, b := range after[i+1] {
			for _, v := range b.Values {
				out = append(out, p.Terminate(v.Statement()))
			}
		}
	}
	res.Program = p.WithLines(out)
	return res
}

func overlayLen(o *anchor.Overlay) int {
	if o == nil {
		return 0
	}
	return o.Len()
}
