package ux

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/history"
	"github.com/jorge-barreto/srcparam/internal/param"
)

// Status is what `srcparam status` shows about the open session.
type Status struct {
	Source     string
	SessionID  string
	Opened     time.Time
	History    history.State
	Lines      int
	Catalog    *param.Catalog
	Overlay    *anchor.Overlay
	Output     string
	LastOutput string
}

// RenderStatus prints the session summary.
func RenderStatus(w io.Writer, st Status) {
	fmt.Fprintf(w, "%sSource:%s   %s\n", Bold, Reset, st.Source)
	fmt.Fprintf(w, "%sSession:%s  %s %s(opened %s)%s\n", Bold, Reset, st.SessionID, Dim, st.Opened.Format("2006-01-02 15:04"), Reset)

	state := st.History.String()
	switch st.History {
	case history.Clean:
		state = Green + state + Reset
	case history.Dirty:
		state = Yellow + state + Reset + " (undo available)"
	case history.PostUndo:
		state = Yellow + state + Reset + " (redo available)"
	}
	fmt.Fprintf(w, "%sHistory:%s  %s\n", Bold, Reset, state)
	fmt.Fprintf(w, "%sProgram:%s  %d lines, %d parameters, %d Z bindings\n",
		Bold, Reset, st.Lines, len(st.Catalog.Records), st.Overlay.Len())

	if len(st.Catalog.Issues) > 0 {
		fmt.Fprintf(w, "\n%sMalformed:%s\n", Bold, Reset)
		for _, is := range st.Catalog.Issues {
			fmt.Fprintf(w, "  %s%4d%s  %s%v%s\n", Dim, is.Line, Reset, Yellow, is.Err, Reset)
		}
	}

	fmt.Fprintf(w, "\n%sOutput:%s   %s\n", Bold, Reset, st.Output)
	if st.LastOutput != "" {
		fmt.Fprintf(w, "%sLast save:%s %s\n", Bold, Reset, st.LastOutput)
	}
	fmt.Fprintln(w)
}

// RenderCatalog prints records grouped by kind, followed by the Z-height bindings.
func RenderCatalog(w io.Writer, cat *param.Catalog, overlay *anchor.Overlay) {
	if len(cat.Groups) == 0 {
		fmt.Fprintf(w, "%s(no parameters)%s\n", Dim, Reset)
	}
	for _, g := range cat.Groups {
		fmt.Fprintf(w, "%s%s%s\n", Bold, g.Name, Reset)
		for _, key := range g.Keys {
			r, ok := cat.Get(key)
			if !ok {
				continue
			}
			extra := ""
			if r.Trigger != nil {
				extra = fmt.Sprintf(" %s(trigger distance=%s delay=%s)%s", Dim,
					strconv.FormatFloat(r.Trigger.Distance, 'f', -1, 64),
					strconv.FormatFloat(r.Trigger.Delay, 'f', -1, 64), Reset)
			}
			fmt.Fprintf(w, "  %s%5d%s  %-10s%s\n", Dim, r.Line, Reset, r.Value, extra)
		}
	}
	if overlay != nil && len(overlay.Bindings) > 0 {
		fmt.Fprintf(w, "\n%sZ-height bindings%s\n", Bold, Reset)
		for _, b := range overlay.Bindings {
			fmt.Fprintf(w, "  %sZ=%s%s\n", Cyan, strconv.FormatFloat(b.Z, 'f', -1, 64), Reset)
			for _, v := range b.Values {
				fmt.Fprintf(w, "    %s\n", v.Statement())
			}
		}
	}
}
