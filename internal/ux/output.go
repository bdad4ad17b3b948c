package ux

import (
	"fmt"
	"os"
	"time"

	"github.com/jorge-barreto/srcparam/internal/plan"
	"github.com/jorge-barreto/srcparam/internal/session"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Edited prints a committed edit.
func Edited(e session.Edit) {
	fmt.Printf("%s[%s]%s  %s✓ %s%s\n", Dim, timestamp(), Reset, Green, e, Reset)
}

// HistoryMoved prints the result of undo or redo.
func HistoryMoved(op, state string) {
	fmt.Printf("%s[%s]%s  %s↺ %s%s %s(history: %s)%s\n",
		Dim, timestamp(), Reset, Cyan, op, Reset, Dim, state, Reset)
}

// Opened prints a summary after a program is opened.
func Opened(source string, lines, records, issues int) {
	fmt.Printf("%s[%s]%s  %sOpened %s%s: %d lines, %d parameters",
		Dim, timestamp(), Reset, Bold, source, Reset, lines, records)
	if issues > 0 {
		fmt.Printf(", %s%d malformed%s", Yellow, issues, Reset)
	}
	fmt.Println()
}

// Saved prints the output and change log paths after a save.
func Saved(output, changelog string) {
	fmt.Printf("%s[%s]%s  %s✓ Saved %s%s\n", Dim, timestamp(), Reset, Green, output, Reset)
	fmt.Printf("%s[%s]%s  %s  Change log updated in %s%s\n", Dim, timestamp(), Reset, Dim, changelog, Reset)
}

// Skipped warns on stderr about an overlay binding left out of the output.
func Skipped(err error) {
	fmt.Fprintf(os.Stderr, "  %s⚠ binding skipped: %v%s\n", Yellow, err, Reset)
}

// StepDone prints one applied plan step.
func StepDone(index, total int, s plan.Step, e session.Edit) {
	fmt.Printf("%s[%s]%s  %s%d/%d%s %s %s→ %s%s\n",
		Dim, timestamp(), Reset, Bold, index+1, total, Reset, s, Dim, e.Action, Reset)
}

// PlanApplied prints the final plan summary.
func PlanApplied(name string, edits int) {
	fmt.Printf("\n%s[%s]%s  %s%s══ Plan %q applied: %d edits, one undo step ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, name, edits, Reset)
}

// SaveHint prints the command that writes pending edits.
func SaveHint() {
	fmt.Printf("\n%sSave:%s srcparam save\n", Yellow, Reset)
}
