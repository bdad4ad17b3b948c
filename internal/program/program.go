// Package program holds the text of a motion program as an ordered sequence of lines.
//
// A Program is the single source of truth for the file being edited. Lines are addressed
// 1-based. Text reproduces the input byte-for-byte as long as no line was changed: the
// trailing newline is remembered and carriage returns stay inside the line text.
package program

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLineOutOfRange is returned when a 1-based line number does not address a line.
var ErrLineOutOfRange = errors.New("line out of range")

// Program is an ordered, mutable sequence of lines.
type Program struct {
	lines           []string
	crlf            bool
	trailingNewline bool
}

// Parse splits text into lines.
func Parse(text string) *Program {
	p := &Program{}
	if text == "" {
		return p
	}
	p.trailingNewline = strings.HasSuffix(text, "\n")
	body := strings.TrimSuffix(text, "\n")
	p.lines = strings.Split(body, "\n")
	p.crlf = strings.HasSuffix(p.lines[0], "\r")
	return p
}

// Len returns the number of lines.
func (p *Program) Len() int {
	return len(p.lines)
}

// Line returns line n (1-based), including any carriage return.
func (p *Program) Line(n int) (string, error) {
	if n < 1 || n > len(p.lines) {
		return "", fmt.Errorf("%w: %d (program has %d lines)", ErrLineOutOfRange, n, len(p.lines))
	}
	return p.lines[n-1], nil
}

// Lines returns a copy of all lines.
func (p *Program) Lines() []string {
	return append([]string(nil), p.lines...)
}

// CRLF reports whether the program uses carriage-return line endings.
func (p *Program) CRLF() bool {
	return p.crlf
}

// Terminate returns line with the program's carriage return appended when the program
// uses CRLF endings. New lines go through it so inserted text matches its neighbours.
func (p *Program) Terminate(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if p.crlf {
		return line + "\r"
	}
	return line
}

// Insert places line so it becomes line n. n may be Len()+1 to append.
func (p *Program) Insert(n int, line string) error {
	if n < 1 || n > len(p.lines)+1 {
		return fmt.Errorf("%w: insert at %d (program has %d lines)", ErrLineOutOfRange, n, len(p.lines))
	}
	p.lines = append(p.lines, "")
	copy(p.lines[n:], p.lines[n-1:])
	p.lines[n-1] = p.Terminate(line)
	if len(p.lines) == 1 {
		p.trailingNewline = true
	}
	return nil
}

// Replace overwrites line n with exactly the given text.
func (p *Program) Replace(n int, line string) error {
	if n < 1 || n > len(p.lines) {
		return fmt.Errorf("%w: replace %d (program has %d lines)", ErrLineOutOfRange, n, len(p.lines))
	}
	p.lines[n-1] = line
	return nil
}

// Delete removes line n.
func (p *Program) Delete(n int) error {
	if n < 1 || n > len(p.lines) {
		return fmt.Errorf("%w: delete %d (program has %d lines)", ErrLineOutOfRange, n, len(p.lines))
	}
	p.lines = append(p.lines[:n-1], p.lines[n:]...)
	return nil
}

// WithLines returns a program with the same line ending settings and the given lines.
func (p *Program) WithLines(lines []string) *Program {
	return &Program{
		lines:           append([]string(nil), lines...),
		crlf:            p.crlf,
		trailingNewline: p.trailingNewline || (len(p.lines) == 0 && len(lines) > 0),
	}
}

// Clone returns a deep copy.
func (p *Program) Clone() *Program {
	cp := *p
	cp.lines = append([]string(nil), p.lines...)
	return &cp
}

// Text joins the lines back into the program text.
func (p *Program) Text() string {
	if len(p.lines) == 0 {
		return ""
	}
	var buf strings.Builder
	for i, l := range p.lines {
		buf.WriteString(l)
		if i < len(p.lines)-1 || p.trailingNewline {
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// Equal reports whether two programs hold the same text.
func (p *Program) Equal(o *Program) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Text() == o.Text()
}
