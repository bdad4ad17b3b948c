package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/editerr"
	"github.com/jorge-barreto/srcparam/internal/param"
)

// EnsureDir creates the project directory.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// ReadSource reads a program file whole.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", editerr.ErrIOFailure, path, err)
	}
	return string(data), nil
}

// WriteOutput replaces path with text atomically.
func WriteOutput(path, text string) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFileAtomic(path, []byte(text), perm); err != nil {
		return fmt.Errorf("%w: writing %s: %w", editerr.ErrIOFailure, path, err)
	}
	return nil
}

// OutputPath returns the default output file for source: the source name plus suffix,
// in the source's directory, e.g. part.src -> part_modified.src.
func OutputPath(source, suffix string) string {
	ext := filepath.Ext(source)
	if ext == "" {
		ext = ".src"
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(filepath.Dir(source), base+suffix+ext)
}

// ChangelogPath returns the change log that belongs to output,
// e.g. part_modified.src -> part_modified_changelog.txt.
func ChangelogPath(output, suffix string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + suffix + ".txt"
}

// Entry is one change log entry, written once per save.
type Entry struct {
	At        time.Time
	SessionID string
	Source    string
	Output    string
	Records   []param.Record
	Overlay   *anchor.Overlay
}

// Format renders the entry. Entries start with a blank line so consecutive appends stay
// separated.
func (e Entry) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n=== %s ===\n", e.At.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Session: %s\n", e.SessionID)
	fmt.Fprintf(&b, "Modified file: %s\n", e.Source)
	fmt.Fprintf(&b, "Output file: %s\n", e.Output)
	b.WriteString("Parameter changes:\n")
	for _, r := range e.Records {
		fmt.Fprintf(&b, "- %s: %s\n", r.Key, r.Value)
	}
	if e.Overlay != nil && len(e.Overlay.Bindings) > 0 {
		b.WriteString("\nCustom Z height parameters:\n")
		for _, bd := range e.Overlay.Bindings {
			fmt.Fprintf(&b, "Z = %s:\n", strconv.FormatFloat(bd.Z, 'f', -1, 64))
			for _, v := range bd.Values {
				fmt.Fprintf(&b, "  - %s: %s\n", v.Kind.Label(), v)
			}
		}
	}
	return b.String()
}

// AppendChangelog appends e to the change log at path, creating it if needed. Existing
// content is never rewritten.
func AppendChangelog(path string, e Entry) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", editerr.ErrIOFailure, path, err)
	}
	if _, err := f.WriteString(e.Format()); err != nil {
		f.Close()
		return fmt.Errorf("%w: appending to %s: %w", editerr.ErrIOFailure, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", editerr.ErrIOFailure, path, err)
	}
	return nil
}
