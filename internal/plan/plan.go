// Package plan loads YAML edit plans and runs them against a session as one undo step.
package plan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jorge-barreto/srcparam/internal/anchor"
	"github.com/jorge-barreto/srcparam/internal/param"
)

const (
	OpBind   = "bind"
	OpUnbind = "unbind"
	OpSet    = "set"
	OpDelete = "delete"
)

// Step is one edit. Anchored steps (bind, unbind) name exactly one of Z or Progress.
// Record steps (set, delete) name either Key or Line together with Kind; keys and lines
// refer to the program as left by the previous step.
type Step struct {
	Op       string   `yaml:"op"`
	Z        *float64 `yaml:"z"`
	Progress *int     `yaml:"progress"`
	Key      string   `yaml:"key"`
	Line     int      `yaml:"line"`
	Kind     string   `yaml:"kind"`
	Value    string   `yaml:"value"`
	Confirm  bool     `yaml:"confirm"`

	kind param.Kind
}

type Plan struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load reads a YAML plan file and returns a validated Plan.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a plan.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every step and resolves kind names.
func Validate(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("plan: 'name' is required")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan: at least one step is required")
	}
	for i := range p.Steps {
		s := &p.Steps[i]
		s.Op = strings.ToLower(strings.TrimSpace(s.Op))
		if err := s.validate(); err != nil {
			return fmt.Errorf("plan: step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	switch s.Op {
	case OpBind, OpUnbind:
		if (s.Z == nil) == (s.Progress == nil) {
			return fmt.Errorf("exactly one of 'z' or 'progress' is required")
		}
		if s.Key != "" || s.Line != 0 {
			return fmt.Errorf("'key' and 'line' are not allowed on anchored steps")
		}
		if err := s.resolveKind(); err != nil {
			return err
		}
		if s.Op == OpBind && strings.TrimSpace(s.Value) == "" {
			return fmt.Errorf("'value' is required")
		}
		if s.Op == OpUnbind && s.Value != "" {
			return fmt.Errorf("'value' is not allowed")
		}
	case OpSet, OpDelete:
		if s.Z != nil || s.Progress != nil {
			return fmt.Errorf("'z' and 'progress' are not allowed on record steps")
		}
		switch {
		case s.Key != "" && s.Line != 0:
			return fmt.Errorf("'key' and 'line' are mutually exclusive")
		case s.Key == "" && s.Line == 0:
			return fmt.Errorf("one of 'key' or 'line' is required")
		case s.Line < 0:
			return fmt.Errorf("'line' must be positive, got %d", s.Line)
		case s.Line > 0:
			if err := s.resolveKind(); err != nil {
				return err
			}
		}
		if s.Op == OpSet && strings.TrimSpace(s.Value) == "" {
			return fmt.Errorf("'value' is required")
		}
		if s.Op == OpDelete && s.Value != "" {
			return fmt.Errorf("'value' is not allowed")
		}
	case "":
		return fmt.Errorf("'op' is required")
	default:
		return fmt.Errorf("unknown op %q (must be bind, unbind, set, or delete)", s.Op)
	}
	return nil
}

func (s *Step) resolveKind() error {
	if s.Kind == "" {
		return fmt.Errorf("'kind' is required")
	}
	k, err := param.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	s.kind = k
	return nil
}

// Anchor returns the anchor of a bind or unbind step.
func (s Step) Anchor() anchor.Anchor {
	if s.Z != nil {
		return anchor.AtZ(*s.Z)
	}
	return anchor.AtProgress(*s.Progress)
}

// RecordKey returns the record key targeted by a set or delete step.
func (s Step) RecordKey() string {
	if s.Key != "" {
		return s.Key
	}
	return param.Key(s.kind, s.Line)
}

func (s Step) String() string {
	switch s.Op {
	case OpBind:
		return fmt.Sprintf("bind %s=%s at %s", s.kind.Token(), s.Value, s.Anchor())
	case OpUnbind:
		return fmt.Sprintf("unbind %s at %s", s.kind.Token(), s.Anchor())
	case OpSet:
		return fmt.Sprintf("set %s to %s", s.RecordKey(), s.Value)
	case OpDelete:
		return fmt.Sprintf("delete %s", s.RecordKey())
	default:
		return s.Op
	}
}
