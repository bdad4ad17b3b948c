package param

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is one of the four recognized parameter types.
type Kind int

const (
	ToolSpeed Kind = iota + 1
	FeedRate
	Cooling
	Drive
)

// Kinds lists every kind in display order.
var Kinds = []Kind{ToolSpeed, FeedRate, Cooling, Drive}

var kindInfo = map[Kind]struct {
	token string
	label string
	alias string
}{
	ToolSpeed: {"TOOL_RPM", "Tool Speed (TOOL_RPM)", "tool-speed"},
	FeedRate:  {"$VEL.CP", "Feed Rate ($VEL.CP)", "feed-rate"},
	Cooling:   {"LAYER_COOLING", "Cooling (LAYER_COOLING)", "cooling"},
	Drive:     {"ACT_DRIVE", "Drive (ACT_DRIVE)", "drive"},
}

// Token returns the statement name written in the program, e.g. "TOOL_RPM".
func (k Kind) Token() string {
	return kindInfo[k].token
}

// Label returns the human-readable group name, e.g. "Tool Speed (TOOL_RPM)".
func (k Kind) Label() string {
	return kindInfo[k].label
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.token
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TriggerStyle reports whether the kind is written as a conditional trigger when it is
// materialized at a progress anchor.
func (k Kind) TriggerStyle() bool {
	return k == ToolSpeed || k == Drive
}

// ParseKind accepts a statement token (TOOL_RPM, $VEL.CP, LAYER_COOLING, ACT_DRIVE, with or
// without the leading $) or a CLI alias (tool-speed, feed-rate, cooling, drive).
func ParseKind(s string) (Kind, error) {
	want := strings.TrimSpace(s)
	for _, k := range Kinds {
		info := kindInfo[k]
		if strings.EqualFold(want, info.token) ||
			strings.EqualFold(want, strings.TrimPrefix(info.token, "$")) ||
			strings.EqualFold(want, info.alias) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter kind %q (must be TOOL_RPM, $VEL.CP, LAYER_COOLING, or ACT_DRIVE)", s)
}

// Recognize reports the highest-priority kind whose token appears anywhere in line.
// It is the membership test for an anchor's parameter block.
func Recognize(line string) (Kind, bool) {
	for _, m := range matchers {
		if m.detect(line) {
			return m.kind, true
		}
	}
	return 0, false
}

var assignRe = map[Kind]*regexp.Regexp{}

func init() {
	for _, k := range Kinds {
		assignRe[k] = regexp.MustCompile(regexp.QuoteMeta(k.Token()) + `\s*=`)
	}
}

// Assigns reports whether line holds a "<TOKEN>=" statement for k.
func Assigns(line string, k Kind) bool {
	re, ok := assignRe[k]
	return ok && re.MatchString(line)
}
