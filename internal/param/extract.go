package param

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jorge-barreto/srcparam/internal/editerr"
)

// Trigger holds the condition of a "TRIGGER WHEN DISTANCE=<d> DELAY=<t> DO ..." statement.
type Trigger struct {
	Distance float64
	Delay    float64
}

// Record is one parameter statement found in the program.
type Record struct {
	Key     string
	Kind    Kind
	Value   Value
	Line    int // 1-based
	Group   string
	Prefix  string // text before the statement token, kept for Cooling
	Trigger *Trigger
}

// Group lists record keys of one kind in first-seen order.
type Group struct {
	Name string
	Keys []string
}

// Issue is a recognized statement that could not be turned into a record.
type Issue struct {
	Line int
	Err  error
}

// Catalog is the result of one extraction pass.
type Catalog struct {
	Records []Record
	Groups  []Group
	Issues  []Issue
}

// Key returns the record key for kind k at line n, e.g. "Tool Speed (TOOL_RPM) (Line 12)".
func Key(k Kind, line int) string {
	return fmt.Sprintf("%s (Line %d)", k.Label(), line)
}

// Get looks a record up by key.
func (c *Catalog) Get(key string) (Record, bool) {
	for _, r := range c.Records {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}

// AtLine returns the record extracted from line n.
func (c *Catalog) AtLine(n int) (Record, bool) {
	for _, r := range c.Records {
		if r.Line == n {
			return r, true
		}
	}
	return Record{}, false
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	cp := &Catalog{
		Records: make([]Record, len(c.Records)),
		Groups:  make([]Group, len(c.Groups)),
		Issues:  append([]Issue(nil), c.Issues...),
	}
	for i, r := range c.Records {
		if r.Trigger != nil {
			t := *r.Trigger
			r.Trigger = &t
		}
		cp.Records[i] = r
	}
	for i, g := range c.Groups {
		cp.Groups[i] = Group{Name: g.Name, Keys: append([]string(nil), g.Keys...)}
	}
	return cp
}

func (c *Catalog) add(r Record) {
	c.Records = append(c.Records, r)
	for i := range c.Groups {
		if c.Groups[i].Name == r.Group {
			c.Groups[i].Keys = append(c.Groups[i].Keys, r.Key)
			return
		}
	}
	c.Groups = append(c.Groups, Group{Name: r.Group, Keys: []string{r.Key}})
}

const numPattern = `(-?\d+(?:\.\d*)?)`

var triggerRe = regexp.MustCompile(`WHEN\s+DISTANCE\s*=\s*` + numPattern + `\s*DELAY\s*=\s*` + numPattern + `\s*DO\s+`)

// matcher recognizes one statement form. detect decides whether the line belongs to the
// matcher; re must then locate the value in submatch group valueGroup.
type matcher struct {
	name       string
	kind       Kind
	re         *regexp.Regexp
	valueGroup int
	detect     func(line string) bool
}

func containsToken(k Kind) func(string) bool {
	return func(line string) bool { return strings.Contains(line, k.Token()) }
}

var driveTriggerRe = regexp.MustCompile(triggerRe.String() + `ACT_DRIVE\s*=\s*(TRUE|FALSE)\b`)

// matchers is evaluated in order; the first matcher whose detect accepts a line owns it.
var matchers = []matcher{
	{
		name:       "drive-trigger",
		kind:       Drive,
		re:         driveTriggerRe,
		valueGroup: 3,
		detect:     driveTriggerRe.MatchString,
	},
	{
		name:       "tool-speed",
		kind:       ToolSpeed,
		re:         regexp.MustCompile(`TOOL_RPM\s*=\s*` + numPattern),
		valueGroup: 1,
		detect:     containsToken(ToolSpeed),
	},
	{
		name:       "feed-rate",
		kind:       FeedRate,
		re:         regexp.MustCompile(`\$VEL\.CP\s*=\s*` + numPattern),
		valueGroup: 1,
		detect:     containsToken(FeedRate),
	},
	{
		name:       "cooling",
		kind:       Cooling,
		re:         regexp.MustCompile(`LAYER_COOLING\s*=\s*` + numPattern),
		valueGroup: 1,
		detect:     containsToken(Cooling),
	},
	{
		name:       "drive",
		kind:       Drive,
		re:         regexp.MustCompile(`ACT_DRIVE\s*=\s*(TRUE|FALSE)\b`),
		valueGroup: 1,
		detect:     containsToken(Drive),
	},
}

// MatcherOrder returns the matcher names in evaluation order.
func MatcherOrder() []string {
	names := make([]string, len(matchers))
	for i, m := range matchers {
		names[i] = m.name
	}
	return names
}

func (m matcher) extract(line string, n int) (Record, error) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return Record{}, fmt.Errorf("%w: line %d: %s statement has no valid value", editerr.ErrMalformedParameter, n, m.kind.Token())
	}
	v, err := Parse(m.kind, sub[m.valueGroup])
	if err != nil {
		if errors.Is(err, editerr.ErrMalformedParameter) {
			return Record{}, fmt.Errorf("line %d: %w", n, err)
		}
		return Record{}, fmt.Errorf("%w: line %d: %w", editerr.ErrMalformedParameter, n, err)
	}
	rec := Record{
		Key:   Key(m.kind, n),
		Kind:  m.kind,
		Value: v,
		Line:  n,
		Group: m.kind.Label(),
	}
	if m.kind == Cooling {
		rec.Prefix = line[:strings.Index(line, m.kind.Token())]
	}
	if m.kind.TriggerStyle() {
		if t := triggerRe.FindStringSubmatch(line); t != nil {
			d, _ := strconv.ParseFloat(t[1], 64)
			dl, _ := strconv.ParseFloat(t[2], 64)
			rec.Trigger = &Trigger{Distance: d, Delay: dl}
		}
	}
	return rec, nil
}

// Extract scans lines and builds a fresh catalog. A recognized statement with a bad value
// is reported in Issues and skipped; the scan always covers every line.
func Extract(lines []string) *Catalog {
	c := &Catalog{}
	for i, line := range lines {
		n := i + 1
		for _, m := range matchers {
			if !m.detect(line) {
				continue
			}
			rec, err := m.extract(line, n)
			if err != nil {
				c.Issues = append(c.Issues, Issue{Line: n, Err: err})
			} else {
				c.add(rec)
			}
			break
		}
	}
	return c
}

// Rewrite replaces the value of v.Kind's statement in line with v, leaving every other
// byte of the line untouched.
func Rewrite(line string, v Value) (string, error) {
	for _, m := range matchers {
		if m.kind != v.Kind || !m.detect(line) {
			continue
		}
		loc := m.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		start, end := loc[2*m.valueGroup], loc[2*m.valueGroup+1]
		return line[:start] + v.String() + line[end:], nil
	}
	return "", fmt.Errorf("%w: no %s statement in %q", editerr.ErrParameterNotFound, v.Kind.Token(), strings.TrimSuffix(line, "\r"))
}
