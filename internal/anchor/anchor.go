// Package anchor locates the lines that parameters are bound to: motion lines identified
// by their Z height, and progress markers identified by their percentage.
package anchor

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/jorge-barreto/srcparam/internal/param"
)

// Tolerance is the absolute difference under which two Z heights are the same anchor.
const Tolerance = 1e-4

// Type distinguishes the two anchor identities.
type Type int

const (
	ZHeight Type = iota + 1
	Progress
)

// Anchor identifies a motion position or a progress event.
type Anchor struct {
	Type    Type
	Z       float64
	Percent int
}

// AtZ returns a Z-height anchor.
func AtZ(z float64) Anchor {
	return Anchor{Type: ZHeight, Z: z}
}

// AtProgress returns a progress anchor.
func AtProgress(percent int) Anchor {
	return Anchor{Type: Progress, Percent: percent}
}

func (a Anchor) String() string {
	switch a.Type {
	case ZHeight:
		return "Z=" + strconv.FormatFloat(a.Z, 'f', -1, 64)
	case Progress:
		return fmt.Sprintf("PRINT_PROGRESS=%d", a.Percent)
	default:
		return "invalid anchor"
	}
}

var (
	zRe        = regexp.MustCompile(`LIN.*?Z\s*(-?[\d.]+)`)
	motionRe   = regexp.MustCompile(`LIN\s+X\s*[-\d.]+\s+Y\s*[-\d.]+\s+Z\s*([-\d.]+)`)
	progressRe = regexp.MustCompile(`PRINT_PROGRESS=(\d+)`)
)

// LineZ returns the Z height of a motion line.
func LineZ(line string) (float64, bool) {
	m := zRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	z, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return z, true
}

// IsMotion reports whether line is a strict "LIN X <n> Y <n> Z <n>" motion statement and
// returns its Z height.
func IsMotion(line string) (float64, bool) {
	m := motionRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	z, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return z, true
}

// SameZ reports whether two heights name the same anchor.
func SameZ(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Resolve returns the 1-based line number of the first line defining a.
func Resolve(lines []string, a Anchor) (int, bool) {
	for i, line := range lines {
		switch a.Type {
		case ZHeight:
			if z, ok := LineZ(line); ok && SameZ(z, a.Z) {
				return i + 1, true
			}
		case Progress:
			for _, m := range progressRe.FindAllStringSubmatch(line, -1) {
				if n, err := strconv.Atoi(m[1]); err == nil && n == a.Percent {
					return i + 1, true
				}
			}
		}
	}
	return 0, false
}

// ResolveMotion returns the 1-based line number of the first strict "LIN X Y Z" motion
// line at height z. Looser LIN forms at the same height are skipped.
func ResolveMotion(lines []string, z float64) (int, bool) {
	for i, line := range lines {
		if lz, ok := IsMotion(line); ok && SameZ(lz, z) {
			return i + 1, true
		}
	}
	return 0, false
}

// Block returns the 1-based line numbers of the parameter lines directly following the
// anchor at line at. The block ends at the first line not recognized as a parameter.
func Block(lines []string, at int) []int {
	var block []int
	for n := at + 1; n <= len(lines); n++ {
		if _, ok := param.Recognize(lines[n-1]); !ok {
			break
		}
		block = append(block, n)
	}
	return block
}

// MaxZ returns the highest Z height of any motion line, or 0 when there is none.
func MaxZ(lines []string) float64 {
	max := 0.0
	for _, line := range lines {
		if z, ok := LineZ(line); ok && z > max {
			max = z
		}
	}
	return max
}
