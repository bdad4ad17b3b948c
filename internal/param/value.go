package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jorge-barreto/srcparam/internal/editerr"
)

// Value is a typed parameter value. Int is used by ToolSpeed and Cooling, Float by
// FeedRate, and Flag by Drive.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Flag  bool
}

// String formats the value the way it is written in the program.
func (v Value) String() string {
	switch v.Kind {
	case ToolSpeed, Cooling:
		return strconv.FormatInt(v.Int, 10)
	case FeedRate:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if !strings.ContainsAny(s, ".") {
			s += ".0"
		}
		return s
	case Drive:
		if v.Flag {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Statement returns the bare assignment, e.g. "TOOL_RPM=80".
func (v Value) Statement() string {
	return v.Kind.Token() + "=" + v.String()
}

// Parse converts operator input into a value of kind k.
// ToolSpeed and Cooling accept whole numbers only ("80" or "80.0").
func Parse(k Kind, raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	switch k {
	case ToolSpeed, Cooling:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %s=%q is not a number", editerr.ErrMalformedParameter, k.Token(), raw)
		}
		if f != math.Trunc(f) {
			return Value{}, fmt.Errorf("%w: %s=%q must be a whole number", editerr.ErrMalformedParameter, k.Token(), raw)
		}
		if f >= 1<<63 || f < -1<<63 {
			return Value{}, fmt.Errorf("%w: %s=%q is too large", editerr.ErrParameterOutOfRange, k.Token(), raw)
		}
		return Value{Kind: k, Int: int64(f)}, nil
	case FeedRate:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %s=%q is not a number", editerr.ErrMalformedParameter, k.Token(), raw)
		}
		return Value{Kind: k, Float: f}, nil
	case Drive:
		switch strings.ToUpper(s) {
		case "TRUE":
			return Value{Kind: k, Flag: true}, nil
		case "FALSE":
			return Value{Kind: k, Flag: false}, nil
		}
		return Value{}, fmt.Errorf("%w: %s can only be TRUE or FALSE, got %q", editerr.ErrParameterOutOfRange, k.Token(), raw)
	default:
		return Value{}, fmt.Errorf("%w: unknown kind %v", editerr.ErrMalformedParameter, k)
	}
}

// Limits holds the per-kind ceilings enforced before any edit is committed.
type Limits struct {
	ToolSpeedMax         float64
	FeedRateMax          float64
	FeedRateConfirmAbove float64
	CoolingMax           int64
}

// DefaultLimits returns the machine's documented ceilings.
func DefaultLimits() Limits {
	return Limits{
		ToolSpeedMax:         139.8,
		FeedRateMax:          2.0,
		FeedRateConfirmAbove: 0.5,
		CoolingMax:           200,
	}
}

// Check validates v against the limits. A feed rate above the soft threshold fails with
// ErrParameterNeedsConfirmation unless confirmed is set.
func (l Limits) Check(v Value, confirmed bool) error {
	switch v.Kind {
	case ToolSpeed:
		if float64(v.Int) > l.ToolSpeedMax {
			return fmt.Errorf("%w: maximum value for %s is %g", editerr.ErrParameterOutOfRange, v.Kind.Token(), l.ToolSpeedMax)
		}
	case FeedRate:
		if v.Float > l.FeedRateMax {
			return fmt.Errorf("%w: maximum value for %s is %g", editerr.ErrParameterOutOfRange, v.Kind.Token(), l.FeedRateMax)
		}
		if v.Float > l.FeedRateConfirmAbove && !confirmed {
			return fmt.Errorf("%w: values above %g for %s could be dangerous", editerr.ErrParameterNeedsConfirmation, l.FeedRateConfirmAbove, v.Kind.Token())
		}
	case Cooling:
		if v.Int > l.CoolingMax {
			return fmt.Errorf("%w: maximum value for %s is %d", editerr.ErrParameterOutOfRange, v.Kind.Token(), l.CoolingMax)
		}
	case Drive:
	default:
		return fmt.Errorf("%w: unknown kind %v", editerr.ErrMalformedParameter, v.Kind)
	}
	return nil
}

// ParseChecked parses raw and validates it in one step.
func (l Limits) ParseChecked(k Kind, raw string, confirmed bool) (Value, error) {
	v, err := Parse(k, raw)
	if err != nil {
		return Value{}, err
	}
	if err := l.Check(v, confirmed); err != nil {
		return Value{}, err
	}
	return v, nil
}
