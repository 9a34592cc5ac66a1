package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValKind selects how a Val is resolved.
type ValKind int

const (
	ValAuto ValKind = iota
	ValPx
	ValPercent
)

// Val is a length in logical pixels or a percentage of the parent.
type Val struct {
	Kind  ValKind
	Value float64
}

var Auto = Val{}

func Px(v float64) Val      { return Val{Kind: ValPx, Value: v} }
func Percent(v float64) Val { return Val{Kind: ValPercent, Value: v} }

// Resolve turns v into pixels. Auto yields fallback.
func (v Val) Resolve(parent, fallback float64) float64 {
	switch v.Kind {
	case ValPx:
		return v.Value
	case ValPercent:
		return parent * v.Value / 100
	default:
		return fallback
	}
}

// IsAuto reports whether v is left to the layout.
func (v Val) IsAuto() bool {
	return v.Kind == ValAuto
}

func (v Val) String() string {
	switch v.Kind {
	case ValPx:
		return strconv.FormatFloat(v.Value, 'f', -1, 64) + "px"
	case ValPercent:
		return strconv.FormatFloat(v.Value, 'f', -1, 64) + "%"
	default:
		return "auto"
	}
}

var ErrInvalidVal = errors.New("invalid length")

// ParseVal reads "auto", "120px", "120" or "50%".
func ParseVal(s string) (Val, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "auto" {
		return Auto, nil
	}

	kind := ValPx
	number := strings.TrimSuffix(s, "px")
	if strings.HasSuffix(s, "%") {
		kind = ValPercent
		number = strings.TrimSuffix(s, "%")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return Val{}, fmt.Errorf("%w: %q", ErrInvalidVal, s)
	}
	if v < 0 {
		return Val{}, fmt.Errorf("%w: %q is negative", ErrInvalidVal, s)
	}
	return Val{Kind: kind, Value: v}, nil
}

func (v Val) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Val) UnmarshalText(text []byte) error {
	parsed, err := ParseVal(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
