package theme

import (
	"math"
	"strconv"
	"strings"
)

// ContentKey is the semantic variant holding a group's contrasting
// foreground color.
const ContentKey = "content"

// StepIncrement is the distance between generated step keys.
const StepIncrement = 100

// VariantKind classifies a variant key.
type VariantKind int

const (
	// KindCustom is a legacy key that is neither numeric nor "content".
	KindCustom VariantKind = iota
	// KindContent is the literal "content" key.
	KindContent
	// KindStep is a numeric step key such as "100".
	KindStep
)

func (k VariantKind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindStep:
		return "step"
	default:
		return "custom"
	}
}

// VariantKey is a classified ColorGroup key. The raw string is kept verbatim;
// the numeric value of step keys is used only for ordering and generation.
type VariantKey struct {
	raw  string
	kind VariantKind
	step float64
}

// decimalText reports whether s uses only decimal number characters. It
// keeps Go-only literal forms such as "0x1p4" and "1_000" out of the steps.
func decimalText(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9', c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

// ParseVariantKey classifies raw. A key is a step when its trimmed form is a
// finite decimal number. Blank keys, infinities and hex forms are custom.
func ParseVariantKey(raw string) VariantKey {
	if raw == ContentKey {
		return VariantKey{raw: raw, kind: KindContent}
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !decimalText(trimmed) {
		return VariantKey{raw: raw, kind: KindCustom}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return VariantKey{raw: raw, kind: KindCustom}
	}
	return VariantKey{raw: raw, kind: KindStep, step: v}
}

// StepKey returns the canonical key for a numeric step. Integral steps are
// formatted without a fractional part.
func StepKey(step float64) VariantKey {
	var raw string
	if step == math.Trunc(step) && math.Abs(step) < 1e15 {
		raw = strconv.FormatInt(int64(step), 10)
	} else {
		raw = strconv.FormatFloat(step, 'f', -1, 64)
	}
	return VariantKey{raw: raw, kind: KindStep, step: step}
}

// String returns the raw key.
func (k VariantKey) String() string { return k.raw }

// Kind returns the key's classification.
func (k VariantKey) Kind() VariantKind { return k.kind }

// IsStep reports whether k is a numeric step key.
func (k VariantKey) IsStep() bool { return k.kind == KindStep }

// IsContent reports whether k is the "content" key.
func (k VariantKey) IsContent() bool { return k.kind == KindContent }

// Step returns the numeric value of a step key, or 0 for other kinds.
func (k VariantKey) Step() float64 { return k.step }
