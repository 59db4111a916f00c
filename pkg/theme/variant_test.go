package theme

import "testing"

func TestParseVariantKey(t *testing.T) {
	tests := []struct {
		raw  string
		kind VariantKind
		step float64
	}{
		{raw: "content", kind: KindContent},
		{raw: "100", kind: KindStep, step: 100},
		{raw: " 250 ", kind: KindStep, step: 250},
		{raw: "50.5", kind: KindStep, step: 50.5},
		{raw: "-100", kind: KindStep, step: -100},
		{raw: "1e3", kind: KindStep, step: 1000},
		{raw: "", kind: KindCustom},
		{raw: "   ", kind: KindCustom},
		{raw: "NaN", kind: KindCustom},
		{raw: "Inf", kind: KindCustom},
		{raw: "base", kind: KindCustom},
		{raw: "Content", kind: KindCustom},
		{raw: "100px", kind: KindCustom},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k := ParseVariantKey(tt.raw)
			if k.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", k.Kind(), tt.kind)
			}
			if k.Step() != tt.step {
				t.Errorf("Step() = %v, want %v", k.Step(), tt.step)
			}
			if k.String() != tt.raw {
				t.Errorf("String() = %q, raw key must be kept verbatim", k.String())
			}
		})
	}
}

func TestParseVariantKey_NonDecimalForms(t *testing.T) {
	// Each of these is custom even where some number parsers accept it.
	for _, raw := range []string{
		"",
		"Infinity",
		"-Infinity",
		"infinity",
		"0x10",
		"0X1F",
		"0x1p4",
		"1_000",
		"0b101",
		"0o17",
		"1e400",
		"1 000",
		"++1",
	} {
		if k := ParseVariantKey(raw); k.Kind() != KindCustom || k.Step() != 0 {
			t.Errorf("ParseVariantKey(%q) = %v step %v, want custom", raw, k.Kind(), k.Step())
		}
	}

	for raw, want := range map[string]float64{".5": 0.5, "5.": 5, "+5": 5, "2E2": 200, "007": 7} {
		if k := ParseVariantKey(raw); !k.IsStep() || k.Step() != want {
			t.Errorf("ParseVariantKey(%q) = %v step %v, want step %v", raw, k.Kind(), k.Step(), want)
		}
	}
}

func TestStepKey(t *testing.T) {
	tests := []struct {
		step float64
		want string
	}{
		{step: 100, want: "100"},
		{step: 600, want: "600"},
		{step: 150.5, want: "150.5"},
		{step: 0, want: "0"},
	}
	for _, tt := range tests {
		k := StepKey(tt.step)
		if k.String() != tt.want {
			t.Errorf("StepKey(%v) = %q, want %q", tt.step, k.String(), tt.want)
		}
		if !k.IsStep() || k.Step() != tt.step {
			t.Errorf("StepKey(%v) not a step key with matching value", tt.step)
		}
	}
}

func TestVariantKindString(t *testing.T) {
	if KindStep.String() != "step" || KindContent.String() != "content" || KindCustom.String() != "custom" {
		t.Error("unexpected VariantKind names")
	}
}
