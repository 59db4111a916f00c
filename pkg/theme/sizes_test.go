package theme

import (
	"errors"
	"reflect"
	"testing"
)

func TestNextSizeKey(t *testing.T) {
	want := []string{"sm", "md", "lg", "xl", "2xl", "3xl", "4xl"}
	for i, w := range want {
		if got := NextSizeKey(i); got != w {
			t.Errorf("NextSizeKey(%d) = %q, want %q", i, got, w)
		}
	}
	if NextSizeKey(-3) != "sm" {
		t.Error("negative cardinality should map to sm")
	}
}

func TestAddRadius(t *testing.T) {
	th := Default()
	got := AddRadius(th, "")
	if !reflect.DeepEqual(got.Radius.Keys(), []string{"sm", "md", "lg", "xl"}) {
		t.Errorf("keys = %v", got.Radius.Keys())
	}
	if v, _ := got.Radius.Get("xl"); v != "0.75rem" {
		t.Errorf("xl = %q, want copy of lg", v)
	}
	got = AddRadius(got, "2rem")
	if v, _ := got.Radius.Get("2xl"); v != "2rem" {
		t.Errorf("2xl = %q", v)
	}
	if th.Radius.Len() != 3 {
		t.Error("input theme was mutated")
	}
}

func TestAddShadow_EmptyMapUsesDefault(t *testing.T) {
	th := Default()
	th.Shadows = SizeMap{}
	got := AddShadow(th, "")
	if v, ok := got.Shadows.Get("sm"); !ok || v != defaultShadowValue {
		t.Errorf("sm = %q, %v", v, ok)
	}
}

func TestAddSize_SkipsTakenKeys(t *testing.T) {
	th := Default()
	th.Radius = NewSizeMap(SizeEntry{Key: "md", Value: "1px"})
	got := AddRadius(th, "2px")
	if !reflect.DeepEqual(got.Radius.Keys(), []string{"md", "lg"}) {
		t.Errorf("keys = %v", got.Radius.Keys())
	}
}

func TestRemoveLastSize(t *testing.T) {
	th := Default()
	got, err := RemoveLastShadow(th)
	if err != nil {
		t.Fatalf("RemoveLastShadow: %v", err)
	}
	if !reflect.DeepEqual(got.Shadows.Keys(), []string{"sm", "md"}) {
		t.Errorf("keys = %v", got.Shadows.Keys())
	}

	th.Radius = SizeMap{}
	if _, err := RemoveLastRadius(th); !errors.Is(err, ErrNoSizes) {
		t.Errorf("err = %v, want ErrNoSizes", err)
	}
}

func TestSetRadius(t *testing.T) {
	got := SetRadius(Default(), "md", "1rem")
	if v, _ := got.Radius.Get("md"); v != "1rem" {
		t.Errorf("md = %q", v)
	}
	got = SetShadow(got, "none", "none")
	if keys := got.Shadows.Keys(); keys[len(keys)-1] != "none" {
		t.Errorf("keys = %v", keys)
	}
}
