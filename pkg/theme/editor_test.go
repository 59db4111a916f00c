package theme

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEditor_FixedGroupWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := NewEditor(zap.New(core))
	th := Default()

	got := e.RemoveColorGroup(th, "surface", false)
	if !got.Equal(th) {
		t.Error("shortcut form changed the theme on rejection")
	}
	got = e.AddNewColorGroup(th, "border", false)
	if !got.Equal(th) {
		t.Error("shortcut form changed the theme on rejection")
	}
	if logs.Len() != 2 {
		t.Fatalf("warnings = %d, want 2", logs.Len())
	}
	if logs.All()[0].ContextMap()["op"] != "removeColorGroup" {
		t.Errorf("op field = %v", logs.All()[0].ContextMap()["op"])
	}
}

func TestEditor_NoOpIsSilentAtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := NewEditor(zap.New(core))
	th := Default()

	if got := e.ChangeColorGroupName(th, "missing", "x"); !got.Equal(th) {
		t.Error("rename of missing group changed theme")
	}
	if got := e.AddContentColorToGroup(th, "primary"); !got.Equal(th) {
		t.Error("duplicate content changed theme")
	}
	if logs.Len() != 0 {
		t.Errorf("warnings = %d, want 0", logs.Len())
	}
}

func TestEditor_Report(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEditor(zap.New(core))

	e.Report("removeColorGroup", ErrFixedGroup)
	e.Report("changeColorGroupName", ErrGroupNotFound)
	e.Report("setName", nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].Message != "rejected change to a fixed main color group" {
		t.Errorf("first entry = %s %q", entries[0].Level, entries[0].Message)
	}
	if entries[1].Level != zapcore.DebugLevel || entries[1].ContextMap()["op"] != "changeColorGroupName" {
		t.Errorf("second entry = %s %v", entries[1].Level, entries[1].ContextMap())
	}
}

func TestEditor_Increment(t *testing.T) {
	e := NewEditor(nil)
	if e.Increment() != DefaultLightnessIncrement {
		t.Errorf("Increment() = %v", e.Increment())
	}
	e2 := e.WithIncrement(0.05)
	if e.Increment() != DefaultLightnessIncrement || e2.Increment() != 0.05 {
		t.Error("WithIncrement should return a copy")
	}

	th := Default()
	got := e2.AddColorToGroup(th, "primary", true)
	g, _ := got.BrandColors.Get("primary")
	prev, _ := g.Get("200")
	added, ok := g.Get("300")
	if !ok || added.L != prev.L+0.05 {
		t.Errorf("added = %+v, want lightness %v", added, prev.L+0.05)
	}
}

func TestEditor_Success(t *testing.T) {
	e := NewEditor(zap.NewNop())
	th := e.AddNewColorGroup(Default(), "accent", true)
	th = e.ChangeColorGroupName(th, "accent", "secondary")
	th = e.RemoveContentColorFromGroup(th, "secondary")
	th = e.RemoveLastColorFromGroup(th, "secondary", true)
	g, ok := th.BrandColors.Get("secondary")
	if !ok || g.Len() != 0 {
		t.Errorf("secondary = %v, %v", g.Keys(), ok)
	}
	th = e.RemoveColorGroup(th, "secondary", true)
	if th.BrandColors.Has("secondary") {
		t.Error("group not removed")
	}
	th = e.RemoveLastRadius(th)
	th = e.RemoveLastShadow(th)
	if th.Radius.Len() != 2 || th.Shadows.Len() != 2 {
		t.Errorf("radius %d shadows %d", th.Radius.Len(), th.Shadows.Len())
	}
}
