package theme

import (
	"fmt"

	"github.com/HerbHall/themeforge/pkg/color"
)

// DefaultLightnessIncrement is the lightness step AddColorToGroup uses when
// callers have no preference.
const DefaultLightnessIncrement = 0.2

var (
	// baseStepColor seeds a group that has no numeric variants yet.
	baseStepColor = color.New(0.5, 0.02, 260)
	// defaultContentColor is a dark, low-chroma foreground.
	defaultContentColor = color.New(0.2, 0.02, 260)
	// defaultFirstStep is the light first step of a new brand group.
	defaultFirstStep = color.New(0.8, 0.15, 260)
)

// DefaultContentColor returns the color inserted for new content variants.
func DefaultContentColor() color.Color { return defaultContentColor }

func lookupGroup(t Theme, name string, brand bool) (ColorGroup, error) {
	if brand {
		if g, ok := t.BrandColors.Get(name); ok {
			return g, nil
		}
		return ColorGroup{}, fmt.Errorf("brand group %q: %w", name, ErrGroupNotFound)
	}
	if g, ok := t.MainColors.Get(MainGroup(name)); ok {
		return g, nil
	}
	return ColorGroup{}, fmt.Errorf("main group %q: %w", name, ErrGroupNotFound)
}

func replaceGroup(t Theme, name string, brand bool, g ColorGroup) Theme {
	if brand {
		t.BrandColors = t.BrandColors.With(name, g)
		return t
	}
	t.MainColors, _ = t.MainColors.With(MainGroup(name), g)
	return t
}

// UpdateMainColor sets mainColors[group][variant] to c.
func UpdateMainColor(t Theme, group MainGroup, variant string, c color.Color) (Theme, error) {
	g, err := lookupGroup(t, string(group), false)
	if err != nil {
		return t, fmt.Errorf("update main color: %w", err)
	}
	return replaceGroup(t, string(group), false, g.With(variant, c)), nil
}

// UpdateBrandColor sets brandColors[group][variant] to c.
func UpdateBrandColor(t Theme, group, variant string, c color.Color) (Theme, error) {
	g, err := lookupGroup(t, group, true)
	if err != nil {
		return t, fmt.Errorf("update brand color: %w", err)
	}
	return replaceGroup(t, group, true, g.With(variant, c)), nil
}

// AddColorToGroup appends a step one increment above the current highest
// step. The new color copies chroma and hue from the highest step and adds
// increment to its lightness, clamped to [0,1]. A group without numeric
// steps receives a neutral gray at step 100 regardless of its other
// variants.
func AddColorToGroup(t Theme, group string, brand bool, increment float64) (Theme, error) {
	g, err := lookupGroup(t, group, brand)
	if err != nil {
		return t, fmt.Errorf("add color: %w", err)
	}

	steps := g.StepKeys()
	if len(steps) == 0 {
		return replaceGroup(t, group, brand, g.With(StepKey(StepIncrement).String(), baseStepColor)), nil
	}

	highest := steps[len(steps)-1]
	prev, _ := g.Get(highest.String())
	next := color.New(color.Clamp01(prev.L+increment), prev.C, prev.H)
	key := StepKey(highest.Step() + StepIncrement)

	return replaceGroup(t, group, brand, g.With(key.String(), next)), nil
}

// RemoveLastColorFromGroup removes the variant at the highest numeric step.
// Content and custom keys are never touched.
func RemoveLastColorFromGroup(t Theme, group string, brand bool) (Theme, error) {
	g, err := lookupGroup(t, group, brand)
	if err != nil {
		return t, fmt.Errorf("remove color: %w", err)
	}

	steps := g.StepKeys()
	if len(steps) == 0 {
		return t, fmt.Errorf("remove color from %q: %w", group, ErrNoSteps)
	}

	return replaceGroup(t, group, brand, g.Without(steps[len(steps)-1].String())), nil
}

// AddContentColorToGroup gives a brand group a default content color.
func AddContentColorToGroup(t Theme, group string) (Theme, error) {
	g, err := lookupGroup(t, group, true)
	if err != nil {
		return t, fmt.Errorf("add content color: %w", err)
	}
	if g.HasContent() {
		return t, fmt.Errorf("add content color to %q: %w", group, ErrContentExists)
	}
	return replaceGroup(t, group, true, g.With(ContentKey, defaultContentColor)), nil
}

// RemoveContentColorFromGroup deletes a brand group's content color.
func RemoveContentColorFromGroup(t Theme, group string) (Theme, error) {
	g, err := lookupGroup(t, group, true)
	if err != nil {
		return t, fmt.Errorf("remove content color: %w", err)
	}
	if !g.HasContent() {
		return t, fmt.Errorf("remove content color from %q: %w", group, ErrContentMissing)
	}
	return replaceGroup(t, group, true, g.Without(ContentKey)), nil
}

// ChangeColorGroupName renames a brand group in place, keeping the position
// of every group.
func ChangeColorGroupName(t Theme, oldName, newName string) (Theme, error) {
	if !t.BrandColors.Has(oldName) {
		return t, fmt.Errorf("rename %q: %w", oldName, ErrGroupNotFound)
	}
	if t.BrandColors.Has(newName) {
		return t, fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrGroupExists)
	}
	t.BrandColors = t.BrandColors.Renamed(oldName, newName)
	return t, nil
}

// AddNewColorGroup appends a brand group holding a dark content color and a
// light step 100. Main groups are fixed and cannot be created.
func AddNewColorGroup(t Theme, group string, brand bool) (Theme, error) {
	if !brand {
		return t, fmt.Errorf("add group %q: %w", group, ErrFixedGroup)
	}
	if t.BrandColors.Has(group) {
		return t, fmt.Errorf("add group %q: %w", group, ErrGroupExists)
	}
	g := NewColorGroup(
		Variant{Key: ContentKey, Color: defaultContentColor},
		Variant{Key: StepKey(StepIncrement).String(), Color: defaultFirstStep},
	)
	t.BrandColors = t.BrandColors.With(group, g)
	return t, nil
}

// RemoveColorGroup deletes a brand group. Main groups are fixed and cannot
// be removed.
func RemoveColorGroup(t Theme, group string, brand bool) (Theme, error) {
	if !brand {
		return t, fmt.Errorf("remove group %q: %w", group, ErrFixedGroup)
	}
	if !t.BrandColors.Has(group) {
		return t, fmt.Errorf("remove group %q: %w", group, ErrGroupNotFound)
	}
	t.BrandColors = t.BrandColors.Without(group)
	return t, nil
}
