package theme

import (
	"errors"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/pkg/color"
)

// Editor exposes the mutation operations in their shortcut form: a rejected
// mutation returns the original Theme unchanged. Attempts to create or
// delete a fixed main group are logged as warnings; other rejections are
// logged at debug level.
type Editor struct {
	logger    *zap.Logger
	increment float64
}

// NewEditor creates an Editor. A nil logger disables diagnostics.
func NewEditor(logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{logger: logger, increment: DefaultLightnessIncrement}
}

// WithIncrement returns a copy of the editor whose AddColorToGroup uses inc.
func (e *Editor) WithIncrement(inc float64) *Editor {
	cp := *e
	cp.increment = inc
	return &cp
}

// Increment returns the lightness increment used by AddColorToGroup.
func (e *Editor) Increment() float64 { return e.increment }

// Report logs a rejected mutation: a warning for attempts on a fixed main
// group, debug for anything else. A nil err is ignored.
func (e *Editor) Report(op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrFixedGroup):
		e.logger.Warn("rejected change to a fixed main color group",
			zap.String("op", op),
			zap.Error(err),
		)
	default:
		e.logger.Debug("mutation was a no-op",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (e *Editor) settle(op string, original, next Theme, err error) Theme {
	if err == nil {
		return next
	}
	e.Report(op, err)
	return original
}

// UpdateMainColor sets a main group variant.
func (e *Editor) UpdateMainColor(t Theme, group MainGroup, variant string, c color.Color) Theme {
	next, err := UpdateMainColor(t, group, variant, c)
	return e.settle("updateMainColor", t, next, err)
}

// UpdateBrandColor sets a brand group variant.
func (e *Editor) UpdateBrandColor(t Theme, group, variant string, c color.Color) Theme {
	next, err := UpdateBrandColor(t, group, variant, c)
	return e.settle("updateBrandColor", t, next, err)
}

// AddColorToGroup appends a step using the editor's increment.
func (e *Editor) AddColorToGroup(t Theme, group string, brand bool) Theme {
	return e.AddColorToGroupBy(t, group, brand, e.increment)
}

// AddColorToGroupBy appends a step using an explicit lightness increment.
func (e *Editor) AddColorToGroupBy(t Theme, group string, brand bool, increment float64) Theme {
	next, err := AddColorToGroup(t, group, brand, increment)
	return e.settle("addColorToGroup", t, next, err)
}

// RemoveLastColorFromGroup removes the highest step.
func (e *Editor) RemoveLastColorFromGroup(t Theme, group string, brand bool) Theme {
	next, err := RemoveLastColorFromGroup(t, group, brand)
	return e.settle("removeLastColorFromGroup", t, next, err)
}

// AddContentColorToGroup adds a default content color to a brand group.
func (e *Editor) AddContentColorToGroup(t Theme, group string) Theme {
	next, err := AddContentColorToGroup(t, group)
	return e.settle("addContentColorToGroup", t, next, err)
}

// RemoveContentColorFromGroup deletes a brand group's content color.
func (e *Editor) RemoveContentColorFromGroup(t Theme, group string) Theme {
	next, err := RemoveContentColorFromGroup(t, group)
	return e.settle("removeContentColorFromGroup", t, next, err)
}

// ChangeColorGroupName renames a brand group in place.
func (e *Editor) ChangeColorGroupName(t Theme, oldName, newName string) Theme {
	next, err := ChangeColorGroupName(t, oldName, newName)
	return e.settle("changeColorGroupName", t, next, err)
}

// AddNewColorGroup creates a brand group.
func (e *Editor) AddNewColorGroup(t Theme, group string, brand bool) Theme {
	next, err := AddNewColorGroup(t, group, brand)
	return e.settle("addNewColorGroup", t, next, err)
}

// RemoveColorGroup deletes a brand group.
func (e *Editor) RemoveColorGroup(t Theme, group string, brand bool) Theme {
	next, err := RemoveColorGroup(t, group, brand)
	return e.settle("removeColorGroup", t, next, err)
}

// RemoveLastRadius removes the most recent radius.
func (e *Editor) RemoveLastRadius(t Theme) Theme {
	next, err := RemoveLastRadius(t)
	return e.settle("removeLastRadius", t, next, err)
}

// RemoveLastShadow removes the most recent shadow.
func (e *Editor) RemoveLastShadow(t Theme) Theme {
	next, err := RemoveLastShadow(t)
	return e.settle("removeLastShadow", t, next, err)
}
