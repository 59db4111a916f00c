package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/HerbHall/themeforge/pkg/color"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// MutateRequest is the body of POST /api/v1/editor/mutate. Which fields are
// read depends on Op.
// @Description One named mutation applied to a wire-shape theme.
type MutateRequest struct {
	Op        string          `json:"op"`
	Theme     json.RawMessage `json:"theme"`
	Group     string          `json:"group,omitempty"`
	Brand     bool            `json:"brand,omitempty"`
	Variant   string          `json:"variant,omitempty"`
	Color     string          `json:"color,omitempty"`
	NewName   string          `json:"newName,omitempty"`
	Key       string          `json:"key,omitempty"`
	Value     string          `json:"value,omitempty"`
	Increment *float64        `json:"increment,omitempty"`
}

// errBadArgs marks requests that cannot be applied at all, as opposed to
// mutations the engine rejected.
var errBadArgs = errors.New("invalid arguments")

type opFunc func(t theme.Theme, req MutateRequest, increment float64) (theme.Theme, error)

func requireGroup(req MutateRequest) error {
	if req.Group == "" {
		return fmt.Errorf("%w: group is required", errBadArgs)
	}
	return nil
}

func parseColor(req MutateRequest) (color.Color, error) {
	c, err := color.Parse(req.Color)
	if err != nil {
		return color.Color{}, fmt.Errorf("%w: %v", errBadArgs, err)
	}
	return c, nil
}

func unchecked(fn func(theme.Theme, MutateRequest) theme.Theme) opFunc {
	return func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		return fn(t, req), nil
	}
}

// ops maps operation names to their checked implementations.
var ops = map[string]opFunc{
	"updateMainColor": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if !theme.IsMainGroup(req.Group) {
			return t, fmt.Errorf("%w: %q is not a main group", errBadArgs, req.Group)
		}
		c, err := parseColor(req)
		if err != nil {
			return t, err
		}
		return theme.UpdateMainColor(t, theme.MainGroup(req.Group), req.Variant, c)
	},
	"updateBrandColor": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if err := requireGroup(req); err != nil {
			return t, err
		}
		c, err := parseColor(req)
		if err != nil {
			return t, err
		}
		return theme.UpdateBrandColor(t, req.Group, req.Variant, c)
	},
	"addColorToGroup": func(t theme.Theme, req MutateRequest, increment float64) (theme.Theme, error) {
		if req.Increment != nil {
			increment = *req.Increment
		}
		return theme.AddColorToGroup(t, req.Group, req.Brand, increment)
	},
	"removeLastColorFromGroup": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		return theme.RemoveLastColorFromGroup(t, req.Group, req.Brand)
	},
	"addContentColorToGroup": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		return theme.AddContentColorToGroup(t, req.Group)
	},
	"removeContentColorFromGroup": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		return theme.RemoveContentColorFromGroup(t, req.Group)
	},
	"changeColorGroupName": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if strings.TrimSpace(req.NewName) == "" {
			return t, fmt.Errorf("%w: newName is required", errBadArgs)
		}
		return theme.ChangeColorGroupName(t, req.Group, req.NewName)
	},
	"addNewColorGroup": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if err := requireGroup(req); err != nil {
			return t, err
		}
		return theme.AddNewColorGroup(t, req.Group, req.Brand)
	},
	"removeColorGroup": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		return theme.RemoveColorGroup(t, req.Group, req.Brand)
	},
	"addRadius": unchecked(func(t theme.Theme, req MutateRequest) theme.Theme {
		return theme.AddRadius(t, req.Value)
	}),
	"addShadow": unchecked(func(t theme.Theme, req MutateRequest) theme.Theme {
		return theme.AddShadow(t, req.Value)
	}),
	"setRadius": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if req.Key == "" {
			return t, fmt.Errorf("%w: key is required", errBadArgs)
		}
		return theme.SetRadius(t, req.Key, req.Value), nil
	},
	"setShadow": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		if req.Key == "" {
			return t, fmt.Errorf("%w: key is required", errBadArgs)
		}
		return theme.SetShadow(t, req.Key, req.Value), nil
	},
	"removeLastRadius": func(t theme.Theme, _ MutateRequest, _ float64) (theme.Theme, error) {
		return theme.RemoveLastRadius(t)
	},
	"removeLastShadow": func(t theme.Theme, _ MutateRequest, _ float64) (theme.Theme, error) {
		return theme.RemoveLastShadow(t)
	},
	"setName": unchecked(func(t theme.Theme, req MutateRequest) theme.Theme {
		t.Name = req.Value
		return t
	}),
	"setDescription": unchecked(func(t theme.Theme, req MutateRequest) theme.Theme {
		t.Description = req.Value
		return t
	}),
	"setColorMode": func(t theme.Theme, req MutateRequest, _ float64) (theme.Theme, error) {
		mode := theme.ColorMode(req.Value)
		if !mode.Valid() {
			return t, fmt.Errorf("%w: unknown color mode %q", errBadArgs, req.Value)
		}
		t.ColorMode = mode
		return t, nil
	},
}

// Ops returns the supported operation names, sorted.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
