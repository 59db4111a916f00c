// Package urlstate keeps an editing session's Theme in the "theme" query
// parameter of the session URL.
package urlstate

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// Param is the query parameter holding the serialized Theme.
const Param = "theme"

// Adapter reads and writes the theme parameter. Edits are made on the raw
// URL text: untouched parameters keep their order and encoding, and the
// fragment is preserved byte for byte.
type Adapter struct {
	codec  *codec.Codec
	logger *zap.Logger
}

// NewAdapter creates an Adapter. A nil codec uses one logging to logger.
func NewAdapter(c *codec.Codec, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = codec.New(logger)
	}
	return &Adapter{codec: c, logger: logger}
}

// Read returns the Theme carried by currentURL. It reports false when the
// URL is malformed, the parameter is absent or empty, or the payload cannot
// be decoded.
func (a *Adapter) Read(currentURL string) (theme.Theme, bool) {
	if _, err := url.Parse(currentURL); err != nil {
		a.logger.Warn("ignoring malformed url", zap.Error(err))
		return theme.Theme{}, false
	}
	value, ok := split(currentURL).first(Param)
	if !ok || value == "" {
		return theme.Theme{}, false
	}
	return a.codec.Deserialize(value)
}

// Write returns currentURL with the theme parameter set to t. When t cannot be
// serialized the parameter is removed instead.
func (a *Adapter) Write(t theme.Theme, currentURL string) string {
	if _, err := url.Parse(currentURL); err != nil {
		a.logger.Warn("not writing theme to malformed url", zap.Error(err))
		return currentURL
	}
	encoded := a.codec.Serialize(t)
	if encoded == "" {
		return a.Clear(currentURL)
	}
	u := split(currentURL)
	u.set(Param, encoded)
	return u.String()
}

// Clear returns currentURL without any theme parameter. A URL that carries
// no theme parameter is returned unchanged.
func (a *Adapter) Clear(currentURL string) string {
	u := split(currentURL)
	if !u.remove(Param) {
		return currentURL
	}
	return u.String()
}

// Sync writes t into loc, replacing the current entry when the URL changes.
func (a *Adapter) Sync(loc Location, t theme.Theme) {
	current := loc.URL()
	if next := a.Write(t, current); next != current {
		loc.Replace(next)
	}
}

// ClearLocation removes the theme parameter from loc.
func (a *Adapter) ClearLocation(loc Location) {
	current := loc.URL()
	if next := a.Clear(current); next != current {
		loc.Replace(next)
	}
}

// rawURL is a URL split around its query. params holds the raw "&"-separated
// segments.
type rawURL struct {
	base     string
	params   []string
	fragment string
}

func split(raw string) rawURL {
	var u rawURL
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw, u.fragment = raw[:i], raw[i:]
	}
	base, query, _ := strings.Cut(raw, "?")
	u.base = base
	if query != "" {
		u.params = strings.Split(query, "&")
	}
	return u
}

func paramName(segment string) string {
	name, _, _ := strings.Cut(segment, "=")
	if decoded, err := url.QueryUnescape(name); err == nil {
		return decoded
	}
	return name
}

func (u rawURL) first(name string) (string, bool) {
	for _, seg := range u.params {
		if paramName(seg) == name {
			_, value, _ := strings.Cut(seg, "=")
			return value, true
		}
	}
	return "", false
}

// set replaces the first segment for name in place, drops any others, and
// appends one when none exists. value must already be query-safe.
func (u *rawURL) set(name, value string) {
	segment := url.QueryEscape(name) + "=" + value
	out := make([]string, 0, len(u.params)+1)
	placed := false
	for _, seg := range u.params {
		if paramName(seg) != name {
			out = append(out, seg)
			continue
		}
		if !placed {
			out = append(out, segment)
			placed = true
		}
	}
	if !placed {
		out = append(out, segment)
	}
	u.params = out
}

func (u *rawURL) remove(name string) bool {
	out := u.params[:0:0]
	removed := false
	for _, seg := range u.params {
		if paramName(seg) == name {
			removed = true
			continue
		}
		out = append(out, seg)
	}
	u.params = out
	return removed
}

func (u rawURL) String() string {
	var b strings.Builder
	b.WriteString(u.base)
	if len(u.params) > 0 {
		b.WriteByte('?')
		b.WriteString(strings.Join(u.params, "&"))
	}
	b.WriteString(u.fragment)
	return b.String()
}
