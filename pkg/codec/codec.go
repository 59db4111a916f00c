// Package codec converts Themes to and from their portable wire form: a JSON
// document in which every color is a plain {space, coords, alpha} record,
// percent-encoded so it can travel as a single query-string value.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/pkg/theme"
)

// Sentinel errors.
var (
	ErrNonFinite = errors.New("color component is not finite")
	ErrEmpty     = errors.New("empty payload")
	ErrMalformed = errors.New("malformed theme payload")
)

// Marshal returns the wire JSON for t. Object key order follows the Theme's
// insertion order. NaN components are written as null.
func Marshal(t theme.Theme) ([]byte, error) {
	w, err := toWire(t)
	if err != nil {
		return nil, fmt.Errorf("marshal theme: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("marshal theme: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal parses wire JSON into a Theme and validates its structure.
func Unmarshal(data []byte) (theme.Theme, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return theme.Theme{}, ErrEmpty
	}
	t, err := fromWire(data)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return t, nil
}

// Encode marshals t and percent-encodes the result.
func Encode(t theme.Theme) (string, error) {
	data, err := Marshal(t)
	if err != nil {
		return "", err
	}
	return EscapeComponent(string(data)), nil
}

// Decode percent-decodes text and unmarshals the result.
func Decode(text string) (theme.Theme, error) {
	if text == "" {
		return theme.Theme{}, ErrEmpty
	}
	raw, err := url.PathUnescape(text)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Unmarshal([]byte(raw))
}

// Codec is the boundary form of Encode and Decode used by adapters: failures
// are logged and reported as an empty string or false.
type Codec struct {
	logger *zap.Logger
}

// New creates a Codec. A nil logger disables diagnostics.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// Serialize returns the URL-safe form of t, or "" when t cannot be encoded.
func (c *Codec) Serialize(t theme.Theme) (out string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while serializing theme", zap.Any("panic", r))
			out = ""
		}
	}()
	s, err := Encode(t)
	if err != nil {
		c.logger.Error("failed to serialize theme", zap.String("name", t.Name), zap.Error(err))
		return ""
	}
	return s
}

// Deserialize parses text produced by Serialize. It reports false for any
// undecodable or structurally invalid input.
func (c *Codec) Deserialize(text string) (t theme.Theme, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while deserializing theme", zap.Any("panic", r))
			t, ok = theme.Theme{}, false
		}
	}()
	t, err := Decode(text)
	if err != nil {
		c.logger.Error("failed to deserialize theme", zap.Int("length", len(text)), zap.Error(err))
		return theme.Theme{}, false
	}
	return t, true
}
