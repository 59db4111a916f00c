package urlstate

import (
	"math"
	"strings"
	"testing"

	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/color"
	"github.com/HerbHall/themeforge/pkg/theme"
)

func newTestAdapter() *Adapter { return NewAdapter(nil, nil) }

func TestWriteRead_RoundTrip(t *testing.T) {
	a := newTestAdapter()
	th := theme.Default()
	out := a.Write(th, "https://app.example/editor")
	if !strings.HasPrefix(out, "https://app.example/editor?theme=") {
		t.Fatalf("Write = %q", out)
	}
	got, ok := a.Read(out)
	if !ok {
		t.Fatal("Read returned false")
	}
	if !got.Equal(th) {
		t.Error("theme changed through the url")
	}
}

func TestWrite_PreservesOtherParamsAndFragment(t *testing.T) {
	a := newTestAdapter()
	in := "https://app.example/e?b=2&theme=old&a=%2Fx+y&theme=dup#sec?theme=frag"
	out := a.Write(theme.Default(), in)

	encoded, _ := codec.Encode(theme.Default())
	want := "https://app.example/e?b=2&theme=" + encoded + "&a=%2Fx+y#sec?theme=frag"
	if out != want {
		t.Errorf("Write =\n%q\nwant\n%q", out, want)
	}
}

func TestWrite_AppendsWhenAbsent(t *testing.T) {
	a := newTestAdapter()
	out := a.Write(theme.Default(), "/e?mode=edit#top")
	if !strings.HasPrefix(out, "/e?mode=edit&theme=") || !strings.HasSuffix(out, "#top") {
		t.Errorf("Write = %q", out)
	}
}

func TestWrite_SerializationFailureRemovesParam(t *testing.T) {
	a := newTestAdapter()
	bad := theme.Default()
	bad.MainColors.Surface = theme.NewColorGroup(theme.Variant{Key: "100", Color: color.New(math.Inf(1), 0, 0)})

	out := a.Write(bad, "/e?x=1&theme=abc#f")
	if out != "/e?x=1#f" {
		t.Errorf("Write = %q, want /e?x=1#f", out)
	}
}

func TestClear(t *testing.T) {
	a := newTestAdapter()
	tests := []struct {
		in, want string
	}{
		{in: "/e?a=1&theme=x&b=2#h", want: "/e?a=1&b=2#h"},
		{in: "/e?theme=x", want: "/e"},
		{in: "/e?theme=x&theme=y#h", want: "/e#h"},
		{in: "/e?themes=x&a=%20", want: "/e?themes=x&a=%20"},
		{in: "/e#theme=x", want: "/e#theme=x"},
		{in: "/e?a=1&&b=2", want: "/e?a=1&&b=2"},
	}
	for _, tt := range tests {
		if got := a.Clear(tt.in); got != tt.want {
			t.Errorf("Clear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRead_Absent(t *testing.T) {
	a := newTestAdapter()
	for _, in := range []string{
		"/e",
		"/e?theme=",
		"/e?theme",
		"/e?other=1",
		"/e?theme=not%20json",
		"/e#theme=" + codec.EscapeComponent("{}"),
		"http://[::1]:namedport/?theme=x",
		"://bad",
	} {
		if _, ok := a.Read(in); ok {
			t.Errorf("Read(%q) ok, want false", in)
		}
	}
}

func TestSync(t *testing.T) {
	a := newTestAdapter()
	loc := NewMemoryLocation("/e?a=1")
	th := theme.Default()

	a.Sync(loc, th)
	a.Sync(loc, th)
	if loc.Replacements() != 1 {
		t.Errorf("replacements = %d, want 1 (unchanged url must not navigate)", loc.Replacements())
	}
	if got, ok := a.Read(loc.URL()); !ok || !got.Equal(th) {
		t.Error("location does not carry the theme")
	}

	a.ClearLocation(loc)
	if loc.URL() != "/e?a=1" {
		t.Errorf("URL after clear = %q", loc.URL())
	}
	a.ClearLocation(loc)
	if loc.Replacements() != 2 {
		t.Errorf("replacements = %d, want 2", loc.Replacements())
	}
}

func TestRead_QueryShapes(t *testing.T) {
	a := newTestAdapter()
	th := theme.Default()
	encoded, _ := codec.Encode(th)
	other := theme.Default()
	other.Name = "Second"
	otherEncoded, _ := codec.Encode(other)

	tests := []struct {
		name   string
		in     string
		wantOK bool
		want   string
	}{
		{name: "among encoded params", in: "/e?a=1+2&theme=" + encoded + "&b=%20#frag?x=1", wantOK: true, want: th.Name},
		{name: "duplicates read first", in: "/e?theme=" + encoded + "&theme=" + otherEncoded, wantOK: true, want: th.Name},
		{name: "bare question mark", in: "/e?", wantOK: false},
		{name: "fragment without query", in: "/e#frag", wantOK: false},
		{name: "malformed", in: "http://%zz/?theme=" + encoded, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Read(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Read(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestWrite_QueryShapes(t *testing.T) {
	a := newTestAdapter()
	encoded, _ := codec.Encode(theme.Default())
	tests := []struct {
		in, want string
	}{
		{in: "/e?a=1+2&b=%20#frag?x=1", want: "/e?a=1+2&b=%20&theme=" + encoded + "#frag?x=1"},
		{in: "/e?", want: "/e?theme=" + encoded},
		{in: "/e#frag", want: "/e?theme=" + encoded + "#frag"},
		{in: "http://%zz/", want: "http://%zz/"},
	}
	for _, tt := range tests {
		if got := a.Write(theme.Default(), tt.in); got != tt.want {
			t.Errorf("Write(%q) =\n%q\nwant\n%q", tt.in, got, tt.want)
		}
	}
}
