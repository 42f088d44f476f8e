// ABOUTME: Tests for the markup interpreter
// ABOUTME: Covers every tag, error recovery, action stack pairing, and sequence restartability

package markup

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mauromedda/statusbar-go/internal/color"
)

func runes(s string) []Directive {
	var ds []Directive
	for _, r := range s {
		ds = append(ds, TextRun{Rune: r})
	}
	return ds
}

func concat(parts ...[]Directive) []Directive {
	var out []Directive
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestInterpret_Tags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []Directive
	}{
		{"plain", "hi", runes("hi")},
		{"empty", "", nil},
		{"align", "%{l}a%{c}b%{r}c", concat(
			[]Directive{AlignmentChange{ZoneLeft}}, runes("a"),
			[]Directive{AlignmentChange{ZoneCenter}}, runes("b"),
			[]Directive{AlignmentChange{ZoneRight}}, runes("c"),
		)},
		{"colors", "%{B#ff0000 F#00ff00 U#80000000}", []Directive{
			ColorChange{Target: TargetBackground, Color: 0xffff0000},
			ColorChange{Target: TargetForeground, Color: 0xff00ff00},
			ColorChange{Target: TargetLine, Color: 0x80000000},
		}},
		{"color reset", "%{F-}%{B-}%{U-}", []Directive{
			ColorChange{Target: TargetForeground, Reset: true},
			ColorChange{Target: TargetBackground, Reset: true},
			ColorChange{Target: TargetLine, Reset: true},
		}},
		{"font", "%{T2}x%{T-}", concat(
			[]Directive{FontChange{Index: 2}}, runes("x"), []Directive{FontChange{Index: 0}},
		)},
		{"font zero is automatic", "%{T3}%{T0}", []Directive{FontChange{Index: 3}, FontChange{Index: 0}}},
		{"offset", "%{O10}%{O-4}", []Directive{PixelOffset{Delta: 10}, PixelOffset{Delta: -4}}},
		{"attributes", "%{+u}%{-o}%{!u}%{!o}", []Directive{
			AttributeSet{AttrUnderline},
			AttributeUnset{AttrOverline},
			AttributeToggle{AttrUnderline},
			AttributeToggle{AttrOverline},
		}},
		{"action default button", "%{A:cmd:}x%{A}", concat(
			[]Directive{ActionOpen{Button: ButtonLeft, Command: "cmd"}},
			runes("x"),
			[]Directive{ActionClose{Button: ButtonLeft}},
		)},
		{"action with spaces", "%{A3:notify-send hi:}x%{A}", concat(
			[]Directive{ActionOpen{Button: ButtonRight, Command: "notify-send hi"}},
			runes("x"),
			[]Directive{ActionClose{Button: ButtonRight}},
		)},
		{"escaped colon", `%{A:echo a\:b:}%{A}`, []Directive{
			ActionOpen{Button: ButtonLeft, Command: "echo a:b"},
			ActionClose{Button: ButtonLeft},
		}},
		{"brace in command", "%{A:echo }:}x%{A}", concat(
			[]Directive{ActionOpen{Button: ButtonLeft, Command: "echo }"}},
			runes("x"),
			[]Directive{ActionClose{Button: ButtonLeft}},
		)},
		{"literal percent", "50% done", runes("50% done")},
		{"unicode", "é✓", runes("é✓")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := Collect(tt.in)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect(%q)\n got  %#v\n want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterpret_NestedActionsPairByButton(t *testing.T) {
	t.Parallel()

	got, errs := Collect("%{A1:one:}%{A3:three:}x%{A}%{A}")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := concat(
		[]Directive{
			ActionOpen{Button: ButtonLeft, Command: "one"},
			ActionOpen{Button: ButtonRight, Command: "three"},
		},
		runes("x"),
		[]Directive{ActionClose{Button: ButtonRight}, ActionClose{Button: ButtonLeft}},
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
}

func TestInterpret_ExplicitCloseButton(t *testing.T) {
	t.Parallel()

	got, _ := Collect("%{A1:a:}%{A3:b:}%{A1}%{A}")
	want := []Directive{
		ActionOpen{Button: ButtonLeft, Command: "a"},
		ActionOpen{Button: ButtonRight, Command: "b"},
		ActionClose{Button: ButtonLeft},
		ActionClose{Button: ButtonRight},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
}

func TestInterpret_UnrecognizedTokenRecovery(t *testing.T) {
	t.Parallel()

	got, errs := Collect("abc%{bogus}def")
	if !reflect.DeepEqual(got, runes("abcdef")) {
		t.Errorf("directives = %#v, want runes of abcdef", got)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	var ute *UnrecognizedTokenError
	if !errors.As(errs[0], &ute) {
		t.Fatalf("error %T is not *UnrecognizedTokenError", errs[0])
	}
	if ute.Token != "bogus" {
		t.Errorf("Token = %q, want %q", ute.Token, "bogus")
	}
}

func TestInterpret_BadTokenInsideBlockKeepsSiblings(t *testing.T) {
	t.Parallel()

	got, errs := Collect("%{F#ffffff Zed +u}x")
	want := concat(
		[]Directive{ColorChange{Target: TargetForeground, Color: color.White}, AttributeSet{AttrUnderline}},
		runes("x"),
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
	if len(errs) != 1 {
		t.Errorf("expected one error, got %v", errs)
	}
}

func TestInterpret_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantColor bool
	}{
		{"%{F#zzzzzz}", true},
		{"%{B}", true},
		{"%{center}", false},
		{"%{T-1}", false},
		{"%{Tx}", false},
		{"%{Oabc}", false},
		{"%{+x}", false},
		{"%{A9:cmd:}", false},
		{"%{A7}", false},
		{"%{Abc}", false},
		{"%{A:never closed", false},
		{"%{?}", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, errs := Collect(tt.in + "ok")
			if len(errs) != 1 {
				t.Fatalf("expected one error for %q, got %v", tt.in, errs)
			}
			var ice *InvalidColorError
			if errors.As(errs[0], &ice) != tt.wantColor {
				t.Errorf("InvalidColorError = %v, want %v (%v)", !tt.wantColor, tt.wantColor, errs[0])
			}
			if tt.in == "%{A:never closed" {
				if len(got) != 0 {
					t.Errorf("unterminated command should swallow the rest, got %#v", got)
				}
				return
			}
			if !reflect.DeepEqual(got, runes("ok")) {
				t.Errorf("text after bad token = %#v", got)
			}
		})
	}
}

func TestInterpret_Restartable(t *testing.T) {
	t.Parallel()

	seq := Interpret("%{A:x:}a%{A}")
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 3 || second != 3 {
		t.Errorf("iterations yielded %d and %d directives, want 3 and 3", first, second)
	}
}

func TestInterpret_EarlyBreak(t *testing.T) {
	t.Parallel()

	n := 0
	for range Interpret("abcdef") {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("loop ran %d times, want 2", n)
	}
}

func TestInterpret_NormalizesToNFC(t *testing.T) {
	t.Parallel()

	// "e" + COMBINING ACUTE ACCENT composes to U+00E9.
	got, _ := Collect("e\u0301")
	want := []Directive{TextRun{Rune: 'é'}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	in := "%{F#ff0000}%{A:x:}cpu%{A} %{+u}42%%{-u}%{bad}"
	if got := Strip(in); got != "cpu 42%" {
		t.Errorf("Strip = %q, want %q", got, "cpu 42%")
	}
}

func TestZoneString(t *testing.T) {
	t.Parallel()

	if ZoneCenter.String() != "center" || ZoneRight.String() != "right" || ZoneLeft.String() != "left" {
		t.Error("unexpected zone names")
	}
}
