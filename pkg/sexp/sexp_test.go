package sexp

import (
	"reflect"
	"testing"

	"github.com/Logicalshift/safas/pkg/source"
)

func parseOne(t *testing.T, text string) Node {
	t.Helper()

	file := source.NewFile("test.safas", []byte(text))

	forms, _, err := Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if len(forms) != 1 {
		t.Fatalf("expected exactly one form, got %d", len(forms))
	}

	return forms[0]
}

func TestSexp_Atom(t *testing.T) {
	got := parseOne(t, "hello")

	want := NewAtom("hello")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_EmptyList(t *testing.T) {
	got := parseOne(t, "()")

	want := NewList(nil)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_NestedList(t *testing.T) {
	got := parseOne(t, "(a (b c))")

	want := NewList([]Node{
		NewAtom("a"),
		NewList([]Node{NewAtom("b"), NewAtom("c")}),
	})

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_CurlyCapture(t *testing.T) {
	got := parseOne(t, "{name}")

	want := &Capture{Kind: Curly, Inner: NewAtom("name")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_AngleCapture(t *testing.T) {
	got := parseOne(t, "<name>")

	want := &Capture{Kind: Angle, Inner: NewAtom("name")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_LiteralLessThan(t *testing.T) {
	got := parseOne(t, "<<")

	want := NewAtom("<")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_LineComment(t *testing.T) {
	got := parseOne(t, "a ; a trailing comment\n")

	want := NewAtom("a")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_StringLiteral(t *testing.T) {
	got := parseOne(t, `"hello\nworld"`)

	want := NewStringAtom("hello\nworld")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSexp_UnterminatedString(t *testing.T) {
	file := source.NewFile("test.safas", []byte(`"unterminated`))

	_, _, err := Parse(file)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSexp_UnexpectedCloseParen(t *testing.T) {
	file := source.NewFile("test.safas", []byte(")"))

	_, _, err := Parse(file)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSexp_MatchHead(t *testing.T) {
	l := NewList([]Node{NewAtom("lda"), NewAtom("#10")})

	if !l.MatchHead("lda") {
		t.Fatal("expected list to match head \"lda\"")
	}

	if l.MatchHead("sta") {
		t.Fatal("did not expect list to match head \"sta\"")
	}
}

func TestSexp_MultipleForms(t *testing.T) {
	file := source.NewFile("test.safas", []byte("(a) (b)"))

	forms, _, err := Parse(file)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if len(forms) != 2 {
		t.Fatalf("expected two forms, got %d", len(forms))
	}
}
