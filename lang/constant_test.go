package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestIsIdentifier(t *testing.T) {
	valid := []string{"A", "_", "port", "HTTP_PORT", "x1", "_private9"}
	invalid := []string{"", "1x", "a-b", "a.b", "a b", "^A", "é"}

	for _, s := range valid {
		if !IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = false", s)
		}
	}

	for _, s := range invalid {
		if IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true", s)
		}
	}
}

func TestIsDeclaration(t *testing.T) {
	tests := []struct {
		stmt string
		want bool
	}{
		{"def A = 1;", true},
		{"def\tA = 1;", true},
		{"def", true},
		{"define A = 1;", true},
		{"defA = 1;", true},
		{"{ def = 1 }", false},
		{" def A = 1;", false},
	}

	for _, tt := range tests {
		if got := isDeclaration(tt.stmt); got != tt.want {
			t.Errorf("isDeclaration(%q) = %v, want %v", tt.stmt, got, tt.want)
		}
	}
}

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		stmt       string
		name, expr string
	}{
		{"def A = 1;", "A", "1"},
		{"def   B=[1, 2]  ;", "B", "[1, 2]"},
		{"def C = { k = 1 };", "C", "{ k = 1 }"},
		{`def D = "a = b";`, "D", `"a = b"`},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			name, expr, err := parseDeclaration(tt.stmt)
			if err != nil {
				t.Fatalf("parseDeclaration(%q): %v", tt.stmt, err)
			}

			if name != tt.name || expr != tt.expr {
				t.Errorf("got (%q, %q), want (%q, %q)", name, expr, tt.name, tt.expr)
			}
		})
	}
}

func TestParseDeclaration_Invalid(t *testing.T) {
	tests := []struct {
		stmt string
		attr string
	}{
		{"def A = 1", "expected"},
		{"def A 1;", "expected"},
		{"def = 1;", "identifier"},
		{"def 1A = 1;", "identifier"},
		{"def A-B = 1;", "identifier"},
		{"def A = ;", "expected"},
		{"def", "expected"},
		{"defx = 1;", "expected"},
		{"define A = 1;", "expected"},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			_, _, err := parseDeclaration(tt.stmt)
			if !errors.Is(err, ErrInvalidDeclaration) {
				t.Fatalf("error = %v, want %v", err, ErrInvalidDeclaration)
			}

			var ee *Error
			if !errors.As(err, &ee) {
				t.Fatalf("error %v is not an *Error", err)
			}

			if _, ok := ee.Attr(tt.attr); !ok {
				t.Errorf("error %v lacks attribute %q", err, tt.attr)
			}
		})
	}
}

func TestTable(t *testing.T) {
	tab := newTable()

	if tab.declare("A", NewInteger(1)) {
		t.Error("first declaration reported as redeclared")
	}

	tab.declare("B", NewText("b"))

	if !tab.declare("A", NewInteger(2)) {
		t.Error("second declaration not reported as redeclared")
	}

	v, ok := tab.lookup("A")
	if !ok || v.Int != 2 {
		t.Errorf("lookup(A) = %v, %v", v, ok)
	}

	if _, ok := tab.lookup("C"); ok {
		t.Error("lookup of undeclared name succeeded")
	}

	if got := tab.names(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("names() = %v", got)
	}
}

func TestDeclaredName(t *testing.T) {
	tests := []struct {
		stmt string
		name string
		ok   bool
	}{
		{"def A = 1;", "A", true},
		{"  def _x1 = { a = [1] };  ", "_x1", true},
		{"def A = 1", "", false},
		{"def 1A = 1;", "", false},
		{"define = 1;", "", false},
		{"defx = 1;", "", false},
		{"{ def = 1 }", "", false},
	}

	for _, tt := range tests {
		name, ok := DeclaredName(tt.stmt)
		if name != tt.name || ok != tt.ok {
			t.Errorf("DeclaredName(%q) = %q, %v, want %q, %v", tt.stmt, name, ok, tt.name, tt.ok)
		}
	}
}
