package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseExpr(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		span string
		want *Value
	}{
		{"integer", "42", NewInteger(42)},
		{"zero", "0", NewInteger(0)},
		{"leading zeros", "007", NewInteger(7)},
		{"padded", "  9  ", NewInteger(9)},
		{"text", `"hello world"`, NewText("hello world")},
		{"empty text", `""`, NewText("")},
		{"text keeps escapes", `"a\"b"`, NewText(`a\"b`)},
		{"empty list", "[]", NewList()},
		{"blank list", "[   ]", NewList()},
		{"list", `[1, "two", [3]]`, NewList(NewInteger(1), NewText("two"), NewList(NewInteger(3)))},
		{"empty dict", "{}", NewDict()},
		{
			"dict",
			`{ b = 1, a = "x" }`,
			NewDict().Set("b", NewInteger(1)).Set("a", NewText("x")),
		},
		{
			"duplicate key replaces in place",
			"{ a = 1, b = 2, a = 3 }",
			NewDict().Set("a", NewInteger(3)).Set("b", NewInteger(2)),
		},
		{
			"nested",
			"{ s = { p = [1, { q = 2 }] } }",
			NewDict().Set("s", NewDict().Set("p", NewList(
				NewInteger(1),
				NewDict().Set("q", NewInteger(2)),
			))),
		},
		{"key with spaces", "{ my key = 1 }", NewDict().Set("my key", NewInteger(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpr(ctx, tt.span)
			if err != nil {
				t.Fatalf("ParseExpr(%q): %v", tt.span, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.span, got, tt.want)
			}
		})
	}
}

func TestParseExpr_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		span string
		want error
	}{
		{"negative", "-1", ErrInvalidExpression},
		{"float", "1.5", ErrInvalidExpression},
		{"overflow", "99999999999999999999", ErrInvalidExpression},
		{"bare word", "true", ErrInvalidExpression},
		{"empty", "", ErrInvalidExpression},
		{"single quote", `"`, ErrInvalidExpression},
		{"trailing comma", "[1, 2,]", ErrInvalidExpression},
		{"empty item", "[1,,2]", ErrInvalidExpression},
		{"dict without assignment", "{ a }", ErrInvalidExpression},
		{"dict empty key", "{ = 1 }", ErrInvalidExpression},
		{"dict trailing comma", "{ a = 1, }", ErrInvalidExpression},
		{"undefined reference", "^NOPE", ErrUndefinedConstant},
		{"reference in list", "[^NOPE]", ErrUndefinedConstant},
		{"unbalanced inner", "[[1]", ErrUnbalancedStructure},
		{"unterminated string", `["a]`, ErrUnbalancedStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpr(ctx, tt.span)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseExpr(%q) error = %v, want %v", tt.span, err, tt.want)
			}
		})
	}
}

func TestParseExpr_MaxDepth(t *testing.T) {
	ctx := context.Background()

	if _, err := ParseExpr(ctx, "[[1]]", WithMaxDepth(2)); err != nil {
		t.Errorf("depth 2 at limit 2: %v", err)
	}

	_, err := ParseExpr(ctx, "[[[1]]]", WithMaxDepth(2))
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("depth 3 at limit 2: error = %v, want %v", err, ErrNestingTooDeep)
	}

	deep := strings.Repeat("[", DefaultMaxDepth) + strings.Repeat("]", DefaultMaxDepth)
	if _, err := ParseExpr(ctx, deep); err != nil {
		t.Errorf("depth %d at default limit: %v", DefaultMaxDepth, err)
	}

	_, err = ParseExpr(ctx, "["+deep+"]")
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("depth %d at default limit: error = %v", DefaultMaxDepth+1, err)
	}

	// Values below 1 select the default.
	if _, err := ParseExpr(ctx, deep, WithMaxDepth(0)); err != nil {
		t.Errorf("WithMaxDepth(0): %v", err)
	}
}

func TestEllipsize(t *testing.T) {
	if got := ellipsize("short", 10); got != "short" {
		t.Errorf("ellipsize short = %q", got)
	}

	if got := ellipsize("0123456789", 8); got != "01234..." {
		t.Errorf("ellipsize long = %q", got)
	}
}
