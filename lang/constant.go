package lang

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

const (
	keywordDef      = "def"
	declarationEnd  = ";"
	referencePrefix = "^"
)

// identifier matches a valid constant name.
var identifier = regexp.MustCompile(`^[_A-Za-z][_A-Za-z0-9]*$`)

// IsIdentifier reports whether s is a valid constant name.
func IsIdentifier(s string) bool { return identifier.MatchString(s) }

// table maps constant names to their resolved values.
//
// A table lives for exactly one parse call. Values stored in it are never
// handed out directly; references receive a deep copy.
type table struct {
	vals  map[string]*Value
	order []string
}

func newTable() *table {
	return &table{vals: make(map[string]*Value)}
}

// declare binds name to v, replacing any earlier binding.
// It reports whether name was already bound.
func (t *table) declare(name string, v *Value) (redeclared bool) {
	_, redeclared = t.vals[name]
	if !redeclared {
		t.order = append(t.order, name)
	}

	t.vals[name] = v

	return redeclared
}

func (t *table) lookup(name string) (*Value, bool) {
	v, ok := t.vals[name]

	return v, ok
}

// names returns the declared names in first-declaration order.
func (t *table) names() []string {
	return append([]string(nil), t.order...)
}

// isDeclaration reports whether stmt begins with the def keyword. No
// expression starts with those letters, so a statement such as "defx = 1;"
// is a malformed declaration rather than a data statement.
func isDeclaration(stmt string) bool {
	return strings.HasPrefix(stmt, keywordDef)
}

// DeclaredName returns the name of the constant declared by stmt, a single
// statement as returned by [Statements]. It reports false unless stmt is a
// well-formed declaration. The declared expression is not parsed.
func DeclaredName(stmt string) (string, bool) {
	stmt = strings.TrimSpace(stmt)
	if !isDeclaration(stmt) {
		return "", false
	}

	name, _, err := parseDeclaration(stmt)

	return name, err == nil
}

// parseDeclaration splits a statement of the form
//
//	def NAME = EXPR ;
//
// into its name and (unparsed) expression text.
func parseDeclaration(stmt string) (name, expr string, err error) {
	rest := strings.TrimPrefix(stmt, keywordDef)
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", "", ErrInvalidDeclaration.With(
			slog.String("statement", stmt),
			slog.String("expected", "space after "+keywordDef),
		)
	}

	rest = strings.TrimSpace(rest)

	body, ok := strings.CutSuffix(rest, declarationEnd)
	if !ok {
		return "", "", ErrInvalidDeclaration.With(
			slog.String("statement", stmt),
			slog.String("expected", declarationEnd),
		)
	}

	name, expr, ok = strings.Cut(body, string(assign))
	if !ok {
		return "", "", ErrInvalidDeclaration.With(
			slog.String("statement", stmt),
			slog.String("expected", string(assign)),
		)
	}

	name = strings.TrimSpace(name)
	expr = strings.TrimSpace(expr)

	if !IsIdentifier(name) {
		return "", "", ErrInvalidDeclaration.With(
			slog.String("statement", stmt),
			slog.String("identifier", name),
		)
	}

	if expr == "" {
		return "", "", ErrInvalidDeclaration.With(
			slog.String("statement", stmt),
			slog.String("expected", "expression"),
		)
	}

	return name, expr, nil
}
