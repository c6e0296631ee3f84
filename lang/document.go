package lang

import (
	"context"
	"log/slog"
)

// Document is the result of parsing a configuration text.
type Document struct {
	// Root is the merged dict of all data statements, or nil if the text
	// contained no data statement.
	Root *Value

	// Constants lists the names of all declared constants in order of first
	// declaration. Their values are not retained.
	Constants []string

	// Statements counts the data statements merged into Root.
	Statements int
}

// Empty reports whether the document holds no structure, which is the case
// for empty input and for input that only declares constants.
//
// An empty document is distinct from one whose root is an empty dict.
func (d *Document) Empty() bool { return d == nil || d.Root == nil }

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	return &Document{
		Root:       d.Root.Clone(),
		Constants:  append([]string(nil), d.Constants...),
		Statements: d.Statements,
	}
}

// Equal reports whether d and o hold equal root trees.
func (d *Document) Equal(o *Document) bool {
	if d.Empty() || o.Empty() {
		return d.Empty() == o.Empty()
	}

	return d.Root.Equal(o.Root)
}

// ParseString parses a complete configuration text.
//
// Comments are stripped first. Each remaining top-level statement is either
// a constant declaration
//
//	def NAME = EXPR;
//
// or a dict literal whose entries are merged into the document root, later
// statements overwriting earlier keys. Dict and list literals may span lines.
//
// Any error is fatal; no partial document is returned.
func ParseString(ctx context.Context, s string, opts ...Option) (*Document, error) {
	return parse(ctx, s, makeConfig(opts...))
}

func parse(ctx context.Context, source string, cfg config) (*Document, error) {
	lines, err := stripLines(source)
	if err != nil {
		return nil, err
	}

	stmts, err := statements(lines)
	if err != nil {
		return nil, err
	}

	p := newParser(ctx, cfg)
	doc := new(Document)

	for _, st := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.statement(doc, st); err != nil {
			return nil, withLine(err, st.line)
		}
	}

	doc.Constants = p.consts.names()

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(stmts)),
		slog.Int("constant_count", len(doc.Constants)),
		slog.Bool("empty", doc.Empty()),
	)

	return doc, nil
}

// statement applies one top-level statement to doc.
func (p *parser) statement(doc *Document, st statement) error {
	if isDeclaration(st.text) {
		name, expr, err := parseDeclaration(st.text)
		if err != nil {
			return err
		}

		v, err := p.parseExpr(expr, 0)
		if err != nil {
			return err
		}

		redeclared := p.consts.declare(name, v)

		p.cfg.logger.TraceContext(p.ctx, "constant declared",
			slog.String("name", name),
			slog.String("kind", v.Kind.String()),
			slog.Bool("redeclared", redeclared),
			slog.Int("line", st.line),
		)

		return nil
	}

	v, err := p.parseExpr(st.text, 0)
	if err != nil {
		return err
	}

	if v.Kind != KindDict {
		return ErrInvalidTopLevelStatement.With(
			slog.String("kind", v.Kind.String()),
			slog.String("span", ellipsize(st.text, maxSpanLen)),
		)
	}

	if doc.Root == nil {
		doc.Root = NewDict()
	}

	doc.Root.Merge(v)
	doc.Statements++

	p.cfg.logger.TraceContext(p.ctx, "statement merged",
		slog.Int("key_count", v.Len()),
		slog.Int("line", st.line),
	)

	return nil
}
