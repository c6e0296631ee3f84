package lang

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// integer matches an unsigned decimal integer literal.
var integer = regexp.MustCompile(`^\d+$`)

// parser holds the state of a single parse call.
type parser struct {
	ctx    context.Context
	cfg    config
	consts *table
}

func newParser(ctx context.Context, cfg config) *parser {
	return &parser{
		ctx:    ctx,
		cfg:    cfg,
		consts: newTable(),
	}
}

// ParseExpr parses a single value expression with no constants in scope.
//
// The expression must be one of: an unsigned integer, a quoted string, a list
// "[...]" or a dict "{...}". Comments are not stripped.
func ParseExpr(ctx context.Context, span string, opts ...Option) (*Value, error) {
	return newParser(ctx, makeConfig(opts...)).parseExpr(span, 0)
}

// parseExpr parses span as one value. depth is the number of list or dict
// literals enclosing span.
//
// The forms are tried in a fixed order: integer, string, constant reference,
// list, dict.
func (p *parser) parseExpr(span string, depth int) (*Value, error) {
	span = strings.TrimSpace(span)

	switch {
	case integer.MatchString(span):
		n, err := strconv.ParseInt(span, 10, 64)
		if err != nil {
			return nil, ErrInvalidExpression.Wrap(err).
				With(slog.String("span", span))
		}

		return NewInteger(n), nil

	case enclosed(span, quote, quote):
		return NewText(span[1 : len(span)-1]), nil

	case strings.HasPrefix(span, referencePrefix):
		return p.resolve(strings.TrimPrefix(span, referencePrefix), depth)

	case enclosed(span, '[', ']'):
		return p.parseList(span, depth)

	case enclosed(span, '{', '}'):
		return p.parseDict(span, depth)

	default:
		return nil, ErrInvalidExpression.With(slog.String("span", span))
	}
}

// resolve returns a copy of the constant bound to name.
func (p *parser) resolve(name string, depth int) (*Value, error) {
	v, ok := p.consts.lookup(name)
	if !ok {
		return nil, ErrUndefinedConstant.With(slog.String("name", name))
	}

	if depth+v.Depth() > p.cfg.opts.maxDepth {
		return nil, ErrNestingTooDeep.With(
			slog.String("name", name),
			slog.Int("max_depth", p.cfg.opts.maxDepth),
		)
	}

	return v.Clone(), nil
}

func (p *parser) parseList(span string, depth int) (*Value, error) {
	if err := p.enter(span, depth); err != nil {
		return nil, err
	}

	items, err := Split(span[1 : len(span)-1])
	if err != nil {
		return nil, err
	}

	list := make([]*Value, 0, len(items))

	for _, item := range items {
		v, err := p.parseExpr(item, depth+1)
		if err != nil {
			return nil, err
		}

		list = append(list, v)
	}

	return NewList(list...), nil
}

func (p *parser) parseDict(span string, depth int) (*Value, error) {
	if err := p.enter(span, depth); err != nil {
		return nil, err
	}

	items, err := Split(span[1 : len(span)-1])
	if err != nil {
		return nil, err
	}

	d := NewDict()

	for _, item := range items {
		key, expr, ok := splitPair(item)
		if !ok || key == "" {
			return nil, ErrInvalidExpression.With(
				slog.String("span", item),
				slog.String("expected", "key = value"),
			)
		}

		v, err := p.parseExpr(expr, depth+1)
		if err != nil {
			return nil, err
		}

		d.Set(key, v)
	}

	return d, nil
}

// enter checks that opening another literal at depth stays within bounds.
func (p *parser) enter(span string, depth int) error {
	if depth+1 > p.cfg.opts.maxDepth {
		return ErrNestingTooDeep.With(
			slog.Int("max_depth", p.cfg.opts.maxDepth),
			slog.String("span", ellipsize(span, maxSpanLen)),
		)
	}

	return nil
}

// enclosed reports whether s has at least two bytes, begins with lhs and ends
// with rhs.
func enclosed(s string, lhs, rhs byte) bool {
	return len(s) >= 2 && s[0] == lhs && s[len(s)-1] == rhs
}

// maxSpanLen bounds the source excerpt attached to errors about long spans.
const maxSpanLen = 64

// ellipsize shortens s to at most n bytes, marking the cut with "...".
func ellipsize(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n-3] + "..."
}
