package repl

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/defconf/lang"
)

// Session accumulates the statements entered in a REPL.
//
// Declarations extend the constant table used by later statements, and data
// statements merge into a single root, exactly as if all accepted input had
// been written to one file. Input that fails to translate leaves the session
// unchanged.
type Session struct {
	opts       []lang.Option
	defs       []string // accepted declarations, in order
	names      []string // constant names, in order of first declaration
	consts     map[string]*lang.Value
	root       *lang.Value
	statements int
}

// NewSession returns an empty session that parses with opts.
func NewSession(opts ...lang.Option) *Session {
	return &Session{
		opts:   opts,
		consts: make(map[string]*lang.Value),
	}
}

// Eval translates text, which holds zero or more complete statements, in the
// context of the session.
//
// It returns one document per statement: for a declaration, a dict holding
// the declared name and its value, and for a data statement, its own
// translation before merging. If any statement fails, none are applied.
func (s *Session) Eval(ctx context.Context, text string) ([]*lang.Document, error) {
	stmts, err := lang.Statements(text)
	if err != nil {
		return nil, err
	}

	var (
		defs   = slices.Clone(s.defs)
		names  = slices.Clone(s.names)
		consts = maps.Clone(s.consts)
		root   = s.root.Clone()
		out    = make([]*lang.Document, 0, len(stmts))
		count  = s.statements
	)

	for _, stmt := range stmts {
		if name, ok := lang.DeclaredName(stmt); ok {
			doc, err := s.parse(ctx, append(slices.Clip(defs), stmt), "{ "+name+" = ^"+name+" }")
			if err != nil {
				return nil, err
			}

			val, _ := doc.Root.Get(name)

			if _, ok := consts[name]; !ok {
				names = append(names, name)
			}

			defs = append(defs, stmt)
			consts[name] = val
			out = append(out, doc)

			continue
		}

		doc, err := s.parse(ctx, defs, stmt)
		if err != nil {
			return nil, err
		}

		if !doc.Empty() {
			if root == nil {
				root = lang.NewDict()
			}

			root.Merge(doc.Root.Clone())
			count++
		}

		out = append(out, doc)
	}

	s.defs, s.names, s.consts, s.root, s.statements = defs, names, consts, root, count

	return out, nil
}

// parse translates stmt preceded by the declarations defs.
func (s *Session) parse(ctx context.Context, defs []string, stmt string) (*lang.Document, error) {
	var sb strings.Builder

	for _, def := range defs {
		sb.WriteString(def)
		sb.WriteByte('\n')
	}

	sb.WriteString(stmt)

	doc, err := lang.ParseString(ctx, sb.String(), s.opts...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("input", stmt))
	}

	return doc, nil
}

// Constants returns the names of the declared constants in order of first
// declaration.
func (s *Session) Constants() []string { return slices.Clone(s.names) }

// Constant returns a copy of the current value of the named constant.
func (s *Session) Constant(name string) (*lang.Value, bool) {
	v, ok := s.consts[name]
	if !ok {
		return nil, false
	}

	return v.Clone(), true
}

// Document returns a copy of everything the session has accepted.
func (s *Session) Document() *lang.Document {
	return &lang.Document{
		Root:       s.root.Clone(),
		Constants:  s.Constants(),
		Statements: s.statements,
	}
}

// Reset discards all constants and data.
func (s *Session) Reset() {
	s.defs, s.names, s.root, s.statements = nil, nil, nil, 0
	s.consts = make(map[string]*lang.Value)
}
