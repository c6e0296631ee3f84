// Package lang translates a small configuration language into a normalized
// value tree that serializes to YAML, JSON or back to the language itself.
//
// # Grammar
//
// Informal EBNF, applied after comments are removed:
//
//	Document    → Statement*
//	Statement   → Declaration | Dict
//	Declaration → 'def' Identifier '=' Expr ';'
//	Expr        → Integer | Text | Reference | List | Dict
//	Integer     → [0-9]+
//	Text        → '"' <any text> '"'
//	Reference   → '^' Identifier
//	List        → '[' (Expr (',' Expr)*)? ']'
//	Dict        → '{' (Key '=' Expr (',' Key '=' Expr)*)? '}'
//
// A statement ends at the end of a line, unless a bracket or string opened on
// that line is still open, in which case the following lines are joined to it.
//
// # Comments
//
// '%' starts a comment that runs to the end of the line, including inside
// strings. Write "\%" for a literal percent sign. "/*" starts a block comment
// that ends at the nearest "*/".
//
// # Example
//
//	def PORT = 8080;
//	def TAGS = ["web", "prod"];
//
//	{ server = { host = "localhost", port = ^PORT } }
//	{ tags = ^TAGS }   % merged into the same root
//
// translates to
//
//	server:
//	  host: localhost
//	  port: 8080
//	tags:
//	- web
//	- prod
//
// # Semantics
//
// Constants are resolved when they are referenced and must be declared
// earlier in the text. Redeclaring a constant replaces it for later
// references. Data statements are dicts whose entries merge into a single
// root; a later key replaces an earlier one. Nesting is bounded by
// [WithMaxDepth].
package lang
