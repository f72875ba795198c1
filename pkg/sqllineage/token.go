package sqllineage

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// TOKEN_EOF represents end of input.
	TOKEN_EOF TokenType = iota
	// TOKEN_ILLEGAL represents an unrecognized character. The extractor
	// skips these rather than failing; extraction is best effort.
	TOKEN_ILLEGAL

	// TOKEN_IDENT represents an identifier (bare, bracketed, quoted,
	// or a temp-table/variable name starting with # or @).
	TOKEN_IDENT
	// TOKEN_NUMBER represents a numeric literal.
	TOKEN_NUMBER
	// TOKEN_STRING represents a single-quoted string literal.
	TOKEN_STRING

	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %
	TOKEN_EQ      // =
	TOKEN_NE      // != or <>
	TOKEN_LT      // <
	TOKEN_GT      // >
	TOKEN_LE      // <=
	TOKEN_GE      // >=
	TOKEN_DOT     // .
	TOKEN_COMMA   // ,
	TOKEN_LPAREN  // (
	TOKEN_RPAREN  // )
	TOKEN_SEMI    // ;
	TOKEN_QMARK   // ? (positional parameter placeholder)

	// TOKEN_SUBQUERY is synthetic: the extractor replaces a balanced
	// "(SELECT ...)" group with one placeholder token after recursing
	// into it. The lexer never produces it.
	TOKEN_SUBQUERY

	// Keywords (alphabetical)
	TOKEN_ALL
	TOKEN_AND
	TOKEN_APPLY
	TOKEN_AS
	TOKEN_BY
	TOKEN_CASE
	TOKEN_CROSS
	TOKEN_DELETE
	TOKEN_DISTINCT
	TOKEN_END
	TOKEN_EXEC
	TOKEN_EXECUTE
	TOKEN_FROM
	TOKEN_FULL
	TOKEN_GROUP
	TOKEN_HAVING
	TOKEN_INNER
	TOKEN_INSERT
	TOKEN_INTO
	TOKEN_JOIN
	TOKEN_LEFT
	TOKEN_LIMIT
	TOKEN_MATCHED
	TOKEN_MERGE
	TOKEN_NOT
	TOKEN_ON
	TOKEN_OR
	TOKEN_ORDER
	TOKEN_OUTER
	TOKEN_OUTPUT
	TOKEN_RECURSIVE
	TOKEN_RIGHT
	TOKEN_SELECT
	TOKEN_SET
	TOKEN_THEN
	TOKEN_TOP
	TOKEN_UNION
	TOKEN_UPDATE
	TOKEN_USING
	TOKEN_VALUES
	TOKEN_WHEN
	TOKEN_WHERE
	TOKEN_WITH
)

// Token represents a lexical token with source position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset of the token start
	End     int // byte offset just past the token
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:     "EOF",
	TOKEN_ILLEGAL: "ILLEGAL",

	TOKEN_IDENT:  "IDENT",
	TOKEN_NUMBER: "NUMBER",
	TOKEN_STRING: "STRING",

	TOKEN_PLUS:    "+",
	TOKEN_MINUS:   "-",
	TOKEN_STAR:    "*",
	TOKEN_SLASH:   "/",
	TOKEN_PERCENT: "%",
	TOKEN_EQ:      "=",
	TOKEN_NE:      "!=",
	TOKEN_LT:      "<",
	TOKEN_GT:      ">",
	TOKEN_LE:      "<=",
	TOKEN_GE:      ">=",
	TOKEN_DOT:     ".",
	TOKEN_COMMA:   ",",
	TOKEN_LPAREN:  "(",
	TOKEN_RPAREN:  ")",
	TOKEN_SEMI:     ";",
	TOKEN_QMARK:    "?",
	TOKEN_SUBQUERY: "SUBQUERY",

	TOKEN_ALL:       "ALL",
	TOKEN_AND:       "AND",
	TOKEN_APPLY:     "APPLY",
	TOKEN_AS:        "AS",
	TOKEN_BY:        "BY",
	TOKEN_CASE:      "CASE",
	TOKEN_CROSS:     "CROSS",
	TOKEN_DELETE:    "DELETE",
	TOKEN_DISTINCT:  "DISTINCT",
	TOKEN_END:       "END",
	TOKEN_EXEC:      "EXEC",
	TOKEN_EXECUTE:   "EXECUTE",
	TOKEN_FROM:      "FROM",
	TOKEN_FULL:      "FULL",
	TOKEN_GROUP:     "GROUP",
	TOKEN_HAVING:    "HAVING",
	TOKEN_INNER:     "INNER",
	TOKEN_INSERT:    "INSERT",
	TOKEN_INTO:      "INTO",
	TOKEN_JOIN:      "JOIN",
	TOKEN_LEFT:      "LEFT",
	TOKEN_LIMIT:     "LIMIT",
	TOKEN_MATCHED:   "MATCHED",
	TOKEN_MERGE:     "MERGE",
	TOKEN_NOT:       "NOT",
	TOKEN_ON:        "ON",
	TOKEN_OR:        "OR",
	TOKEN_ORDER:     "ORDER",
	TOKEN_OUTER:     "OUTER",
	TOKEN_OUTPUT:    "OUTPUT",
	TOKEN_RECURSIVE: "RECURSIVE",
	TOKEN_RIGHT:     "RIGHT",
	TOKEN_SELECT:    "SELECT",
	TOKEN_SET:       "SET",
	TOKEN_THEN:      "THEN",
	TOKEN_TOP:       "TOP",
	TOKEN_UNION:     "UNION",
	TOKEN_UPDATE:    "UPDATE",
	TOKEN_USING:     "USING",
	TOKEN_VALUES:    "VALUES",
	TOKEN_WHEN:      "WHEN",
	TOKEN_WHERE:     "WHERE",
	TOKEN_WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       TOKEN_ALL,
	"and":       TOKEN_AND,
	"apply":     TOKEN_APPLY,
	"as":        TOKEN_AS,
	"by":        TOKEN_BY,
	"case":      TOKEN_CASE,
	"cross":     TOKEN_CROSS,
	"delete":    TOKEN_DELETE,
	"distinct":  TOKEN_DISTINCT,
	"end":       TOKEN_END,
	"exec":      TOKEN_EXEC,
	"execute":   TOKEN_EXECUTE,
	"from":      TOKEN_FROM,
	"full":      TOKEN_FULL,
	"group":     TOKEN_GROUP,
	"having":    TOKEN_HAVING,
	"inner":     TOKEN_INNER,
	"insert":    TOKEN_INSERT,
	"into":      TOKEN_INTO,
	"join":      TOKEN_JOIN,
	"left":      TOKEN_LEFT,
	"limit":     TOKEN_LIMIT,
	"matched":   TOKEN_MATCHED,
	"merge":     TOKEN_MERGE,
	"not":       TOKEN_NOT,
	"on":        TOKEN_ON,
	"or":        TOKEN_OR,
	"order":     TOKEN_ORDER,
	"outer":     TOKEN_OUTER,
	"output":    TOKEN_OUTPUT,
	"recursive": TOKEN_RECURSIVE,
	"right":     TOKEN_RIGHT,
	"select":    TOKEN_SELECT,
	"set":       TOKEN_SET,
	"then":      TOKEN_THEN,
	"top":       TOKEN_TOP,
	"union":     TOKEN_UNION,
	"update":    TOKEN_UPDATE,
	"using":     TOKEN_USING,
	"values":    TOKEN_VALUES,
	"when":      TOKEN_WHEN,
	"where":     TOKEN_WHERE,
	"with":      TOKEN_WITH,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, TOKEN_IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}

// IsKeyword reports whether the token type is a reserved SQL keyword.
// Used to decide whether a trailing token can be an alias.
func (t TokenType) IsKeyword() bool {
	return t >= TOKEN_ALL
}
