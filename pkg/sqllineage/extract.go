package sqllineage

import (
	"fmt"
	"strings"
)

// Extract parses free-form SQL text into a structured Statement.
// It never fails hard: malformed or unsupported SQL degrades to a
// best-effort Statement (possibly StatementUnknown with no tables)
// plus a list of non-fatal warnings.
//
// The implementation is tokenize-then-match, not a full SQL grammar.
// Clause keywords are only honored at paren depth 0; parenthesized
// subqueries are recursed into and their table references merged into
// the enclosing statement.
func Extract(sql string) (*Statement, []Warning) {
	e := newExtractor(sql)
	e.run(trimEOF(Tokenize(sql)))
	return e.finish()
}

type extractor struct {
	input    string
	stmt     *Statement
	warnings []Warning

	refs    map[string]*TableReference // dedup by lowercased qualified name
	order   []string                   // ref keys in first-seen order
	aliases map[string]string          // lower(alias) -> ref key; "" marks a virtual source (CTE/derived table)
	ctes    map[string]bool            // registered CTE names, lowercased

	sawSelect   bool
	selectItems [][]Token // top-level select list, one token slice per item
	insertCols  []string  // INSERT target column list, when present
}

func newExtractor(input string) *extractor {
	return &extractor{
		input:   input,
		stmt:    &Statement{Kind: StatementUnknown},
		refs:    make(map[string]*TableReference),
		aliases: make(map[string]string),
		ctes:    make(map[string]bool),
	}
}

func (e *extractor) run(toks []Token) {
	for len(toks) > 0 && toks[0].Type == TOKEN_SEMI {
		toks = toks[1:]
	}
	if len(toks) == 0 {
		e.warnf(WarnEmptyStatement, "no SQL tokens found")
		return
	}

	if toks[0].Type == TOKEN_WITH {
		toks = e.parseCTEs(toks)
		if len(toks) == 0 {
			e.warnf(WarnEmptyStatement, "WITH clause without a statement body")
			return
		}
	}

	if isDynamicStart(toks[0]) {
		e.warnf(WarnDynamicSQL, "dynamic SQL cannot be resolved statically; no tables inferred")
		return
	}

	// Replace every "(SELECT ...)" group with a placeholder token,
	// attributing the subquery's tables to this statement.
	toks = e.hoistSubqueries(toks, func(r *TableReference) { r.FromSubquery = true })
	if len(toks) == 0 {
		return
	}

	i := 0
	switch toks[0].Type {
	case TOKEN_SELECT:
		e.stmt.Kind = StatementSelect
	case TOKEN_INSERT:
		e.stmt.Kind = StatementInsert
		i = 1
		if i < len(toks) && toks[i].Type == TOKEN_INTO {
			i++
		}
		i = e.parseTarget(toks, i)
		if i < len(toks) && toks[i].Type == TOKEN_LPAREN {
			if j, ok := matchParen(toks, i); ok {
				e.insertCols = identList(toks[i+1 : j])
				i = j + 1
			}
		}
	case TOKEN_UPDATE:
		e.stmt.Kind = StatementUpdate
		i = e.parseTarget(toks, 1)
	case TOKEN_DELETE:
		e.stmt.Kind = StatementDelete
		i = 1
		if i < len(toks) && toks[i].Type == TOKEN_FROM {
			i++
		}
		i = e.parseTarget(toks, i)
	case TOKEN_MERGE:
		e.stmt.Kind = StatementMerge
		i = 1
		if i < len(toks) && toks[i].Type == TOKEN_INTO {
			i++
		}
		i = e.parseTarget(toks, i)
	default:
		e.warnf(WarnUnrecognizedStatement,
			fmt.Sprintf("statement does not start with a known verb: %q", toks[0].Literal))
	}

	e.scan(toks[i:])
}

// finish assembles the final Statement and the accumulated warnings.
func (e *extractor) finish() (*Statement, []Warning) {
	e.resolveTargetAlias()
	for _, k := range e.order {
		e.stmt.Tables = append(e.stmt.Tables, e.refs[k])
	}
	e.buildColumnMappings()
	if e.stmt.Kind == StatementSelect && len(e.stmt.Tables) == 0 {
		e.warnf(WarnNoFromClause, "no FROM/JOIN clause matched")
	}
	return e.stmt, e.warnings
}

// --- CTE handling ---

// parseCTEs consumes a leading WITH clause, registering each CTE name
// as a virtual table and surfacing the real tables of each body tagged
// with the CTE name. Returns the remaining tokens (the statement body).
func (e *extractor) parseCTEs(toks []Token) []Token {
	i := 1 // skip WITH
	if i < len(toks) && toks[i].Type == TOKEN_RECURSIVE {
		i++
	}
	for {
		if i >= len(toks) || toks[i].Type != TOKEN_IDENT {
			e.warnf(WarnUnparsedReference, "malformed WITH clause: expected CTE name")
			return toks[i:]
		}
		name := toks[i].Literal
		i++

		// Optional column list
		if i < len(toks) && toks[i].Type == TOKEN_LPAREN {
			j, ok := matchParen(toks, i)
			if !ok {
				e.warnf(WarnUnbalancedParens, "unterminated CTE column list")
				return nil
			}
			i = j + 1
		}

		if i < len(toks) && toks[i].Type == TOKEN_AS {
			i++
		}
		if i >= len(toks) || toks[i].Type != TOKEN_LPAREN {
			e.warnf(WarnUnparsedReference, fmt.Sprintf("CTE %q has no body", name))
			return toks[i:]
		}

		// Register before merging so a recursive CTE's self-reference
		// is not surfaced as a base table.
		e.ctes[strings.ToLower(name)] = true

		j, ok := matchParen(toks, i)
		if !ok {
			e.warnf(WarnUnbalancedParens, fmt.Sprintf("unterminated body for CTE %q", name))
			e.mergeSub(toks[i+1:], cteMark(name))
			return nil
		}
		e.mergeSub(toks[i+1:j], cteMark(name))
		i = j + 1

		if i < len(toks) && toks[i].Type == TOKEN_COMMA {
			i++
			continue
		}
		break
	}
	return toks[i:]
}

func cteMark(name string) func(*TableReference) {
	return func(r *TableReference) {
		if r.ViaCTE == "" {
			r.ViaCTE = name
		}
	}
}

// --- subquery hoisting ---

// hoistSubqueries recurses into every balanced "(SELECT ...)" or
// "(WITH ...)" group, merges its table references into this statement
// via mark, and replaces the group with a single placeholder token so
// the outer clause scan only ever sees depth-0 structure.
func (e *extractor) hoistSubqueries(toks []Token, mark func(*TableReference)) []Token {
	var out []Token
	for i := 0; i < len(toks); {
		t := toks[i]
		if t.Type == TOKEN_LPAREN && i+1 < len(toks) &&
			(toks[i+1].Type == TOKEN_SELECT || toks[i+1].Type == TOKEN_WITH) {
			j, ok := matchParen(toks, i)
			if !ok {
				e.warnf(WarnUnbalancedParens, "unterminated subquery")
				e.mergeSub(toks[i+1:], mark)
				out = append(out, Token{Type: TOKEN_SUBQUERY, Literal: "(subquery)", Pos: t.Pos, End: toks[len(toks)-1].End})
				return out
			}
			e.mergeSub(toks[i+1:j], mark)
			out = append(out, Token{Type: TOKEN_SUBQUERY, Literal: "(subquery)", Pos: t.Pos, End: toks[j].End})
			i = j + 1
			continue
		}
		out = append(out, t)
		i++
	}
	return out
}

// mergeSub runs a child extractor over the given tokens and merges its
// table references into this statement. The child inherits the CTE
// names registered so far, so CTE references inside nested scopes are
// not mistaken for base tables. Subquery targets never propagate.
func (e *extractor) mergeSub(toks []Token, mark func(*TableReference)) {
	sub := newExtractor(e.input)
	for name := range e.ctes {
		sub.ctes[name] = true
	}
	sub.run(toks)
	e.warnings = append(e.warnings, sub.warnings...)

	for _, k := range sub.order {
		r := sub.refs[k]
		if r.Database == "" && r.Schema == "" && e.ctes[strings.ToLower(r.Name)] {
			continue
		}
		r.IsTarget = false
		mark(r)
		e.addRef(r)
	}
}

// --- clause scanning ---

// scan walks the statement body, dispatching on clause keywords at
// paren depth 0 only.
func (e *extractor) scan(toks []Token) {
	lastRef := ""
	depth := 0
	for i := 0; i < len(toks); {
		t := toks[i]
		switch {
		case t.Type == TOKEN_LPAREN:
			depth++
			i++
		case t.Type == TOKEN_RPAREN:
			if depth > 0 {
				depth--
			}
			i++
		case depth > 0:
			i++
		case t.Type == TOKEN_SELECT:
			if !e.sawSelect {
				e.sawSelect = true
				i = e.parseSelectList(toks, i+1)
			} else {
				i++
			}
		case t.Type == TOKEN_FROM, t.Type == TOKEN_USING && e.stmt.Kind == StatementMerge:
			i = e.parseFromList(toks, i+1, &lastRef)
		case t.Type == TOKEN_INTO:
			// SELECT ... INTO target
			if _, _, ni, ok := e.parseRefAt(toks, i+1, true); ok {
				i = ni
			} else {
				i++
			}
		case isJoinKeyword(toks, i):
			i = e.parseJoin(toks, i, &lastRef)
		default:
			i++
		}
	}
}

// parseTarget parses the write target of INSERT/UPDATE/DELETE/MERGE.
func (e *extractor) parseTarget(toks []Token, i int) int {
	ref, _, ni, ok := e.parseRefAt(toks, i, true)
	if !ok {
		e.warnf(WarnUnparsedReference, e.snippetAt(toks, i))
		return i
	}
	_ = ref
	return ni
}

// parseFromList parses a comma-separated reference list (legacy comma
// joins included). Returns the index of the first token past the list.
func (e *extractor) parseFromList(toks []Token, i int, lastRef *string) int {
	for {
		ref, display, ni, ok := e.parseRefAt(toks, i, false)
		if !ok {
			e.warnf(WarnUnparsedReference, e.snippetAt(toks, i))
			if i >= len(toks) {
				return len(toks)
			}
			ni = i + 1
		} else {
			*lastRef = display
			_ = ref
		}
		i = ni
		if i < len(toks) && toks[i].Type == TOKEN_COMMA {
			i++
			continue
		}
		return i
	}
}

// parseJoin parses one JOIN (or APPLY) clause including its ON condition.
func (e *extractor) parseJoin(toks []Token, i int, lastRef *string) int {
	jt, adv, isApply := joinTypeAt(toks, i)
	i += adv

	ref, display, ni, ok := e.parseRefAt(toks, i, false)
	if !ok {
		e.warnf(WarnUnparsedReference, e.snippetAt(toks, i))
		return i + 1
	}
	i = ni
	if ref != nil && isApply {
		ref.IsFunction = true
	}

	jc := JoinClause{JoinType: jt, LeftRef: *lastRef, RightRef: display}

	if !isApply && i < len(toks) && toks[i].Type == TOKEN_ON {
		condStart := i + 1
		j := condStart
		d := 0
		for j < len(toks) {
			tt := toks[j]
			if tt.Type == TOKEN_LPAREN {
				d++
			} else if tt.Type == TOKEN_RPAREN {
				if d == 0 {
					break
				}
				d--
			} else if d == 0 && e.isClauseBoundary(toks, j) {
				break
			}
			j++
		}
		if j > condStart {
			jc.Condition = strings.TrimSpace(e.input[toks[condStart].Pos:toks[j-1].End])
			jc.LeftColumn, jc.RightColumn = decomposeEquality(toks[condStart:j])
		}
		i = j
	}

	e.stmt.Joins = append(e.stmt.Joins, jc)
	*lastRef = display
	return i
}

// isClauseBoundary reports whether the token at i terminates a raw
// condition span (the start of the next top-level clause).
func (e *extractor) isClauseBoundary(toks []Token, i int) bool {
	switch toks[i].Type {
	case TOKEN_WHERE, TOKEN_GROUP, TOKEN_ORDER, TOKEN_HAVING, TOKEN_UNION,
		TOKEN_SEMI, TOKEN_WHEN, TOKEN_THEN, TOKEN_OUTPUT, TOKEN_LIMIT,
		TOKEN_SELECT, TOKEN_FROM:
		return true
	}
	return isJoinKeyword(toks, i)
}

// parseRefAt parses one table reference: subquery placeholder, up to a
// three-part dotted name, or a table-valued function call, each with an
// optional alias. Returns the canonical (deduplicated) reference, its
// display name (alias when present), and the next token index.
func (e *extractor) parseRefAt(toks []Token, i int, target bool) (*TableReference, string, int, bool) {
	if i >= len(toks) {
		return nil, "", i, false
	}

	if toks[i].Type == TOKEN_SUBQUERY {
		next := i + 1
		alias := ""
		if next < len(toks) && toks[next].Type == TOKEN_AS {
			next++
		}
		if next < len(toks) && toks[next].Type == TOKEN_IDENT {
			alias = toks[next].Literal
			next++
			e.aliases[strings.ToLower(alias)] = "" // derived table, no base
		}
		display := "(subquery)"
		if alias != "" {
			display = alias
		}
		return nil, display, next, true
	}

	if toks[i].Type != TOKEN_IDENT {
		return nil, "", i, false
	}

	parts := []string{toks[i].Literal}
	next := i + 1
	for next+1 < len(toks) && toks[next].Type == TOKEN_DOT && toks[next+1].Type == TOKEN_IDENT && len(parts) < 3 {
		parts = append(parts, toks[next+1].Literal)
		next += 2
	}

	// A paren group after a write target is an INSERT column list,
	// not a function call; leave it for the caller.
	isFunc := false
	if !target && next < len(toks) && toks[next].Type == TOKEN_LPAREN {
		if j, ok := matchParen(toks, next); ok {
			next = j + 1
		} else {
			next = len(toks)
		}
		isFunc = true
	}

	alias := ""
	if next < len(toks) && toks[next].Type == TOKEN_AS {
		if next+1 < len(toks) && toks[next+1].Type == TOKEN_IDENT {
			alias = toks[next+1].Literal
			next += 2
		}
	} else if next < len(toks) && toks[next].Type == TOKEN_IDENT {
		alias = toks[next].Literal
		next++
	}

	name := parts[len(parts)-1]

	// CTE names are virtual tables: the body's real references were
	// already surfaced during parseCTEs.
	if len(parts) == 1 && !isFunc && e.ctes[strings.ToLower(name)] {
		if alias != "" {
			e.aliases[strings.ToLower(alias)] = ""
		}
		display := name
		if alias != "" {
			display = alias
		}
		return nil, display, next, true
	}

	ref := &TableReference{Name: name, IsFunction: isFunc, IsTarget: target}
	switch len(parts) {
	case 2:
		ref.Schema = parts[0]
	case 3:
		ref.Database, ref.Schema = parts[0], parts[1]
	}
	if strings.HasPrefix(name, "#") || strings.HasPrefix(name, "@") {
		ref.IsTemporary = true
	}
	if alias != "" {
		ref.Aliases = []string{alias}
	}

	merged := e.addRef(ref)
	if alias != "" {
		e.aliases[strings.ToLower(alias)] = merged.key()
	}

	display := merged.QualifiedName()
	if alias != "" {
		display = alias
	}
	return merged, display, next, true
}

// addRef merges a reference into the deduplicated set, keyed by the
// lowercased qualified name. Flags are OR-ed, aliases accumulated.
func (e *extractor) addRef(r *TableReference) *TableReference {
	k := r.key()
	ex, ok := e.refs[k]
	if !ok {
		e.refs[k] = r
		e.order = append(e.order, k)
		return r
	}
	for _, a := range r.Aliases {
		if !containsFold(ex.Aliases, a) {
			ex.Aliases = append(ex.Aliases, a)
		}
	}
	ex.IsTarget = ex.IsTarget || r.IsTarget
	ex.IsTemporary = ex.IsTemporary || r.IsTemporary
	ex.IsFunction = ex.IsFunction || r.IsFunction
	ex.FromSubquery = ex.FromSubquery || r.FromSubquery
	if ex.ViaCTE == "" {
		ex.ViaCTE = r.ViaCTE
	}
	return ex
}

// resolveTargetAlias handles the T-SQL "UPDATE a ... FROM Table a"
// form: a single-part target that is actually an alias is folded into
// the base table it names.
func (e *extractor) resolveTargetAlias() {
	for _, k := range e.order {
		r := e.refs[k]
		if !r.IsTarget || r.Schema != "" || r.Database != "" {
			continue
		}
		ak, ok := e.aliases[strings.ToLower(r.Name)]
		if !ok || ak == "" || ak == k {
			continue
		}
		base := e.refs[ak]
		base.IsTarget = true
		delete(e.refs, k)
		e.order = removeString(e.order, k)
		return
	}
}

// --- select list / column mappings ---

// parseSelectList collects the top-level select items, split on
// depth-0 commas, stopping at FROM/INTO/UNION/semicolon.
func (e *extractor) parseSelectList(toks []Token, i int) int {
	d := 0
	cur := i
	var items [][]Token
	for i < len(toks) {
		t := toks[i]
		if t.Type == TOKEN_LPAREN {
			d++
		} else if t.Type == TOKEN_RPAREN {
			if d == 0 {
				break
			}
			d--
		} else if d == 0 {
			if t.Type == TOKEN_FROM || t.Type == TOKEN_INTO || t.Type == TOKEN_UNION || t.Type == TOKEN_SEMI {
				break
			}
			if t.Type == TOKEN_COMMA {
				if i > cur {
					items = append(items, toks[cur:i])
				}
				cur = i + 1
				i++
				continue
			}
		}
		i++
	}
	if i > cur {
		items = append(items, toks[cur:i])
	}
	e.selectItems = items
	return i
}

func (e *extractor) buildColumnMappings() {
	for idx, item := range e.selectItems {
		m := e.mappingFromItem(item)
		if len(e.insertCols) > 0 && idx < len(e.insertCols) {
			m.TargetColumn = e.insertCols[idx]
		}
		e.stmt.Columns = append(e.stmt.Columns, m)
	}
}

// mappingFromItem converts one select item into a ColumnMapping,
// resolving "alias.column" qualifiers against the alias map.
func (e *extractor) mappingFromItem(item []Token) ColumnMapping {
	item = stripLeadModifiers(item)
	if len(item) == 0 {
		return ColumnMapping{}
	}

	expr := item
	alias := ""
	n := len(item)
	if n >= 2 && item[n-1].Type == TOKEN_IDENT {
		if item[n-2].Type == TOKEN_AS {
			alias = item[n-1].Literal
			expr = item[:n-2]
		} else if item[n-2].Type != TOKEN_DOT && endsExpression(item[n-2]) {
			alias = item[n-1].Literal
			expr = item[:n-1]
		}
	}
	if len(expr) == 0 {
		expr = item
		alias = ""
	}

	m := ColumnMapping{
		SourceExpression: strings.TrimSpace(e.input[expr[0].Pos:expr[len(expr)-1].End]),
	}

	switch {
	case alias != "":
		m.TargetColumn = alias
	case expr[len(expr)-1].Type == TOKEN_IDENT:
		m.TargetColumn = expr[len(expr)-1].Literal
	case expr[len(expr)-1].Type == TOKEN_STAR:
		m.TargetColumn = "*"
	default:
		m.TargetColumn = m.SourceExpression
	}

	if q, ok := qualifierOf(expr); ok {
		if resolved, ok2 := e.resolveQualifier(q); ok2 {
			m.SourceTables = []string{resolved}
		}
	}
	return m
}

// stripLeadModifiers drops a leading DISTINCT / ALL / TOP n from the
// first select item so it does not pollute the expression text.
func stripLeadModifiers(item []Token) []Token {
	for len(item) > 0 {
		switch item[0].Type {
		case TOKEN_DISTINCT, TOKEN_ALL:
			item = item[1:]
		case TOKEN_TOP:
			if len(item) > 1 && item[1].Type == TOKEN_NUMBER {
				item = item[2:]
			} else {
				item = item[1:]
			}
		default:
			return item
		}
	}
	return item
}

// endsExpression reports whether a token can end an expression, which
// makes a following bare identifier an implicit alias.
func endsExpression(t Token) bool {
	switch t.Type {
	case TOKEN_IDENT, TOKEN_NUMBER, TOKEN_STRING, TOKEN_RPAREN, TOKEN_STAR, TOKEN_SUBQUERY, TOKEN_END:
		return true
	}
	return false
}

// qualifierOf returns the table qualifier of a plain column reference:
// "a.b" -> "a", "a.b.c" -> "a.b", "a.*" -> "a". Anything else is not a
// simple qualified reference.
func qualifierOf(expr []Token) (string, bool) {
	// IDENT (DOT IDENT)* DOT (IDENT|STAR), 3 or 5 tokens
	if len(expr) != 3 && len(expr) != 5 {
		return "", false
	}
	for i, t := range expr {
		if i%2 == 1 {
			if t.Type != TOKEN_DOT {
				return "", false
			}
			continue
		}
		if i == len(expr)-1 {
			if t.Type != TOKEN_IDENT && t.Type != TOKEN_STAR {
				return "", false
			}
			continue
		}
		if t.Type != TOKEN_IDENT {
			return "", false
		}
	}
	parts := make([]string, 0, 2)
	for i := 0; i < len(expr)-2; i += 2 {
		parts = append(parts, expr[i].Literal)
	}
	return strings.Join(parts, "."), true
}

// resolveQualifier maps a table-or-alias qualifier to the qualified
// name of a known reference.
func (e *extractor) resolveQualifier(q string) (string, bool) {
	lq := strings.ToLower(q)
	if k, ok := e.aliases[lq]; ok {
		if k == "" {
			return "", false // derived table or CTE, no base table
		}
		return e.refs[k].QualifiedName(), true
	}
	for _, key := range e.order {
		r := e.refs[key]
		if strings.ToLower(r.Name) == lq || key == lq || strings.HasSuffix(key, "."+lq) {
			return r.QualifiedName(), true
		}
	}
	return "", false
}

// --- helpers ---

// decomposeEquality fills left/right table.column pairs when the
// condition starts with a simple "a.x = b.y" equality.
func decomposeEquality(toks []Token) (string, string) {
	if len(toks) < 7 {
		return "", ""
	}
	if toks[0].Type != TOKEN_IDENT || toks[1].Type != TOKEN_DOT || toks[2].Type != TOKEN_IDENT ||
		toks[3].Type != TOKEN_EQ ||
		toks[4].Type != TOKEN_IDENT || toks[5].Type != TOKEN_DOT || toks[6].Type != TOKEN_IDENT {
		return "", ""
	}
	if len(toks) > 7 && toks[7].Type != TOKEN_AND {
		return "", ""
	}
	left := toks[0].Literal + "." + toks[2].Literal
	right := toks[4].Literal + "." + toks[6].Literal
	return left, right
}

// isJoinKeyword reports whether a JOIN or APPLY clause starts at i.
func isJoinKeyword(toks []Token, i int) bool {
	_, adv, _ := joinTypeAt(toks, i)
	return adv > 0
}

// joinTypeAt decodes a join keyword sequence at i, returning the join
// type, the number of tokens consumed (0 if not a join), and whether
// it is a CROSS/OUTER APPLY.
func joinTypeAt(toks []Token, i int) (string, int, bool) {
	at := func(j int) TokenType {
		if j >= len(toks) {
			return TOKEN_EOF
		}
		return toks[j].Type
	}
	switch at(i) {
	case TOKEN_JOIN:
		return "INNER", 1, false
	case TOKEN_INNER:
		if at(i+1) == TOKEN_JOIN {
			return "INNER", 2, false
		}
	case TOKEN_LEFT:
		if at(i+1) == TOKEN_JOIN {
			return "LEFT", 2, false
		}
		if at(i+1) == TOKEN_OUTER && at(i+2) == TOKEN_JOIN {
			return "LEFT", 3, false
		}
	case TOKEN_RIGHT:
		if at(i+1) == TOKEN_JOIN {
			return "RIGHT", 2, false
		}
		if at(i+1) == TOKEN_OUTER && at(i+2) == TOKEN_JOIN {
			return "RIGHT", 3, false
		}
	case TOKEN_FULL:
		if at(i+1) == TOKEN_JOIN {
			return "FULL", 2, false
		}
		if at(i+1) == TOKEN_OUTER && at(i+2) == TOKEN_JOIN {
			return "FULL", 3, false
		}
	case TOKEN_CROSS:
		if at(i+1) == TOKEN_JOIN {
			return "CROSS", 2, false
		}
		if at(i+1) == TOKEN_APPLY {
			return "CROSS APPLY", 2, true
		}
	case TOKEN_OUTER:
		if at(i+1) == TOKEN_APPLY {
			return "OUTER APPLY", 2, true
		}
	}
	return "", 0, false
}

func isDynamicStart(t Token) bool {
	if t.Type == TOKEN_EXEC || t.Type == TOKEN_EXECUTE {
		return true
	}
	return t.Type == TOKEN_IDENT && strings.EqualFold(t.Literal, "sp_executesql")
}

// matchParen returns the index of the RPAREN matching the LPAREN at i.
func matchParen(toks []Token, i int) (int, bool) {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}

// identList collects identifier literals, skipping commas.
func identList(toks []Token) []string {
	var out []string
	for _, t := range toks {
		if t.Type == TOKEN_IDENT {
			out = append(out, t.Literal)
		}
	}
	return out
}

func trimEOF(toks []Token) []Token {
	out := toks[:0]
	for _, t := range toks {
		if t.Type != TOKEN_EOF {
			out = append(out, t)
		}
	}
	return out
}

func (e *extractor) warnf(code, msg string) {
	e.warnings = append(e.warnings, Warning{Code: code, Message: msg})
}

// snippetAt returns a short excerpt of the input near token i for
// warning messages.
func (e *extractor) snippetAt(toks []Token, i int) string {
	if i >= len(toks) {
		return "unexpected end of statement"
	}
	start := toks[i].Pos
	end := start + 40
	if end > len(e.input) {
		end = len(e.input)
	}
	return fmt.Sprintf("could not parse table reference near %q", e.input[start:end])
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
