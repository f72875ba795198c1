package sqllineage

import "strings"

// StatementKind classifies a SQL statement by its leading verb.
type StatementKind string

const (
	StatementSelect  StatementKind = "SELECT"
	StatementInsert  StatementKind = "INSERT"
	StatementUpdate  StatementKind = "UPDATE"
	StatementDelete  StatementKind = "DELETE"
	StatementMerge   StatementKind = "MERGE"
	StatementUnknown StatementKind = "UNKNOWN"
)

// TableReference is a table (or table-valued function) referenced by a
// statement. References are deduplicated by qualified name; every alias
// seen for the same table is retained.
type TableReference struct {
	Database string // optional first part of a three-part name
	Schema   string // optional schema qualifier
	Name     string // table name, always set

	Aliases []string // all aliases seen, in order of appearance

	IsTarget     bool   // written by the statement (INSERT/UPDATE/DELETE/MERGE/SELECT INTO target)
	IsTemporary  bool   // #temp or @tablevar, never an external data asset
	IsFunction   bool   // table-valued function call (CROSS/OUTER APPLY fn(...))
	FromSubquery bool   // surfaced from a nested subquery
	ViaCTE       string // name of the CTE whose body referenced this table
}

// QualifiedName returns the full dotted name (database.schema.table as
// available). Resource identity across packages uses this full name.
func (r *TableReference) QualifiedName() string {
	parts := make([]string, 0, 3)
	if r.Database != "" {
		parts = append(parts, r.Database)
	}
	if r.Schema != "" {
		parts = append(parts, r.Schema)
	}
	parts = append(parts, r.Name)
	return strings.Join(parts, ".")
}

// key is the deduplication key: the lowercased qualified name.
func (r *TableReference) key() string {
	return strings.ToLower(r.QualifiedName())
}

// DisplayName returns the first alias if one exists, otherwise the name.
func (r *TableReference) DisplayName() string {
	if len(r.Aliases) > 0 {
		return r.Aliases[0]
	}
	return r.Name
}

// JoinClause captures one JOIN between two references. Condition holds
// the raw ON text; LeftColumn/RightColumn are filled only when the
// condition is a simple table.column equality.
type JoinClause struct {
	JoinType    string // INNER, LEFT, RIGHT, FULL, CROSS, CROSS APPLY, OUTER APPLY
	LeftRef     string // alias or name of the left-hand reference
	RightRef    string // alias or name of the joined reference
	Condition   string // raw ON ... text, empty for CROSS JOIN / APPLY
	LeftColumn  string // e.g. "p.CategoryID" when decomposable
	RightColumn string // e.g. "c.CategoryID" when decomposable
}

// ColumnMapping pairs one output (or INSERT target) column with the
// expression it is computed from. SourceTables holds qualified table
// names when the expression's qualifier resolves through the alias map;
// unresolvable expressions keep the raw text and an empty source list.
type ColumnMapping struct {
	TargetColumn     string
	SourceExpression string
	SourceTables     []string
}

// Warning is a non-fatal extraction diagnostic. Extraction never fails
// hard; malformed input degrades to warnings plus a best-effort result.
type Warning struct {
	Code    string
	Message string
}

// Warning codes.
const (
	WarnEmptyStatement        = "empty_statement"
	WarnDynamicSQL            = "dynamic_sql_detected"
	WarnUnrecognizedStatement = "unrecognized_statement"
	WarnNoFromClause          = "no_from_clause"
	WarnUnparsedReference     = "unparsed_reference"
	WarnUnbalancedParens      = "unbalanced_parens"
)

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// Statement is the structured result of extracting one SQL text.
type Statement struct {
	Kind    StatementKind
	Tables  []*TableReference
	Joins   []JoinClause
	Columns []ColumnMapping
}

// Target returns the write target of the statement, or nil when the
// statement only reads (plain SELECT).
func (s *Statement) Target() *TableReference {
	for _, r := range s.Tables {
		if r.IsTarget {
			return r
		}
	}
	return nil
}

// Sources returns all references that are read by the statement.
func (s *Statement) Sources() []*TableReference {
	var out []*TableReference
	for _, r := range s.Tables {
		if !r.IsTarget {
			out = append(out, r)
		}
	}
	return out
}
