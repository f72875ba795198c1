// Package sqllineage provides best-effort structural extraction of
// table-level and column-level lineage from free-form SQL text.
//
// The extractor is a tokenize-and-match pipeline, not a full SQL
// grammar: it locates top-level clause keywords at paren depth 0,
// recurses into subqueries and CTE bodies, and matches table reference
// patterns in priority order (database.schema.table, schema.table,
// bracketed/quoted names, bare names, each with an optional alias).
// It is built for migration planning, where partial lineage with
// explicit warnings is more useful than a hard parse failure.
//
// # Basic Usage
//
//	stmt, warnings := sqllineage.Extract("SELECT p.ProductID FROM Products AS p")
//	for _, t := range stmt.Tables {
//	    fmt.Println(t.QualifiedName(), t.Aliases)
//	}
//	for _, w := range warnings {
//	    fmt.Println(w)
//	}
//
// Extraction never returns an error. Malformed or dynamic SQL yields a
// Statement with Kind StatementUnknown, an empty table list, and one
// or more warnings describing what could not be resolved.
package sqllineage
