package builder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OperationRecord is one task inside an ETL package, as produced by an
// upstream package-format parser. SQL-bearing operations carry RawSQL;
// non-SQL operations (bulk copies, scripts) may instead declare their
// reads and writes explicitly.
type OperationRecord struct {
	OperationID    string   `json:"operation_id"`
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	RawSQL         string   `json:"raw_sql,omitempty"`
	ExplicitReads  []string `json:"explicit_reads,omitempty"`
	ExplicitWrites []string `json:"explicit_writes,omitempty"`
	Connections    []string `json:"connections,omitempty"`
	Parameters     []string `json:"parameters,omitempty"`
	PredecessorIDs []string `json:"predecessor_ids,omitempty"`
}

// PackageRecord is one ETL package: a named pipeline and its operations.
type PackageRecord struct {
	Name       string            `json:"name"`
	Operations []OperationRecord `json:"operations"`
}

// recordFile is the on-disk shape: either a bare array of packages or
// an object with a "packages" key.
type recordFile struct {
	Packages []PackageRecord `json:"packages"`
}

// ReadPackages decodes package records from JSON.
func ReadPackages(r io.Reader) ([]PackageRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	var pkgs []PackageRecord
	if err := json.Unmarshal(data, &pkgs); err == nil {
		return pkgs, nil
	}

	var file recordFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return file.Packages, nil
}

// LoadPackages reads package records from a JSON file.
func LoadPackages(path string) ([]PackageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()
	return ReadPackages(f)
}
