// Package store implements the SQLite sink for extracted CLDR tables.
//
// Each dataset family owns one cache file. Tables inside a cache have no
// cross-run identity: every run drops and recreates each table before the
// bulk insert, so partial old data never coexists with new data under the
// same name.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Column affinities. SQLite derives storage affinity from the declared type
// name, so these are written into CREATE TABLE verbatim.
const (
	AffinityText = "text"
	AffinityInt  = "int"
	AffinityBool = "bool"
	AffinityDate = "date"
)

// Column describes one output column: a name and a declared affinity.
type Column struct {
	Name     string
	Affinity string
}

// Text returns a Column with the default text affinity.
func Text(name string) Column {
	return Column{Name: name, Affinity: AffinityText}
}

// Typed returns a Column with an explicit affinity.
func Typed(name, affinity string) Column {
	return Column{Name: name, Affinity: affinity}
}

// identPattern restricts table and column names to safe SQL identifiers.
// Names are interpolated into DDL, so anything else is rejected up front.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Store wraps one SQLite cache file.
type Store struct {
	path string
	db   *sql.DB
}

// Open opens (creating if necessary) the SQLite cache file at path.
// The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	return &Store{path: path, db: db}, nil
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection. Close is idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Recreate drops the named table if it exists and creates it fresh with the
// given columns. Dropping an absent table is not an error; any other failure
// propagates.
func (s *Store) Recreate(name string, cols []Column) error {
	if err := validateIdent(name); err != nil {
		return err
	}

	defs := make([]string, 0, len(cols))
	for _, col := range cols {
		if err := validateIdent(col.Name); err != nil {
			return err
		}
		affinity := col.Affinity
		if affinity == "" {
			affinity = AffinityText
		}
		// Quoted so keyword-shaped column names like "end" stay valid.
		defs = append(defs, fmt.Sprintf("%q %s", col.Name, affinity))
	}

	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// BulkInsert inserts all rows into the named table inside one transaction.
// Every row must have exactly arity values. On any failure the transaction
// is rolled back and the error propagates.
func (s *Store) BulkInsert(name string, arity int, rows [][]any) error {
	if err := validateIdent(name); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert into %s: %w", name, err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", arity), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != arity {
			return fmt.Errorf("insert into %s: row %d has %d values, want %d", name, i, len(row), arity)
		}
		args := make([]any, len(row))
		for j, v := range row {
			args[j] = encodeValue(v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert into %s: row %d: %w", name, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert into %s: %w", name, err)
	}
	return nil
}

// WriteMeta records run provenance in the cache: a UUIDv7 run id, the CLDR
// version the data was extracted from, and the fetch timestamp.
func (s *Store) WriteMeta(version int, fetchedAt time.Time) error {
	cols := []Column{
		Text("run_id"),
		Typed("cldr_version", AffinityInt),
		Text("fetched_at"),
	}
	if err := s.Recreate("meta", cols); err != nil {
		return err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		// UUIDv7 only fails when the entropy source does; fall back to v4.
		runID = uuid.New()
	}
	row := []any{runID.String(), version, fetchedAt.UTC().Format(time.RFC3339)}
	return s.BulkInsert("meta", len(cols), [][]any{row})
}

// encodeValue normalizes projected scalars into driver-friendly values.
// Dates are stored as ISO-8601 day strings, booleans as 0/1.
func encodeValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}

func validateIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}
