// Shared test helpers for the extract package.
package extract

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/cldrsync/internal/store"
)

// openTestStore opens a throwaway cache in a temp directory.
func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// decodeString decodes an XML literal into its root Record.
func decodeString(t *testing.T, xml string) Record {
	t.Helper()
	doc, err := DecodeXML(strings.NewReader(xml))
	require.NoError(t, err)
	return doc
}

// queryAll runs a query against the store's cache file and returns all rows
// as generic scalars.
func queryAll(t *testing.T, st *store.Store, query string) [][]any {
	t.Helper()
	db, err := sql.Open("sqlite", st.Path())
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)

	var out [][]any
	for rows.Next() {
		row := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range row {
			ptrs[i] = &row[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}
