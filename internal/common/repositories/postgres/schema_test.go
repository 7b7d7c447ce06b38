package postgres

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leonid6372/stock-ledger/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qualifiedName = regexp.MustCompile(
	`\b([a-z_]+)\.(client_accounts|stocks|portfolios|holdings|portfolio_value_history|orders|order_line_items|order_code_seq)\b`)

func schemasIn(text string) []string {
	var schemas []string
	for _, m := range qualifiedName.FindAllStringSubmatch(text, -1) {
		schemas = append(schemas, m[1])
	}

	return schemas
}

func TestQueriesUseLedgerSchema(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	found := 0
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}

		data, err := os.ReadFile(name)
		require.NoError(t, err)

		for _, schema := range schemasIn(string(data)) {
			found++
			assert.Equal(t, Schema, schema, "query in %s", name)
		}
	}

	assert.NotZero(t, found)
}

func TestMigrationsUseLedgerSchema(t *testing.T) {
	found := 0
	err := fs.WalkDir(migrations.FS, migrations.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return err
		}

		for _, schema := range schemasIn(string(data)) {
			found++
			assert.Equal(t, Schema, schema, "statement in %s", path)
		}

		return nil
	})
	require.NoError(t, err)

	assert.NotZero(t, found)
}
