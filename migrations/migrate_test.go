package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_SortedAndEmbedded(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])

	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestInitMigration_UsesWallClockColumns(t *testing.T) {
	sql, err := migrationFiles.ReadFile("0001_init.sql")
	require.NoError(t, err)

	assert.NotContains(t, strings.ToUpper(string(sql)), "TIMESTAMPTZ")
	for _, table := range []string{"users", "events", "ticket_types", "tickets", "qr_codes", "ticket_validations"} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
