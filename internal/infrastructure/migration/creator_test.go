package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add breaks table", "add_breaks_table"},
		{"Add-Standup-Index", "add_standup_index"},
		{"ADD_PAYOUTS", "add_payouts"},
		{"add__revenue__logs", "add_revenue_logs"},
		{"Accruals 2024", "accruals_2024"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeMigrationFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add work mode index", "Index attendance by work mode")
	require.NoError(t, err)

	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, "000001_add_work_mode_index.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, "000001_add_work_mode_index.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add work mode index: Index attendance by work mode")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback add work mode index")
}

func TestCreateMigration_NextSequence(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFiles(t, dir,
		"000001_init_schema.up.sql", "000001_init_schema.down.sql",
		"000007_add_expenses.up.sql", "000007_add_expenses.down.sql",
	)

	mf, err := CreateMigration(dir, "add payouts note", "")
	require.NoError(t, err)
	assert.Equal(t, "000008", mf.Version)
	assert.True(t, strings.HasPrefix(filepath.Base(mf.UpPath), "000008_add_payouts_note"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "add payouts note:")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNextSequence(t *testing.T) {
	assert.Equal(t, 1, nextSequence(nil))
	assert.Equal(t, 4, nextSequence([]string{"000003_a", "000001_b"}))
	assert.Equal(t, 3, nextSequence([]string{"000002_a", "notes", "x_y"}))
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigrationFiles(t, dir,
		"000003_add_expenses.up.sql", "000003_add_expenses.down.sql",
		"000001_init_schema.up.sql", "000001_init_schema.down.sql",
		"000002_add_standups.up.sql", "000002_add_standups.down.sql",
		"README.md", ".gitkeep",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_standups", "000003_add_expenses"}, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_RepositorySchema(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "000001_init_schema", migrations[0])
	for _, name := range migrations {
		_, err := os.Stat(filepath.Join("..", "..", "..", "migrations", name+".down.sql"))
		assert.NoError(t, err, "missing down migration for %s", name)
	}
}
