package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("migrations/001_init.sql"))
	assert.Equal(t, "002", Version("002_add_index_on_email.sql"))
}

func TestFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}, files)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := Files(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	schema, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(schema), "certificates_student_course_key UNIQUE (student_id, course_id)")
	assert.Contains(t, string(schema), "students_email_key")
	assert.Contains(t, string(schema), "ON DELETE CASCADE")
}

func TestFilesMissingDirectory(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
