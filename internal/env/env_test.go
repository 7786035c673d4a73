package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("PORTAL_TEST_STR", "abc")
	t.Setenv("PORTAL_TEST_INT", "42")
	t.Setenv("PORTAL_TEST_BAD_INT", "x")
	t.Setenv("PORTAL_TEST_DUR", "90s")

	assert.Equal(t, "abc", GetString("PORTAL_TEST_STR", "zz"))
	assert.Equal(t, "zz", GetString("PORTAL_TEST_MISSING", "zz"))
	assert.Equal(t, 42, GetInt("PORTAL_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("PORTAL_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, GetDuration("PORTAL_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetDuration("PORTAL_TEST_MISSING", time.Second))
}

func TestLoadKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORTAL_LOAD_A=file\nPORTAL_LOAD_B=file\n"), 0o600))

	t.Setenv("PORTAL_LOAD_A", "process")
	os.Unsetenv("PORTAL_LOAD_B")
	t.Cleanup(func() { os.Unsetenv("PORTAL_LOAD_B") })

	require.NoError(t, Load(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "process", os.Getenv("PORTAL_LOAD_A"))
	assert.Equal(t, "file", os.Getenv("PORTAL_LOAD_B"))
}
