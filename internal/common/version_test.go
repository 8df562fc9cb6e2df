package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVersionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyVersionFileFillsDefaults(t *testing.T) {
	defer func(v, b, c string) { Version, Build, GitCommit = v, b, c }(Version, Build, GitCommit)
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := writeVersionFile(t, "# release metadata\n\nversion: 1.4.2\nbuild: 2026-08-28T10:00:00Z\ncommit: abc1234\nnot a key value line\n")
	applyVersionFile(path)

	assert.Equal(t, "1.4.2", GetVersion())
	assert.Equal(t, "2026-08-28T10:00:00Z", GetBuild())
	assert.Equal(t, "abc1234", GetGitCommit())
}

func TestApplyVersionFileKeepsInjectedValues(t *testing.T) {
	defer func(v, b, c string) { Version, Build, GitCommit = v, b, c }(Version, Build, GitCommit)
	Version, Build, GitCommit = "2.0.0", "2026-01-01T00:00:00Z", "deadbee"

	path := writeVersionFile(t, "version: 9.9.9\nbuild: never\ncommit: ffffff\n")
	applyVersionFile(path)

	assert.Equal(t, "2.0.0", Version)
	assert.Equal(t, "2026-01-01T00:00:00Z", Build)
	assert.Equal(t, "deadbee", GitCommit)
}

func TestApplyVersionFileMissingFile(t *testing.T) {
	defer func(v, b, c string) { Version, Build, GitCommit = v, b, c }(Version, Build, GitCommit)
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	applyVersionFile(filepath.Join(t.TempDir(), ".version"))

	assert.Equal(t, "dev", Version)
	assert.Equal(t, "unknown", Build)
}
