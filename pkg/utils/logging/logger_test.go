package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)
}

func TestInitLoggerWithOptions_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := InitLoggerWithOptions("test", Options{Dir: dir, Console: &console, Now: fixedNow})
	require.NoError(t, err)

	logger.Info("visible everywhere")
	logger.Debug("file only")
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "visible everywhere")
	assert.NotContains(t, console.String(), "file only")

	data, err := os.ReadFile(filepath.Join(dir, "test_2024-03-04_09-30-00.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible everywhere"`)
	assert.Contains(t, string(data), `"msg":"file only"`)
	assert.Contains(t, string(data), `"env":"test"`)
}

func TestInitLoggerWithOptions_Verbose(t *testing.T) {
	var console bytes.Buffer

	logger, err := InitLoggerWithOptions("test", Options{Dir: t.TempDir(), Console: &console, Verbose: true, Now: fixedNow})
	require.NoError(t, err)

	logger.Debug("debug line")
	require.NoError(t, logger.Sync())

	assert.Contains(t, console.String(), "debug line")
}

func TestInitLoggerWithOptions_EmptyEnv(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLoggerWithOptions("", Options{Dir: dir, Console: &bytes.Buffer{}, Now: fixedNow})
	require.NoError(t, err)
	require.NoError(t, logger.Sync())

	_, err = os.Stat(filepath.Join(dir, "default_2024-03-04_09-30-00.log"))
	assert.NoError(t, err)
}
