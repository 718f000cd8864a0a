package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLevel("debug"))
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("info")
	})
	return &buf
}

func TestFieldsAndCategory(t *testing.T) {
	buf := captureOutput(t)

	Info(CatTimer, "countdown started", "duration", "25m0s", "orphan")

	out := buf.String()
	require.Contains(t, out, "countdown started")
	require.Contains(t, out, "cat=timer")
	require.Contains(t, out, "duration=25m0s")
	require.Contains(t, out, "orphan=\"<missing>\"")
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	require.NoError(t, SetLevel("warn"))

	Debug(CatUI, "hidden")
	Warn(CatUI, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Error(t, SetLevel("loud"))
}

func TestFatalUsesExitFunc(t *testing.T) {
	buf := captureOutput(t)
	code := -1
	SetExitFunc(func(c int) { code = c })
	t.Cleanup(func() { SetExitFunc(os.Exit) })

	Fatal(CatPhase, "hook failed", errors.New("boom"), "from", "idle")

	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "error=boom")
	require.Contains(t, buf.String(), "from=idle")
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tomatobar.log")
	cleanup, err := Init(path, "info")
	require.NoError(t, err)

	ErrorErr(CatStorage, "save failed", errors.New("disk full"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "save failed")
	require.Contains(t, string(data), "disk full")
}
