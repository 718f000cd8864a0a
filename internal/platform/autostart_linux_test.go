//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginItem_ApplyLinux(t *testing.T) {
	item := &LoginItem{Name: "Tomato Bar", ExecPath: "/opt/tomato bar/tomatobar", Dir: t.TempDir()}
	require.False(t, item.Enabled())

	require.NoError(t, item.Apply(true))
	require.True(t, item.Enabled())

	data, err := os.ReadFile(filepath.Join(item.Dir, "tomato-bar.desktop"))
	require.NoError(t, err)
	require.Contains(t, string(data), `Exec="/opt/tomato bar/tomatobar"`)
	require.Contains(t, string(data), "Name=Tomato Bar")

	require.NoError(t, item.Apply(false))
	require.False(t, item.Enabled())
	require.NoError(t, item.Apply(false), "disabling twice is fine")
}

func TestLoginItem_Validation(t *testing.T) {
	require.Error(t, (&LoginItem{Dir: t.TempDir()}).Apply(true))
	require.Error(t, (&LoginItem{Name: "tomatobar", Dir: t.TempDir()}).Apply(true))
}
