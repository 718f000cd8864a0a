//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enabled reports whether the desktop entry exists.
func (item *LoginItem) Enabled() bool {
	path, err := item.entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (item *LoginItem) entryPath() (string, error) {
	dir := item.Dir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("login item: %w", err)
		}
		dir = filepath.Join(configDir, "autostart")
	}
	return filepath.Join(dir, slug(item.Name)+".desktop"), nil
}

func (item *LoginItem) enable() error {
	path, err := item.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("login item: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(item.Name, item.ExecPath)), 0o644); err != nil {
		return fmt.Errorf("login item: write desktop entry: %w", err)
	}
	return nil
}

func (item *LoginItem) disable() error {
	path, err := item.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("login item: remove desktop entry: %w", err)
	}
	return nil
}

func desktopEntry(name, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Pomodoro timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, name, execPath)
}
