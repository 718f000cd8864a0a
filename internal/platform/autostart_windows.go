//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// Enabled reports whether the Run registry value exists.
func (item *LoginItem) Enabled() bool {
	return exec.Command("reg", "query", runKey, "/v", item.Name).Run() == nil
}

func (item *LoginItem) enable() error {
	quoted := `"` + strings.Trim(item.ExecPath, `"`) + `"`
	output, err := exec.Command("reg", "add", runKey, "/v", item.Name, "/t", "REG_SZ", "/d", quoted, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("login item: reg add: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (item *LoginItem) disable() error {
	if !item.Enabled() {
		return nil
	}
	output, err := exec.Command("reg", "delete", runKey, "/v", item.Name, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("login item: reg delete: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
