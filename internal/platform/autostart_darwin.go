//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Enabled reports whether the launch agent exists.
func (item *LoginItem) Enabled() bool {
	path, err := item.entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (item *LoginItem) label() string {
	return "com." + slug(item.Name) + ".agent"
}

func (item *LoginItem) entryPath() (string, error) {
	dir := item.Dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("login item: %w", err)
		}
		dir = filepath.Join(homeDir, "Library", "LaunchAgents")
	}
	return filepath.Join(dir, item.label()+".plist"), nil
}

func (item *LoginItem) enable() error {
	path, err := item.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("login item: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(launchAgent(item.label(), item.ExecPath)), 0o644); err != nil {
		return fmt.Errorf("login item: write plist: %w", err)
	}
	return nil
}

func (item *LoginItem) disable() error {
	path, err := item.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("login item: remove plist: %w", err)
	}
	return nil
}

var plistEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func launchAgent(label, execPath string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, plistEscaper.Replace(label), plistEscaper.Replace(execPath))
}
