package platform

import (
	"fmt"
	"os"
	"strings"

	"tomatobar/internal/log"
)

// LoginItem starts the application when the user logs in.
type LoginItem struct {
	Name     string
	ExecPath string
	// Dir overrides where the login entry is written. Empty means the OS
	// location.
	Dir string
}

// NewLoginItem describes the running executable as a login item.
func NewLoginItem(name string) (*LoginItem, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve executable: %w", err)
	}
	return &LoginItem{Name: name, ExecPath: execPath}, nil
}

// Apply registers or removes the login item.
func (item *LoginItem) Apply(enabled bool) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("login item: name is empty")
	}
	if !enabled {
		log.Info(log.CatPlatform, "disabling launch at login", "name", item.Name)
		return item.disable()
	}
	if item.ExecPath == "" {
		return fmt.Errorf("login item: exec path is empty")
	}
	log.Info(log.CatPlatform, "enabling launch at login", "name", item.Name, "exec", item.ExecPath)
	return item.enable()
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
