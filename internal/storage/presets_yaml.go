package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"tomatobar/internal/core/model"
	"tomatobar/internal/log"
)

// PresetsFileName is the file holding the presets inside the data directory.
const PresetsFileName = "presets.yaml"

type yamlPresets struct {
	ActivePreset string         `yaml:"active_preset"`
	Presets      []model.Preset `yaml:"presets"`
}

// PresetFile persists presets and the active preset to a YAML file.
// Loading never fails: anything other than exactly four valid presets
// falls back to the defaults.
type PresetFile struct {
	mu   sync.Mutex
	path string
}

// NewPresetFile returns a store backed by path.
func NewPresetFile(path string) *PresetFile {
	return &PresetFile{path: path}
}

// DefaultPresetsPath returns the presets file inside the user config dir.
func DefaultPresetsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, PresetsFileName), nil
}

// Path returns the backing file path.
func (file *PresetFile) Path() string {
	return file.path
}

// Load returns the stored presets or the defaults.
func (file *PresetFile) Load() model.Presets {
	file.mu.Lock()
	defer file.mu.Unlock()

	fileData, err := file.read()
	if err != nil {
		log.Warn(log.CatPreset, "using default presets", "path", file.path, "error", err)
		return model.DefaultPresets()
	}
	if fileData.Presets == nil {
		return model.DefaultPresets()
	}

	presets, err := model.PresetsFromSlice(fileData.Presets)
	if err != nil {
		log.Warn(log.CatPreset, "stored presets rejected, using defaults", "path", file.path, "error", err)
		return model.DefaultPresets()
	}
	return presets
}

// LoadActive returns the stored active preset, morning when absent or invalid.
func (file *PresetFile) LoadActive() model.PresetKind {
	file.mu.Lock()
	defer file.mu.Unlock()

	fileData, err := file.read()
	if err != nil || fileData.ActivePreset == "" {
		return model.PresetMorning
	}
	kind, err := model.ParsePresetKind(fileData.ActivePreset)
	if err != nil {
		log.Warn(log.CatPreset, "stored active preset rejected", "value", fileData.ActivePreset)
		return model.PresetMorning
	}
	return kind
}

// Save writes all four presets, keeping the stored active preset.
func (file *PresetFile) Save(presets model.Presets) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	fileData, err := file.read()
	if err != nil {
		fileData = yamlPresets{}
	}
	fileData.Presets = presets[:]
	return file.write(fileData)
}

// SaveActive records the active preset, keeping the stored presets.
func (file *PresetFile) SaveActive(kind model.PresetKind) error {
	if !kind.Valid() {
		return fmt.Errorf("save active preset: %w: %s", model.ErrInvalidPreset, kind)
	}

	file.mu.Lock()
	defer file.mu.Unlock()

	fileData, err := file.read()
	if err != nil {
		fileData = yamlPresets{}
	}
	fileData.ActivePreset = kind.String()
	return file.write(fileData)
}

func (file *PresetFile) read() (yamlPresets, error) {
	var fileData yamlPresets
	rawData, err := os.ReadFile(file.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileData, nil
		}
		return fileData, fmt.Errorf("read presets file: %w", err)
	}
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return yamlPresets{}, fmt.Errorf("parse presets yaml: %w", err)
	}
	return fileData, nil
}

func (file *PresetFile) write(fileData yamlPresets) error {
	if fileData.Presets == nil {
		defaults := model.DefaultPresets()
		fileData.Presets = defaults[:]
	}
	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal presets yaml: %w", err)
	}
	return writeFileAtomic(file.path, serialized)
}

// writeFileAtomic replaces path through a temp file in the same directory,
// so watchers never observe a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
