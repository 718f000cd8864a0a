package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"tomatobar/internal/core/model"
	"tomatobar/internal/sound"
)

// Values is everything the window edits.
type Values struct {
	ActivePreset  model.PresetKind
	Presets       model.Presets
	Settings      model.Settings
	LaunchAtLogin bool
	Volumes       sound.Volumes
}

// Preset returns the values of the active preset.
func (values Values) Preset() model.Preset {
	return values.Presets[values.ActivePreset]
}

// parseBounded reads an integer in [min, max].
func parseBounded(field, text string, min, max int) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%s: not a number", field)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s: must be between %d and %d", field, min, max)
	}
	return parsed, nil
}
