package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tomatobar/internal/core/phase"
	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/storage"
)

var (
	phaseColors = map[phase.Phase]lipgloss.Color{
		phase.Idle: lipgloss.Color("#888"),
		phase.Work: lipgloss.Color("#FF5F56"),
		phase.Rest: lipgloss.Color("#27C93F"),
	}

	labelStyle = lipgloss.NewStyle().Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFF8C"))

	noteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF7CCB")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666"))
)

func phaseLabel(current phase.Phase) string {
	return labelStyle.Foreground(phaseColors[current]).Render(strings.ToUpper(current.String()))
}

// renderStatus is the one-line session summary.
func renderStatus(event timekeeper.Event) string {
	parts := []string{phaseLabel(event.Phase)}
	if event.RemainingText != "" {
		parts = append(parts, timeStyle.Render(event.RemainingText))
	}
	parts = append(parts, subtleStyle.Render(fmt.Sprintf("preset %s, %d/%d intervals",
		event.ActivePreset, event.ConsecutiveWorkIntervals, event.Preset.WorkIntervalsPerSet)))
	return strings.Join(parts, " ")
}

func renderSnapshot(snapshot timekeeper.Snapshot) string {
	return renderStatus(timekeeper.Event{
		Phase:                    snapshot.Phase,
		RemainingText:            snapshot.RemainingText,
		ConsecutiveWorkIntervals: snapshot.ConsecutiveWorkIntervals,
		ActivePreset:             snapshot.ActivePreset,
		Preset:                   snapshot.Preset,
	})
}

func renderNotification(notification timekeeper.Notification) string {
	return noteStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(notification.Title),
		notification.Body,
	))
}

// RenderHistory formats journal entries, one transition per line, with a
// blank line between runs.
func RenderHistory(entries []storage.JournalEntry) string {
	if len(entries) == 0 {
		return subtleStyle.Render("No transitions recorded yet.")
	}

	var builder strings.Builder
	previousRun := ""
	for index, entry := range entries {
		if index > 0 && entry.RunID != previousRun {
			builder.WriteString("\n")
		}
		previousRun = entry.RunID
		fmt.Fprintf(&builder, "%s %s -> %s %s\n",
			subtleStyle.Render(entry.Record.At.Local().Format(time.DateTime)),
			phaseLabel(entry.Record.From),
			phaseLabel(entry.Record.To),
			subtleStyle.Render("("+entry.Record.Event.String()+")"),
		)
	}
	return strings.TrimRight(builder.String(), "\n")
}

const helpText = `commands:
  s          start or stop
  k          skip rest
  p <preset> select preset (morning, afternoon, night, custom or 0-3)
  (empty)    show status
  ?          help
  q          quit`
