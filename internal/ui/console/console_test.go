package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tomatobar/internal/core/clock"
	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/storage"
)

func TestConsole_Commands(t *testing.T) {
	var out bytes.Buffer
	console := New(strings.NewReader("s\n\nk\np night\nbogus\np\n\nq\ns\n"), &out)

	keeper := timekeeper.New(timekeeper.Config{
		Clock:    clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Settings: model.DefaultSettings(),
	}, timekeeper.Collaborators{Display: console, Notifier: console})
	console.Attach(keeper)
	keeper.Start()
	defer keeper.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, console.Run(ctx, nil))

	text := out.String()
	require.Contains(t, text, "WORK 40:00 preset morning, 0/2 intervals")
	require.Contains(t, text, "IDLE preset night, 0/2 intervals")
	require.Contains(t, text, `unknown command "bogus"`)
	require.Contains(t, text, "usage: p <preset>")

	snapshot, err := keeper.Snapshot()
	require.NoError(t, err)
	require.Equal(t, phase.Idle, snapshot.Phase, "input after q is not processed")
	require.Equal(t, model.PresetNight, snapshot.ActivePreset)
}

func TestConsole_PrintsNotifications(t *testing.T) {
	var out bytes.Buffer
	console := New(strings.NewReader(""), &out)

	console.Send(timekeeper.Notification{Title: "Break is over", Body: "Keep up the good work!"})

	require.Contains(t, out.String(), "Break is over")
	require.Contains(t, out.String(), "Keep up the good work!")
}

func TestConsole_ShowsProgressOncePerMinute(t *testing.T) {
	var out bytes.Buffer
	console := New(strings.NewReader(""), &out)

	console.show(timekeeper.Event{Type: timekeeper.EventProgress, Phase: phase.Work, RemainingText: "24:59"})
	require.Empty(t, out.String())
	console.show(timekeeper.Event{Type: timekeeper.EventProgress, Phase: phase.Work, RemainingText: "24:00"})
	require.Contains(t, out.String(), "WORK 24:00")
}

func TestRenderHistory(t *testing.T) {
	require.Contains(t, RenderHistory(nil), "No transitions")

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rendered := RenderHistory([]storage.JournalEntry{
		{ID: 1, RunID: "a", Record: phase.Transition{From: phase.Idle, To: phase.Work, Event: phase.StartStop, At: at}},
		{ID: 2, RunID: "a", Record: phase.Transition{From: phase.Work, To: phase.Idle, Event: phase.StartStop, At: at.Add(time.Minute)}},
		{ID: 3, RunID: "b", Record: phase.Transition{From: phase.Idle, To: phase.Work, Event: phase.StartStop, At: at.Add(time.Hour)}},
	})

	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 4, "runs are separated by a blank line")
	require.Contains(t, lines[0], "IDLE -> WORK (startStop)")
	require.Empty(t, lines[2])
}
