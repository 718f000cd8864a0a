package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
)

func TestPresetFile_MissingFileUsesDefaults(t *testing.T) {
	file := NewPresetFile(filepath.Join(t.TempDir(), PresetsFileName))

	require.Equal(t, model.DefaultPresets(), file.Load())
	require.Equal(t, model.PresetMorning, file.LoadActive())
}

func TestPresetFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", PresetsFileName)
	file := NewPresetFile(path)

	presets := model.DefaultPresets()
	presets[model.PresetCustom] = model.Preset{WorkMinutes: 50, ShortRestMinutes: 10, LongRestMinutes: 30, WorkIntervalsPerSet: 2}
	require.NoError(t, file.Save(presets))
	require.NoError(t, file.SaveActive(model.PresetCustom))

	reopened := NewPresetFile(path)
	require.Equal(t, presets, reopened.Load())
	require.Equal(t, model.PresetCustom, reopened.LoadActive())

	// Saving presets keeps the active preset and the other way round.
	presets[model.PresetCustom].WorkMinutes = 45
	require.NoError(t, reopened.Save(presets))
	require.Equal(t, model.PresetCustom, reopened.LoadActive())
	require.NoError(t, reopened.SaveActive(model.PresetNight))
	require.Equal(t, 45, reopened.Load()[model.PresetCustom].WorkMinutes)
}

func TestPresetFile_RejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed yaml",
			content: "presets: [",
		},
		{
			name: "too few presets",
			content: `presets:
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
`,
		},
		{
			name: "too many presets",
			content: `presets:
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
`,
		},
		{
			name: "out of range entry",
			content: `presets:
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 10, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
  - {work_minutes: 0, short_rest_minutes: 2, long_rest_minutes: 5, work_intervals_per_set: 2}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), PresetsFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			require.Equal(t, model.DefaultPresets(), NewPresetFile(path).Load())
		})
	}
}

func TestPresetFile_ActivePresetFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), PresetsFileName)
	require.NoError(t, os.WriteFile(path, []byte("active_preset: weekend\n"), 0o644))

	file := NewPresetFile(path)
	require.Equal(t, model.PresetMorning, file.LoadActive())
	require.Error(t, file.SaveActive(model.PresetKind(9)))
}

func TestPresetFile_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	file := NewPresetFile(filepath.Join(dir, PresetsFileName))
	require.NoError(t, file.Save(model.DefaultPresets()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, PresetsFileName, entries[0].Name())
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PresetsFileName)
	file := NewPresetFile(path)
	require.NoError(t, file.Save(model.DefaultPresets()))

	watcher, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	changes, err := watcher.Start()
	require.NoError(t, err)
	defer func() { _ = watcher.Stop() }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	select {
	case <-changes:
		require.Fail(t, "unexpected change for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, file.SaveActive(model.PresetNight))
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		require.Fail(t, "timeout waiting for change")
	}
}

func TestJournal_RecordAndRecent(t *testing.T) {
	journal, err := OpenJournal(filepath.Join(t.TempDir(), JournalFileName))
	require.NoError(t, err)
	defer func() { _ = journal.Close() }()

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	transitions := []phase.Transition{
		{From: phase.Idle, To: phase.Work, Event: phase.StartStop, At: at},
		{From: phase.Work, To: phase.Rest, Event: phase.TimerFired, At: at.Add(25 * time.Minute)},
		{From: phase.Rest, To: phase.Idle, Event: phase.StartStop, At: at.Add(27 * time.Minute)},
		{From: phase.Idle, To: phase.Work, Event: phase.StartStop, At: at.Add(time.Hour)},
	}
	for _, transition := range transitions {
		require.NoError(t, journal.Record(transition))
	}

	entries, err := journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for index, entry := range entries {
		require.Equal(t, transitions[index].From, entry.Record.From)
		require.Equal(t, transitions[index].To, entry.Record.To)
		require.Equal(t, transitions[index].Event, entry.Record.Event)
		require.True(t, transitions[index].At.Equal(entry.Record.At))
	}

	require.Equal(t, entries[0].RunID, entries[1].RunID)
	require.Equal(t, entries[1].RunID, entries[2].RunID)
	require.NotEqual(t, entries[2].RunID, entries[3].RunID, "leaving idle starts a new run")

	latest, err := journal.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	require.Equal(t, entries[2].ID, latest[0].ID)
	require.Equal(t, entries[3].ID, latest[1].ID)

	none, err := journal.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestJournal_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), JournalFileName)
	journal, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, journal.Record(phase.Transition{From: phase.Idle, To: phase.Work, Event: phase.StartStop, At: time.Now()}))
	require.NoError(t, journal.Close())

	reopened, err := OpenJournal(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	entries, err := reopened.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
