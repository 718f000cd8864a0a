package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tomatobar/internal/config"
	"tomatobar/internal/platform"
	"tomatobar/internal/storage"
	"tomatobar/internal/ui/console"
)

var startStopCmd = &cobra.Command{
	Use:   "startstop",
	Short: "Start or stop the timer in the running instance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return platform.SendCommand(config.AppName, platform.CommandURL(platform.CommandStartStop))
	},
}

var openCmd = &cobra.Command{
	Use:     "open <url>",
	Short:   "Forward a tomatobar:// URL to the running instance",
	Example: "  tomatobar open tomatobar://startstop",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return platform.SendCommand(config.AppName, args[0])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent phase transitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		journal, err := storage.OpenJournal(filepath.Join(cfg.ResolveDataDir(configPath), storage.JournalFileName))
		if err != nil {
			return err
		}
		defer func() { _ = journal.Close() }()

		entries, err := journal.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderHistory(entries))
		return err
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of transitions to show")
}
