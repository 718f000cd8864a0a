package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tomatobar/internal/config"
	"tomatobar/internal/log"
)

var (
	version    = "dev"
	cfgFile    string
	debug      bool
	cfg        config.Config
	configPath string
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:               "tomatobar",
	Short:             "A Pomodoro timer for the system tray",
	Long:              `TomatoBar runs work and rest intervals from the system tray, or from the terminal with --headless.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logCleanup() },
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: <user config dir>/tomatobar/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().Bool("headless", false, "run in the terminal instead of the system tray")

	rootCmd.AddCommand(startStopCmd, openCmd, historyCmd)
}

func initConfig(*cobra.Command, []string) error {
	loaded, path, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		log.Warn(log.CatConfig, "using default configuration", "path", path, "error", err)
	}
	cfg, configPath = loaded, path

	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	cleanup, err := log.Init(cfg.Log.Path, level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logCleanup = cleanup
	log.Debug(log.CatConfig, "configuration loaded", "path", configPath)
	return nil
}
