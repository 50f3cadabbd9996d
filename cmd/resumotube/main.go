package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/config"
	"github.com/csheth/resumotube/internal/history"
	"github.com/csheth/resumotube/internal/logging"
	"github.com/csheth/resumotube/internal/session"
	"github.com/csheth/resumotube/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: user config dir)")
	envFile := flag.String("env-file", ".env", "dotenv file with RESUMOTUBE_* overrides")
	apiBase := flag.String("api", "", "backend base URL (eg. http://localhost:8000/api)")
	providerFlag := flag.String("provider", "", "initial provider: gemini or openai")
	historyPath := flag.String("history", "", "where archived summaries are stored")
	noHistory := flag.Bool("no-history", false, "disable the summary archive")
	logFile := flag.String("log-file", "", "override the log file path")
	logLevel := flag.String("log-level", "", "override the log level")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	cfg, err := config.Load(config.Options{Path: *configPath, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
	}
	if *providerFlag != "" {
		cfg.DefaultProvider = *providerFlag
	}
	if *historyPath != "" {
		cfg.HistoryPath = *historyPath
	}
	if *noHistory {
		cfg.HistoryPath = ""
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid flags:", err)
		os.Exit(2)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not initialize logging:", err)
		os.Exit(1)
	}
	defer closer.Close()

	client := api.New(api.Options{
		BaseURL:            cfg.APIBaseURL,
		SummarizePerMinute: cfg.RateLimit.PerMinute,
		SummarizeBurst:     cfg.RateLimit.Burst,
		Logger:             logger,
	})

	var archive session.Archiver
	if cfg.HistoryPath != "" {
		archive = history.NewStore(cfg.HistoryPath)
	}

	vm := session.NewViewModel(session.Deps{
		Backend:          client,
		Archive:          archive,
		Clipboard:        clipboard.WriteAll,
		Logger:           logger,
		RequestTimeout:   cfg.RequestTimeout,
		SummarizeTimeout: cfg.SummarizeTimeout,
		CopiedDisplay:    cfg.CopiedDisplay,
	})

	logger.WithFields(logrus.Fields{
		"api":      cfg.APIBaseURL,
		"provider": cfg.Provider(),
		"history":  cfg.HistoryPath,
	}).Info("starting resumotube")

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Session:  vm,
			Provider: cfg.Provider(),
			BaseURL:  cfg.APIBaseURL,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.WithError(err).Error("program exited with error")
		fmt.Fprintln(os.Stderr, "program error:", err)
		closer.Close()
		os.Exit(1)
	}
}
