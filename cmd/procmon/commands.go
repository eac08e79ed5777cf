package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Abbiirr/simple-procmon/internal/config"
	"github.com/Abbiirr/simple-procmon/internal/history/sqlite"
	"github.com/Abbiirr/simple-procmon/internal/logger"
	"github.com/Abbiirr/simple-procmon/internal/monitor"
	"github.com/Abbiirr/simple-procmon/internal/server"
)

// loadConfig layers CLI flags over the optional TOML file. Only flags
// the user actually set override file values.
func loadConfig(cmd *cobra.Command, f *MonitorFlags) (config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.ProcessType = f.ProcessType
	}
	if flags.Changed("pattern") {
		cfg.Pattern = f.Pattern
	}
	if flags.Changed("interval") {
		cfg.Interval = f.Interval
	}
	if flags.Changed("tree") {
		cfg.Tree = f.Tree
	}
	if flags.Changed("export") {
		cfg.ExportPath = f.ExportPath
	}
	if flags.Changed("db") {
		cfg.DBPath = f.DBPath
	}
	if flags.Changed("serve") {
		cfg.ServeAddr = f.ServeAddr
	}
	if flags.Changed("cpu-threshold") {
		cfg.Thresholds.CPUPercent = f.ThresholdCPU
	}
	if flags.Changed("mem-threshold") {
		cfg.Thresholds.MemoryMB = f.ThresholdMem
	}
	if f.Verbose {
		cfg.Verbose = true
	}
	if flags.Changed("log-file") {
		cfg.Log.File = f.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runMonitor is the shared body of the root and trace commands.
func runMonitor(cfg config.Config) error {
	logger.Setup(logger.Options{
		Verbose:    cfg.Verbose,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	m := monitor.New(cfg, monitor.WithOutput(os.Stdout))
	if cfg.DBPath != "" {
		sink, err := sqlite.New(cfg.DBPath, m.SessionID())
		if err != nil {
			return fmt.Errorf("open session database: %w", err)
		}
		defer func() { _ = sink.Close() }()
		monitor.WithSink(sink)(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ServeAddr != "" {
		server.NewServer(ctx, cfg.ServeAddr, m)
		slog.Info("dashboard listening", "addr", cfg.ServeAddr)
	}

	slog.Info("monitoring started",
		"type", cfg.ProcessType, "pattern", cfg.Pattern,
		"interval", cfg.Interval, "session", m.SessionID())
	return m.Run(ctx)
}

func createRootCommand(f *MonitorFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "procmon",
		Short: "Live CPU/memory monitor for script-heavy process trees",
		Long: "procmon polls the process table, resolves interpreter processes to the\n" +
			"script they run, and reports rolling CPU/memory statistics with optional\n" +
			"threshold alerts, tree view, exports, and a web dashboard.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runMonitor(cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.ConfigPath, "config", "c", "", "TOML config file")
	fl.StringVarP(&f.ProcessType, "type", "t", "all", "process type: all, python, node, java, ruby, php, dotnet, or a name substring")
	fl.StringVarP(&f.Pattern, "pattern", "p", "", "substring match on process name or command line")
	fl.DurationVarP(&f.Interval, "interval", "i", config.DefaultInterval, "poll interval (min 100ms)")
	fl.BoolVar(&f.Tree, "tree", false, "render the parent/child process tree instead of the flat table")
	fl.StringVarP(&f.ExportPath, "export", "e", "", "write the session to this file on exit (.json or .html)")
	fl.StringVar(&f.DBPath, "db", "", "SQLite file recording every sample and alert")
	fl.StringVar(&f.ServeAddr, "serve", "", "serve the web dashboard on this address, e.g. 127.0.0.1:8787")
	fl.Float64Var(&f.ThresholdCPU, "cpu-threshold", 0, "alert when CPU%% exceeds this value (0 disables)")
	fl.Float64Var(&f.ThresholdMem, "mem-threshold", 0, "alert when memory MB exceeds this value (0 disables)")
	fl.BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
	fl.StringVar(&f.LogFile, "log-file", "", "duplicate logs to this rotating file")
	return cmd
}

func createTraceCommand(f *TraceFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "trace <pid>",
		Short:        "Follow a single process and append each sample to a CSV file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load(f.ConfigPath)
			if err != nil {
				return err
			}
			cfg.TracePID = pid
			if cmd.Flags().Changed("interval") {
				cfg.Interval = f.Interval
			}
			if cmd.Flags().Changed("out") {
				cfg.TracePath = f.OutPath
			}
			cfg.Verbose = cfg.Verbose || f.Verbose
			if f.LogFile != "" {
				cfg.Log.File = f.LogFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runMonitor(cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.ConfigPath, "config", "c", "", "TOML config file")
	fl.DurationVarP(&f.Interval, "interval", "i", config.DefaultInterval, "poll interval (min 100ms)")
	fl.StringVarP(&f.OutPath, "out", "o", "", "CSV output path (default trace_<pid>.csv)")
	fl.BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
	fl.StringVar(&f.LogFile, "log-file", "", "duplicate logs to this rotating file")
	return cmd
}

func createServeCommand(f *MonitorFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Monitor with the web dashboard enabled",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if cfg.ServeAddr == "" {
				cfg.ServeAddr = "127.0.0.1:8787"
			}
			return runMonitor(cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.ConfigPath, "config", "c", "", "TOML config file")
	fl.StringVarP(&f.ProcessType, "type", "t", "all", "process type: all, python, node, java, ruby, php, dotnet, or a name substring")
	fl.StringVarP(&f.Pattern, "pattern", "p", "", "substring match on process name or command line")
	fl.DurationVarP(&f.Interval, "interval", "i", config.DefaultInterval, "poll interval (min 100ms)")
	fl.BoolVar(&f.Tree, "tree", false, "build the parent/child process tree for the API")
	fl.StringVarP(&f.ExportPath, "export", "e", "", "write the session to this file on exit (.json or .html)")
	fl.StringVar(&f.DBPath, "db", "", "SQLite file recording every sample and alert")
	fl.StringVar(&f.ServeAddr, "serve", "127.0.0.1:8787", "dashboard listen address")
	fl.Float64Var(&f.ThresholdCPU, "cpu-threshold", 0, "alert when CPU%% exceeds this value (0 disables)")
	fl.Float64Var(&f.ThresholdMem, "mem-threshold", 0, "alert when memory MB exceeds this value (0 disables)")
	fl.BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
	fl.StringVar(&f.LogFile, "log-file", "", "duplicate logs to this rotating file")
	return cmd
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the procmon version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "procmon %s\n", version)
		},
	}
}
