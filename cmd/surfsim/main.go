package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/surf/internal/config"
	"github.com/Versifine/surf/internal/debug"
	"github.com/Versifine/surf/internal/input"
	"github.com/Versifine/surf/internal/logger"
	"github.com/Versifine/surf/internal/sim"
	"github.com/Versifine/surf/internal/trace"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	scriptPath := flag.String("script", "", "YAML input script for a headless run")
	ticks := flag.Int("ticks", -1, "ticks to run (0 runs until interrupted, -1 uses the script length or the config)")
	tracePath := flag.String("trace", "", "CSV trace output (overrides trace.path)")
	interactive := flag.Bool("interactive", false, "drive the character from the terminal")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	closeLog, err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		slog.Error("Failed to init logger", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	if *tracePath != "" {
		cfg.Trace.Path = *tracePath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *scriptPath, *ticks, *interactive); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Simulation failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config not found, using defaults", "path", path)
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}

// runLength picks the tick count: an explicit -ticks value wins, then the
// script's last step, then the config.
func runLength(flagTicks, cfgTicks int, script *input.Script) int {
	switch {
	case flagTicks >= 0:
		return flagTicks
	case script != nil && script.End() > 0:
		return script.End()
	default:
		return cfgTicks
	}
}

func run(ctx context.Context, cfg config.Config, scriptPath string, flagTicks int, interactive bool) error {
	rec, err := trace.Create(cfg.Trace.Path)
	if err != nil {
		return err
	}
	defer rec.Close()

	var (
		driver  input.Driver
		console *debug.Console
		script  *input.Script
	)
	switch {
	case interactive:
		console = debug.NewConsole(nil, os.Stdout)
		driver = console
	case scriptPath != "":
		script, err = input.LoadScript(scriptPath)
		if err != nil {
			return err
		}
		driver = script
	}
	cfg.Sim.Ticks = runLength(flagTicks, cfg.Sim.Ticks, script)

	runner, err := sim.NewRunner(cfg, driver, rec)
	if err != nil {
		return err
	}
	defer runner.Close()

	if console == nil {
		return runner.Run(ctx, cfg.Sim.Ticks)
	}

	console.Attach(runner)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := console.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Console stopped", "error", err)
		}
		cancel()
	}()
	return runner.RunPaced(ctx, cfg.Sim.Ticks)
}
