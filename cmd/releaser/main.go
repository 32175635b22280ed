package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"

	"github.com/drewdunne/releaser/internal/command"
	"github.com/drewdunne/releaser/internal/config"
	"github.com/drewdunne/releaser/internal/console"
	"github.com/drewdunne/releaser/internal/logging"
	"github.com/drewdunne/releaser/internal/metrics"
	"github.com/drewdunne/releaser/internal/release"
)

var version = "0.1.0"

// logOutput receives log lines once the configured logger is in place.
var logOutput io.Writer = os.Stderr

// errLogged marks a failure already reported through the configured logger.
var errLogged = errors.New("release failed")

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("releaser v%s\n", version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		if !errors.Is(err, errLogged) {
			clog.FromContext(ctx).Errorf("Release failed: %v", err)
		}
		os.Exit(1)
	}
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: releaser [options] <plugin-slug> <pr-number>")
	fmt.Fprintln(w, "       releaser version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.PrintDefaults()
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("releaser", flag.ExitOnError)
	configPath := fs.String("config", "releaser.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	dir := fs.String("dir", ".", "Plugin checkout to release")
	fs.Usage = func() { printUsage(fs) }
	fs.Parse(args)

	if fs.NArg() != 2 {
		printUsage(fs)
		return fmt.Errorf("expected <plugin-slug> <pr-number>, got %d arguments", fs.NArg())
	}
	slug := fs.Arg(0)
	prNumber, err := strconv.Atoi(fs.Arg(1))
	if err != nil || prNumber <= 0 {
		return fmt.Errorf("invalid pull request number %q", fs.Arg(1))
	}

	// Load .env file if specified or exists
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", *envFile, err)
		}
	} else {
		godotenv.Load(".env")
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	env, err := config.LoadEnv(ctx)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if env.LogLevel != "" {
		level = env.LogLevel
	}
	ctx = clog.WithLogger(ctx, newLogger(logOutput, level).With("plugin", slug, "pr", prNumber))

	if err := publish(ctx, cfg, env, *dir, slug, prNumber); err != nil {
		clog.FromContext(ctx).Errorf("Release failed: %v", err)
		return fmt.Errorf("%w: %w", errLogged, err)
	}
	return nil
}

func publish(ctx context.Context, cfg *config.Config, env *config.Env, dir, slug string, prNumber int) error {
	log := clog.FromContext(ctx)

	opts := release.Options{
		Dir:    dir,
		Runner: &command.Exec{},
		Out:    console.New(os.Stdout),
	}

	if cfg.Logging.TranscriptDir != "" {
		n, err := logging.NewCleaner(cfg.Logging.TranscriptDir, cfg.Logging.RetentionDays).Cleanup(ctx)
		if err != nil {
			log.Warnf("Transcript cleanup failed: %v", err)
		} else if n > 0 {
			log.Infof("Removed %d expired transcripts", n)
		}

		w := logging.NewWriter(cfg.Logging.TranscriptDir)
		path, err := w.Create(logging.LogEntry{Slug: slug, PRNumber: prNumber, Timestamp: time.Now()})
		if err != nil {
			return err
		}
		transcript := w.Open(path)
		opts.Runner = &command.Exec{Transcript: transcript}
		opts.BuildOutput = transcript
		log.With("path", path).Info("Writing transcript")
	}

	pipeline, err := release.New(cfg, env, opts)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	res, err := pipeline.Run(ctx, slug, prNumber)
	m := metrics.Get()
	log.With("steps_completed", m.StepsCompleted, "steps_failed", m.StepsFailed,
		"commands_run", m.CommandsRun, "commands_failed", m.CommandsFailed).Debug("Run finished")
	if err != nil {
		return err
	}
	log.With("version", res.Info.Version, "url", res.ReleaseURL).Info("Release published")
	return nil
}

func newLogger(w io.Writer, level string) *clog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	return clog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
