package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/spachava753/compatmatrix/internal/config"
	"github.com/spachava753/compatmatrix/internal/executor"
	"github.com/spachava753/compatmatrix/internal/report"
)

var Version = "dev"

func init() {
	// -v is --verbose.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

func main() {
	// Setup context with manual signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, finishing up...", "signal", sig)
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "compatmatrix",
		Usage:     "Check version combinations of cooperating projects against a fixed test suite",
		UsageText: "compatmatrix [options] [<id>[:<version>] ...]",
		Description: "With no arguments every tuple of the checks file is tested and the results file is rewritten.\n" +
			"A single <primary>[:<version>] argument tests the primary component against the checks file;\n" +
			"any other arguments form an explicit tuple. The version @ means latest.",
		Version: Version,
		Flags:   flags,
		Action:  run,
		// Exit codes are decided in main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func run(c *cli.Context) error {
	s, err := settingsFromContext(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: s.logLevel})))

	cfg, err := config.LoadMatrixConfig(s.configPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading config: %s", err), 1)
	}
	s.apply(&cfg)
	if err := config.Validate(cfg); err != nil {
		return cli.Exit(fmt.Sprintf("invalid config: %s", err), 1)
	}

	out, err := executor.Run(c.Context, executor.RunOptions{
		Config:      cfg,
		Args:        c.Args().Slice(),
		Verbosity:   s.verbosity,
		SummaryJSON: s.summaryJSON,
		MetricsFile: s.metricsFile,
	})

	if out != nil {
		if out.Matrix != nil {
			report.PrintSummary(c.App.Writer, out.Matrix)
		} else if out.Check != nil {
			report.PrintCheck(c.App.Writer, *out.Check)
		}
	}

	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if !out.OK() {
		return cli.Exit("", 1)
	}
	return nil
}
