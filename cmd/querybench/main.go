package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"querybench/internal/aggregate"
	"querybench/internal/auth"
	"querybench/internal/bench"
	"querybench/internal/compare"
	"querybench/internal/config"
	"querybench/internal/executor"
	"querybench/internal/gateway"
	"querybench/internal/httpclient"
	"querybench/internal/output"
	"querybench/internal/progress"
	"querybench/internal/request"
	"querybench/internal/scenario"
	"querybench/internal/tracing"
	"querybench/internal/trial"
)

const tracingShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	source := newTokenSource(cfg.Auth)
	if source != nil {
		defer func() { _ = source.Close() }()
	}

	gatewayOpts := []gateway.Option{}
	if source != nil {
		gatewayOpts = append(gatewayOpts, gateway.WithTokenSource(source))
	}
	if cfg.Tracing.Enabled() {
		gatewayOpts = append(gatewayOpts, gateway.WithTracer(tracer.Tracer()))
	}
	if tracer.ShouldPropagate() {
		gatewayOpts = append(gatewayOpts, gateway.WithTracePropagation())
	}
	gw := gateway.New(httpclient.NewClient(cfg.Timeout), gatewayOpts...)

	exec := executor.New(
		request.NewBuilder(),
		compare.NewComparator(),
		gw,
		trial.NewRunner(cfg.SettleInterval),
		cfg.Iterations,
	)

	library := scenario.DefaultLibrary()
	selection := scenario.Selection{
		Variants:    cfg.Variants,
		Limits:      cfg.Limits,
		RecordLimit: cfg.RecordLimit,
	}
	units := scenario.Expand(library, cfg.Categories, selection)
	if len(units) == 0 {
		return fmt.Errorf("no benchmark units match the enabled categories")
	}

	var reporter progress.Reporter = progress.Nop{}
	if !cfg.JSONOutput {
		reporter = progress.NewConsole(os.Stdout, len(units))
	}
	if cfg.LogErrors {
		reporter = &failureLoggingReporter{next: reporter}
	}

	collector := aggregate.NewCollector()
	runner := bench.New(bench.Options{
		Library:    library,
		Categories: cfg.Categories,
		Selection:  selection,
		Executor:   exec,
		Session:    auth.NewSession(cfg.BaseURL, cfg.Auth),
		Reporter:   reporter,
		Collector:  collector,
	})

	result := runner.Run(ctx)
	report := output.NewRunReport(result, collector)

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, report)
	}

	if cfg.ExportPath != "" {
		if err := output.ExportReport(cfg.ExportPath, report); err != nil {
			return err
		}
	}

	if result.FailedUnits > 0 {
		return fmt.Errorf("%d benchmark unit(s) failed", result.FailedUnits)
	}
	return nil
}

// newTokenSource picks the refresh strategy for token mode. Credential mode
// needs no source; the gateway attaches basic auth per call.
func newTokenSource(authCfg config.AuthConfig) auth.TokenSource {
	if authCfg.Mode != config.AuthModeToken {
		return nil
	}
	if authCfg.TokenURL != "" {
		return auth.NewEndpointTokenSource(authCfg.TokenURL, authCfg.ClientID, authCfg.ClientSecret, authCfg.Token)
	}
	return auth.NewStaticTokenSource(authCfg.Token)
}

// failureLoggingReporter mirrors failed unit events to stderr while passing
// everything through to the wrapped reporter.
type failureLoggingReporter struct {
	mu   sync.Mutex
	next progress.Reporter
}

func (l *failureLoggingReporter) UnitEvent(ev progress.Event) {
	if ev.Status == progress.StatusFailed {
		l.mu.Lock()
		fmt.Fprintf(os.Stderr, "[querybench] unit %s failed: %s\n", ev.UnitID, ev.Err)
		l.mu.Unlock()
	}
	l.next.UnitEvent(ev)
}

func (l *failureLoggingReporter) RunComplete(summary aggregate.Summary) {
	l.next.RunComplete(summary)
}
