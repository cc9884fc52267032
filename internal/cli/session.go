package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arnavsurve/pipctl/internal/pip"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func sessionCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run an interactive PiP session",
		Long: `Check support, configure picture-in-picture, then read commands from stdin:

  start       enable picture-in-picture
  stop        disable it (the session stays configured)
  status      show the session state
  configure   retry configuration after a failure
  quit        stop, release the host app, and exit`,
		Example: `  pipctl session -b com.example.player
  pipctl session -b com.example.player --metrics-addr :9100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = cfg.Session.MetricsAddr
			}
			if metricsAddr != "" {
				stopMetrics := a.serveMetrics(metricsAddr)
				defer stopMetrics()
			}

			// Configuration failures are shown but leave the prompt usable
			// so the user can retry with "configure".
			if err := a.setup(ctx); err != nil {
				a.renderer.Alert(err)
			}

			a.renderer.Dim("Commands: start, stop, status, configure, quit")
			return a.repl(ctx, os.Stdin)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func (a *app) repl(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if done := a.handle(ctx, line); done {
				return nil
			}
		}
	}
}

// handle runs one session command and reports whether the session should end.
func (a *app) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "":
	case "start":
		if err := a.start(ctx); err != nil {
			a.renderer.Alert(err)
		}
	case "stop":
		a.stop(ctx)
	case "status":
		a.renderStatus()
	case "configure":
		if err := a.coordinator.Configure(ctx); err != nil {
			a.renderer.Alert(err)
		} else {
			a.renderer.Success("PiP configured")
		}
	case "quit", "exit":
		return true
	default:
		a.renderer.Warning("Unknown command %q", line)
	}
	return false
}

func (a *app) renderStatus() {
	status := a.coordinator.Status()
	if status.State == pip.StateFailed && status.Err != nil {
		a.renderer.Info("State: %s (%s)", status.State, status.Err)
		return
	}
	a.renderer.Info("State: %s", status.State)
}

// serveMetrics exposes the session's registry and returns a shutdown func.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.renderer.Dim("Metrics on http://%s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
