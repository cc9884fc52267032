package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnavsurve/pipctl/internal/capability"
	"github.com/arnavsurve/pipctl/internal/config"
	"github.com/arnavsurve/pipctl/internal/device"
	"github.com/arnavsurve/pipctl/internal/monitoring"
	"github.com/arnavsurve/pipctl/internal/pip"
	"github.com/arnavsurve/pipctl/internal/platform/host"
	"github.com/arnavsurve/pipctl/internal/platform/simulator"
	"github.com/arnavsurve/pipctl/internal/ui"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// backend is a platform that can both describe itself and present PiP.
type backend interface {
	capability.Probe
	pip.Platform
}

// app is the shell around one Coordinator. It owns the coordinator for the
// lifetime of the command and tears it down on close.
type app struct {
	detector    *capability.Detector
	coordinator *pip.Coordinator
	renderer    *ui.Renderer
	registry    *prometheus.Registry
	logger      *zap.Logger
}

func newBackend(c *config.Config, logger *zap.Logger) (backend, error) {
	switch c.Platform.Backend {
	case config.BackendSimulator:
		return simulator.New(device.NewManager(), c.Platform.Device, c.Platform.BundleID,
			simulator.WithLogger(logger)), nil
	case config.BackendHost:
		return host.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Platform.Backend)
	}
}

func newApp(c *config.Config, logger *zap.Logger) (*app, error) {
	b, err := newBackend(c, logger)
	if err != nil {
		return nil, err
	}
	return newAppWith(b, c, logger, ui.NewRenderer()), nil
}

func newAppWith(b backend, c *config.Config, logger *zap.Logger, renderer *ui.Renderer) *app {
	registry := prometheus.NewRegistry()
	detector := capability.NewDetector(b, logger)
	coordinator := pip.New(detector, b,
		pip.WithLogger(logger),
		pip.WithMetrics(monitoring.NewMetrics(registry)),
		pip.WithConfigureTimeout(c.Session.ConfigureTimeout),
	)

	return &app{
		detector:    detector,
		coordinator: coordinator,
		renderer:    renderer,
		registry:    registry,
		logger:      logger,
	}
}

// setup follows the shell contract: check support once, render it, and
// configure only when supported.
func (a *app) setup(ctx context.Context) error {
	result := a.detector.CheckSupport(ctx)
	a.renderer.RenderSupport(supportView(result))

	if !result.IsSupported {
		return pip.ErrNotSupported
	}

	a.renderer.StartSpinner("Configuring picture-in-picture...")
	err := a.coordinator.Configure(ctx)
	a.renderer.StopSpinner()
	if err != nil {
		return err
	}

	a.renderer.Success("PiP configured")
	return nil
}

func (a *app) start(ctx context.Context) error {
	if err := a.coordinator.Start(ctx); err != nil {
		return err
	}
	a.renderer.Success("PiP started")
	return nil
}

func (a *app) stop(ctx context.Context) {
	a.coordinator.Stop(ctx)
	a.renderer.Success("PiP stopped")
}

// close stops and releases the session. It runs on a fresh context so
// cleanup still happens after the command's context is cancelled.
func (a *app) close() {
	ctx := context.Background()
	a.coordinator.Stop(ctx)
	if err := a.coordinator.Close(ctx); err != nil {
		a.renderer.Warning("Teardown: %v", err)
	}
}

// fail alerts err and returns it tagged with its code for the exit message.
func (a *app) fail(err error) error {
	a.renderer.Alert(err)
	return &codedError{code: pip.Code(err), err: err}
}

type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.code + ": " + e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// IsAlerted reports whether err has already been shown to the user.
func IsAlerted(err error) bool {
	var ce *codedError
	return errors.As(err, &ce)
}

func supportView(r capability.SupportResult) ui.Support {
	return ui.Support{
		Supported:     r.IsSupported,
		Model:         r.DeviceInfo.Model,
		SystemName:    r.DeviceInfo.SystemName,
		SystemVersion: r.DeviceInfo.SystemVersion,
		Simulator:     r.DeviceInfo.IsSimulator,
	}
}
