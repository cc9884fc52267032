// Package simulator drives picture-in-picture on a booted Apple simulator.
//
// The presentation resource is a host app running in the simulator. The app
// owns the AVPlayerLayer and its AVPictureInPictureController, and toggles
// picture-in-picture when it observes the Darwin notifications
// "<bundle>.pip.start" and "<bundle>.pip.stop".
package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnavsurve/pipctl/internal/capability"
	"github.com/arnavsurve/pipctl/internal/device"
	"github.com/arnavsurve/pipctl/internal/pip"
	"go.uber.org/zap"
)

// ErrNoBundle is returned by Acquire when no host app is configured.
var ErrNoBundle = errors.New("no host app bundle ID configured")

// Backend is both the capability probe and the presentation platform for one simulator.
type Backend struct {
	devices  *device.Manager
	target   string
	bundleID string
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// New returns a Backend targeting nameOrUDID, or the default simulator when empty.
func New(devices *device.Manager, nameOrUDID, bundleID string, opts ...Option) *Backend {
	b := &Backend{devices: devices, target: nameOrUDID, bundleID: bundleID, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.Named("simulator")
	return b
}

// resolve looks the device up on every call; simulators change state underneath us.
func (b *Backend) resolve(ctx context.Context) (*device.Device, error) {
	return b.devices.Resolve(ctx, b.target)
}

func (b *Backend) PictureInPictureSupported(ctx context.Context) (bool, error) {
	dev, err := b.resolve(ctx)
	if err != nil {
		return false, err
	}
	return dev.SupportsPictureInPicture(), nil
}

func (b *Backend) Describe(ctx context.Context) (capability.DeviceInfo, error) {
	dev, err := b.resolve(ctx)
	if err != nil {
		return capability.DeviceInfo{IsSimulator: true}, err
	}
	return capability.DeviceInfo{
		Model:         string(dev.Family),
		SystemName:    dev.Platform.SystemName(),
		SystemVersion: dev.OSVersion,
		IsSimulator:   true,
	}, nil
}

// Acquire boots the simulator if needed and launches the host app.
func (b *Backend) Acquire(ctx context.Context) (pip.Resource, error) {
	if b.bundleID == "" {
		return nil, ErrNoBundle
	}

	dev, err := b.resolve(ctx)
	if err != nil {
		return nil, err
	}

	if err := b.devices.Boot(ctx, dev); err != nil {
		return nil, err
	}

	// A stale instance would keep its own controller; start clean. simctl
	// fails here when the app is not running, which is the common case.
	if err := b.devices.Terminate(ctx, dev, b.bundleID); err != nil {
		b.logger.Debug("terminate before launch",
			zap.String("udid", dev.UDID),
			zap.String("bundle", b.bundleID),
			zap.Error(err))
	}

	pid, err := b.devices.Launch(ctx, dev, b.bundleID, nil)
	if err != nil {
		return nil, err
	}

	return &hostApp{devices: b.devices, device: dev, bundleID: b.bundleID, pid: pid}, nil
}

type hostApp struct {
	devices  *device.Manager
	device   *device.Device
	bundleID string
	pid      int
}

func (a *hostApp) Enable(ctx context.Context) error {
	return a.devices.Notify(ctx, a.device, a.bundleID+".pip.start")
}

func (a *hostApp) Disable(ctx context.Context) error {
	return a.devices.Notify(ctx, a.device, a.bundleID+".pip.stop")
}

func (a *hostApp) Release(ctx context.Context) error {
	return a.devices.Terminate(ctx, a.device, a.bundleID)
}

func (a *hostApp) String() string {
	return fmt.Sprintf("%s on %s (pid %d)", a.bundleID, a.device.Name, a.pid)
}
