// Package capability answers whether the current device can present
// picture-in-picture video, and describes the device.
package capability

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Detector wraps a Probe and normalizes every failure into "unsupported".
// It holds no state beyond its collaborators and is safe for concurrent use.
type Detector struct {
	probe  Probe
	logger *zap.Logger
}

// NewDetector returns a Detector over probe. A nil probe always reports unsupported.
func NewDetector(probe Probe, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{probe: probe, logger: logger.Named("capability")}
}

// CheckSupport never fails.
func (d *Detector) CheckSupport(ctx context.Context) SupportResult {
	if d == nil || d.probe == nil {
		return SupportResult{}
	}

	var result SupportResult

	info, err := d.describe(ctx)
	if err != nil {
		d.logger.Warn("device descriptors unavailable", zap.Error(err))
	} else {
		result.DeviceInfo = info
	}

	supported, err := d.supported(ctx)
	if err != nil {
		d.logger.Warn("capability query failed, reporting unsupported", zap.Error(err))
		supported = false
	}
	result.IsSupported = supported

	d.logger.Debug("support checked",
		zap.Bool("supported", result.IsSupported),
		zap.String("model", result.DeviceInfo.Model),
		zap.String("system", result.DeviceInfo.SystemName+" "+result.DeviceInfo.SystemVersion),
		zap.Bool("simulator", result.DeviceInfo.IsSimulator),
	)

	return result
}

func (d *Detector) describe(ctx context.Context) (info DeviceInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info, err = DeviceInfo{}, fmt.Errorf("describe panicked: %v", r)
		}
	}()
	return d.probe.Describe(ctx)
}

func (d *Detector) supported(ctx context.Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("capability query panicked: %v", r)
		}
	}()
	return d.probe.PictureInPictureSupported(ctx)
}
