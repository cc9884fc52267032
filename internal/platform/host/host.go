// Package host describes the machine pipctl itself runs on. A terminal
// process has no AVPlayerLayer to hand to the system, so the host never
// supports picture-in-picture.
package host

import (
	"context"
	"errors"
	"runtime"

	"github.com/arnavsurve/pipctl/internal/capability"
	"github.com/arnavsurve/pipctl/internal/pip"
)

var ErrNoPresenter = errors.New("host has no picture-in-picture presenter")

type Backend struct{}

func New() *Backend { return &Backend{} }

func (*Backend) PictureInPictureSupported(context.Context) (bool, error) {
	return false, nil
}

func (*Backend) Describe(context.Context) (capability.DeviceInfo, error) {
	u, err := uname()
	if err != nil {
		return capability.DeviceInfo{Model: runtime.GOARCH, SystemName: systemName(runtime.GOOS)}, err
	}
	return capability.DeviceInfo{
		Model:         u.machine,
		SystemName:    systemName(u.sysname),
		SystemVersion: u.release,
	}, nil
}

func (*Backend) Acquire(context.Context) (pip.Resource, error) {
	return nil, ErrNoPresenter
}

type unameInfo struct {
	sysname string
	release string
	machine string
}

func systemName(s string) string {
	switch s {
	case "Darwin", "darwin":
		return "macOS"
	case "Linux", "linux":
		return "Linux"
	case "windows":
		return "Windows"
	default:
		return s
	}
}
