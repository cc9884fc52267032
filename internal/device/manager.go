package device

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arnavsurve/pipctl/internal/process"
	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when no simulator matches a lookup.
var ErrNotFound = errors.New("device not found")

type Manager struct {
	runner process.Commander
}

func NewManager() *Manager {
	return NewManagerWithRunner(process.NewRunner())
}

// NewManagerWithRunner returns a Manager that issues simctl commands through runner.
func NewManagerWithRunner(runner process.Commander) *Manager {
	return &Manager{runner: runner}
}

func (m *Manager) simctl(ctx context.Context, args ...string) ([]byte, error) {
	return m.runner.RunSilent(ctx, "xcrun", append([]string{"simctl"}, args...))
}

func (m *Manager) List(ctx context.Context, platform Platform, onlyBooted bool) ([]*Device, error) {
	output, err := m.simctl(ctx, "list", "devices", "-j")
	if err != nil {
		return nil, fmt.Errorf("simctl list: %w", err)
	}

	var devices []*Device

	gjson.ParseBytes(output).Get("devices").ForEach(func(runtime, devicesArray gjson.Result) bool {
		plat, version := parseRuntime(runtime.String())
		if platform != "" && plat != platform {
			return true
		}

		devicesArray.ForEach(func(_, dev gjson.Result) bool {
			if !dev.Get("isAvailable").Bool() {
				return true
			}

			state := DeviceState(dev.Get("state").String())
			if onlyBooted && state != StateBooted {
				return true
			}

			name := dev.Get("name").String()
			typeID := dev.Get("deviceTypeIdentifier").String()
			family := familyFromIdentifier(typeID)
			if family == FamilyUnknown {
				family = familyFromIdentifier(name)
			}

			devices = append(devices, &Device{
				UDID:         dev.Get("udid").String(),
				Name:         name,
				DeviceTypeID: typeID,
				Family:       family,
				Platform:     plat,
				OSVersion:    version,
				State:        state,
				IsAvailable:  true,
			})
			return true
		})
		return true
	})

	return devices, nil
}

// Get finds a device by UDID (exact), name (exact, case-insensitive), or name substring.
func (m *Manager) Get(ctx context.Context, nameOrUDID string) (*Device, error) {
	devices, err := m.List(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return match(devices, nameOrUDID)
}

// Resolve picks the target simulator: nameOrUDID when given, otherwise the
// first booted device, otherwise the first iOS device.
func (m *Manager) Resolve(ctx context.Context, nameOrUDID string) (*Device, error) {
	if nameOrUDID != "" {
		return m.Get(ctx, nameOrUDID)
	}

	devices, err := m.List(ctx, "", false)
	if err != nil {
		return nil, err
	}

	for _, d := range devices {
		if d.State == StateBooted {
			return d, nil
		}
	}
	for _, d := range devices {
		if d.Platform == PlatformIOS {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: no booted or iOS simulator available", ErrNotFound)
}

func match(devices []*Device, nameOrUDID string) (*Device, error) {
	for _, d := range devices {
		if d.UDID == nameOrUDID {
			return d, nil
		}
	}

	needle := strings.ToLower(nameOrUDID)
	for _, d := range devices {
		if strings.ToLower(d.Name) == needle {
			return d, nil
		}
	}

	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrUDID)
}

func (m *Manager) Boot(ctx context.Context, device *Device) error {
	if device.State == StateBooted {
		return nil
	}

	if _, err := m.simctl(ctx, "boot", device.UDID); err != nil {
		return fmt.Errorf("boot %s: %w", device.Name, err)
	}
	device.State = StateBooted

	return nil
}

// Launch starts an app and returns its PID (0 if unknown).
func (m *Manager) Launch(ctx context.Context, device *Device, bundleID string, args []string) (int, error) {
	cmdArgs := []string{"launch", device.UDID, bundleID}
	cmdArgs = append(cmdArgs, args...)

	output, err := m.simctl(ctx, cmdArgs...)
	if err != nil {
		return 0, fmt.Errorf("launch %s: %w", bundleID, err)
	}

	parts := strings.Split(strings.TrimSpace(string(output)), ": ")
	if len(parts) != 2 {
		return 0, nil
	}
	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, nil
	}
	return pid, nil
}

func (m *Manager) Terminate(ctx context.Context, device *Device, bundleID string) error {
	if _, err := m.simctl(ctx, "terminate", device.UDID, bundleID); err != nil {
		return fmt.Errorf("terminate %s: %w", bundleID, err)
	}
	return nil
}

// Notify posts a Darwin notification inside the simulator.
func (m *Manager) Notify(ctx context.Context, device *Device, name string) error {
	if _, err := m.simctl(ctx, "spawn", device.UDID, "notifyutil", "-p", name); err != nil {
		return fmt.Errorf("notify %s: %w", name, err)
	}
	return nil
}

func parseRuntime(runtime string) (Platform, string) {
	runtime = strings.ToLower(runtime)

	var platform Platform
	switch {
	case strings.Contains(runtime, "xros"), strings.Contains(runtime, "visionos"):
		platform = PlatformVisionOS
	case strings.Contains(runtime, "watchos"):
		platform = PlatformWatchOS
	case strings.Contains(runtime, "tvos"):
		platform = PlatformTVOS
	case strings.Contains(runtime, "macos"):
		platform = PlatformMacOS
	case strings.Contains(runtime, "ios"):
		platform = PlatformIOS
	default:
		platform = Platform("unknown")
	}

	version := ""
	parts := strings.Split(runtime, "-")
	if len(parts) >= 2 {
		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] != "" && parts[i][0] >= '0' && parts[i][0] <= '9' {
				if version == "" {
					version = parts[i]
				} else {
					version = parts[i] + "." + version
				}
			} else {
				break
			}
		}
	}

	return platform, version
}
