package device

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simctlDevicesJSON = `{
  "devices": {
    "com.apple.CoreSimulator.SimRuntime.iOS-17-2": [
      {"udid": "AAA", "name": "iPhone 15 Pro", "state": "Shutdown", "isAvailable": true,
       "deviceTypeIdentifier": "com.apple.CoreSimulator.SimDeviceType.iPhone-15-Pro"},
      {"udid": "BBB", "name": "iPad Air (5th generation)", "state": "Booted", "isAvailable": true,
       "deviceTypeIdentifier": "com.apple.CoreSimulator.SimDeviceType.iPad-Air-5th-generation"},
      {"udid": "CCC", "name": "iPhone 8", "state": "Shutdown", "isAvailable": false}
    ],
    "com.apple.CoreSimulator.SimRuntime.watchOS-10-2": [
      {"udid": "DDD", "name": "Apple Watch Series 9 (45mm)", "state": "Shutdown", "isAvailable": true,
       "deviceTypeIdentifier": "com.apple.CoreSimulator.SimDeviceType.Apple-Watch-Series-9-45mm"}
    ],
    "com.apple.CoreSimulator.SimRuntime.xrOS-1-0": [
      {"udid": "EEE", "name": "Apple Vision Pro", "state": "Shutdown", "isAvailable": true}
    ]
  }
}`

type fakeCommander struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (f *fakeCommander) RunSilent(_ context.Context, name string, args []string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	key := ""
	if len(args) > 1 {
		key = args[1]
	}
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}

func (f *fakeCommander) lastCall() string {
	if len(f.calls) == 0 {
		return ""
	}
	return strings.Join(f.calls[len(f.calls)-1], " ")
}

func newFakeManager() (*Manager, *fakeCommander) {
	fc := &fakeCommander{outputs: map[string]string{"list": simctlDevicesJSON}, errs: map[string]error{}}
	return NewManagerWithRunner(fc), fc
}

func TestListParsesAvailableDevices(t *testing.T) {
	mgr, _ := newFakeManager()

	devices, err := mgr.List(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, devices, 4)

	byUDID := map[string]*Device{}
	for _, d := range devices {
		byUDID[d.UDID] = d
	}

	assert.NotContains(t, byUDID, "CCC")
	assert.Equal(t, FamilyIPhone, byUDID["AAA"].Family)
	assert.Equal(t, "17.2", byUDID["AAA"].OSVersion)
	assert.Equal(t, PlatformIOS, byUDID["AAA"].Platform)
	assert.Equal(t, FamilyIPad, byUDID["BBB"].Family)
	assert.Equal(t, StateBooted, byUDID["BBB"].State)
	assert.Equal(t, PlatformWatchOS, byUDID["DDD"].Platform)
	assert.Equal(t, FamilyVision, byUDID["EEE"].Family, "family falls back to the device name")
	assert.Equal(t, PlatformVisionOS, byUDID["EEE"].Platform)
}

func TestListFilters(t *testing.T) {
	mgr, _ := newFakeManager()

	booted, err := mgr.List(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, booted, 1)
	assert.Equal(t, "BBB", booted[0].UDID)

	watches, err := mgr.List(context.Background(), PlatformWatchOS, false)
	require.NoError(t, err)
	require.Len(t, watches, 1)
	assert.Equal(t, "DDD", watches[0].UDID)
}

func TestListPropagatesSimctlFailure(t *testing.T) {
	mgr, fc := newFakeManager()
	fc.errs["list"] = errors.New("xcrun: not found")

	_, err := mgr.List(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simctl list")
}

func TestGetMatchesUDIDNameAndSubstring(t *testing.T) {
	mgr, _ := newFakeManager()
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"AAA", "AAA"},
		{"iphone 15 pro", "AAA"},
		{"ipad air", "BBB"},
		{"vision", "EEE"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d, err := mgr.Get(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.UDID)
		})
	}

	_, err := mgr.Get(ctx, "pixel")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePrefersBootedDevice(t *testing.T) {
	mgr, _ := newFakeManager()

	d, err := mgr.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "BBB", d.UDID)
}

func TestBootSkipsBootedDevice(t *testing.T) {
	mgr, fc := newFakeManager()
	ctx := context.Background()

	require.NoError(t, mgr.Boot(ctx, &Device{UDID: "BBB", State: StateBooted}))
	assert.Empty(t, fc.calls)

	dev := &Device{UDID: "AAA", Name: "iPhone 15 Pro", State: StateShutdown}
	require.NoError(t, mgr.Boot(ctx, dev))
	assert.Equal(t, "xcrun simctl boot AAA", fc.lastCall())
	assert.Equal(t, StateBooted, dev.State)
}

func TestLaunchParsesPID(t *testing.T) {
	mgr, fc := newFakeManager()
	fc.outputs["launch"] = "com.example.player: 4242\n"

	pid, err := mgr.Launch(context.Background(), &Device{UDID: "AAA"}, "com.example.player", nil)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)
}

func TestLaunchUnknownPID(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"empty", ""},
		{"no separator", "launched\n"},
		{"not a number", "com.example.player: pending\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, fc := newFakeManager()
			fc.outputs["launch"] = tt.output

			pid, err := mgr.Launch(context.Background(), &Device{UDID: "AAA"}, "com.example.player", nil)
			require.NoError(t, err)
			assert.Zero(t, pid)
		})
	}
}

func TestNotifyPostsDarwinNotification(t *testing.T) {
	mgr, fc := newFakeManager()

	require.NoError(t, mgr.Notify(context.Background(), &Device{UDID: "AAA"}, "com.example.player.pip.start"))
	assert.Equal(t, "xcrun simctl spawn AAA notifyutil -p com.example.player.pip.start", fc.lastCall())
}

func TestParseRuntime(t *testing.T) {
	tests := []struct {
		runtime  string
		platform Platform
		version  string
	}{
		{"com.apple.CoreSimulator.SimRuntime.iOS-17-0", PlatformIOS, "17.0"},
		{"com.apple.CoreSimulator.SimRuntime.tvOS-17-2", PlatformTVOS, "17.2"},
		{"com.apple.CoreSimulator.SimRuntime.watchOS-10-2", PlatformWatchOS, "10.2"},
		{"com.apple.CoreSimulator.SimRuntime.xrOS-1-0", PlatformVisionOS, "1.0"},
		{"com.apple.CoreSimulator.SimRuntime.iOS-16-4-1", PlatformIOS, "16.4.1"},
		{"garbage", Platform("unknown"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.runtime, func(t *testing.T) {
			platform, version := parseRuntime(tt.runtime)
			assert.Equal(t, tt.platform, platform)
			assert.Equal(t, tt.version, version)
		})
	}
}
