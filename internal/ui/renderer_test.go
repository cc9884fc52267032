package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewRendererTo(&buf), &buf
}

func TestAlertShowsLiteralMessage(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.Alert(errors.New("PiP is not supported on this device"))
	assert.Equal(t, "Error: PiP is not supported on this device\n", buf.String())
}

func TestRenderSupport(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.RenderSupport(Support{Supported: false, Model: "iPhone", SystemName: "iOS", SystemVersion: "17.2", Simulator: true})

	out := buf.String()
	assert.Contains(t, out, "Picture-in-Picture: not supported")
	assert.Contains(t, out, "iPhone")
	assert.Contains(t, out, "iOS 17.2")
	assert.Contains(t, out, "true")
}

func TestRenderDeviceListKeepsPlatformOrder(t *testing.T) {
	r, buf := newTestRenderer(t)

	r.RenderDeviceList([]DeviceInfo{
		{Name: "iPhone 15", Platform: "ios", State: "Booted", OSVersion: "17.2", PiP: true},
		{Name: "Apple TV", Platform: "tvos", State: "Shutdown", OSVersion: "17.2", PiP: true},
		{Name: "iPad Air", Platform: "ios", State: "Shutdown", OSVersion: "17.2", PiP: true},
	})

	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("IOS")), bytes.Index([]byte(out), []byte("TVOS")))
	assert.Contains(t, out, "iPhone 15 17.2 [Booted] pip")
}

func TestRenderEmptyDeviceList(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.RenderDeviceList(nil)
	assert.Contains(t, buf.String(), "No devices found")
}
