package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Renderer handles terminal output with colors and spinners
type Renderer struct {
	out io.Writer

	mu          sync.Mutex
	spinning    bool
	spinnerDone chan struct{}
}

// NewRenderer creates a Renderer writing to stderr
func NewRenderer() *Renderer {
	return NewRendererTo(os.Stderr)
}

// NewRendererTo creates a Renderer writing to w
func NewRendererTo(w io.Writer) *Renderer {
	return &Renderer{out: w}
}

// Colors
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StartSpinner starts an animated spinner with a message
func (r *Renderer) StartSpinner(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinning {
		return
	}

	r.spinning = true
	r.spinnerDone = make(chan struct{})
	done := r.spinnerDone

	msg := fmt.Sprintf(format, args...)

	go func() {
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.mu.Lock()
				fmt.Fprintf(r.out, "\r%s %s", cyan(spinnerFrames[frame]), msg)
				r.mu.Unlock()
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// StopSpinner stops the spinner and clears its line
func (r *Renderer) StopSpinner() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.spinning {
		return
	}

	close(r.spinnerDone)
	r.spinning = false

	fmt.Fprint(r.out, "\r\033[K")
}

func (r *Renderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Success prints a success message
func (r *Renderer) Success(format string, args ...any) {
	r.printf("%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (r *Renderer) Warning(format string, args ...any) {
	r.printf("%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (r *Renderer) Info(format string, args ...any) {
	r.printf("  %s\n", fmt.Sprintf(format, args...))
}

// Dim prints dimmed/secondary text
func (r *Renderer) Dim(format string, args ...any) {
	r.printf("  %s\n", dim(fmt.Sprintf(format, args...)))
}

// Alert shows err's message the way the app shell shows a blocking alert.
func (r *Renderer) Alert(err error) {
	r.printf("%s %s\n", red(bold("Error:")), err.Error())
}

// Support is what the shell shows about device capability
type Support struct {
	Supported     bool
	Model         string
	SystemName    string
	SystemVersion string
	Simulator     bool
}

// RenderSupport prints the support report
func (r *Renderer) RenderSupport(s Support) {
	status := red("not supported")
	if s.Supported {
		status = green("supported")
	}
	r.printf("%s %s\n", bold("Picture-in-Picture:"), status)
	r.printf("  %-16s %s\n", "Model", s.Model)
	r.printf("  %-16s %s %s\n", "System", s.SystemName, s.SystemVersion)
	r.printf("  %-16s %t\n", "Simulator", s.Simulator)
}

// DeviceInfo contains device information for display
type DeviceInfo struct {
	Name      string
	UDID      string
	State     string
	OSVersion string
	Platform  string
	PiP       bool
}

// RenderDeviceList prints a formatted list of devices
func (r *Renderer) RenderDeviceList(devices []DeviceInfo) {
	if len(devices) == 0 {
		r.Info("No devices found")
		return
	}

	byPlatform := make(map[string][]DeviceInfo)
	var order []string
	for _, d := range devices {
		if _, ok := byPlatform[d.Platform]; !ok {
			order = append(order, d.Platform)
		}
		byPlatform[d.Platform] = append(byPlatform[d.Platform], d)
	}

	for _, platform := range order {
		r.printf("\n%s\n", bold(strings.ToUpper(platform)))
		for _, d := range byPlatform[platform] {
			stateColor := dim
			if d.State == "Booted" {
				stateColor = green
			}
			pip := dim("no pip")
			if d.PiP {
				pip = cyan("pip")
			}
			r.printf("  %s %s %s %s\n",
				d.Name,
				dim(d.OSVersion),
				stateColor(fmt.Sprintf("[%s]", d.State)),
				pip,
			)
		}
	}
	r.printf("\n")
}
