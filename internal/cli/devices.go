package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arnavsurve/pipctl/internal/device"
	"github.com/arnavsurve/pipctl/internal/process"
	"github.com/arnavsurve/pipctl/internal/ui"
	"github.com/spf13/cobra"
)

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Inspect simulators",
		Long:  `List simulators with their picture-in-picture support, and boot them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if !process.CommandExists("xcrun") {
				return fmt.Errorf("xcrun not found: the devices commands need Xcode command line tools")
			}
			return nil
		},
	}

	cmd.AddCommand(devicesListCmd())
	cmd.AddCommand(devicesBootCmd())

	return cmd
}

type deviceReport struct {
	*device.Device
	PiP bool `json:"pip_supported"`
}

func devicesListCmd() *cobra.Command {
	var (
		platform string
		booted   bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available simulators",
		Example: `  pipctl devices list
  pipctl devices list --platform ios
  pipctl devices list --booted
  pipctl devices list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := device.NewManager()

			devices, err := mgr.List(ctx, device.Platform(platform), booted)
			if err != nil {
				return fmt.Errorf("failed to list devices: %w", err)
			}

			if jsonOut {
				reports := make([]deviceReport, len(devices))
				for i, d := range devices {
					reports[i] = deviceReport{Device: d, PiP: d.SupportsPictureInPicture()}
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}

			displayDevices := make([]ui.DeviceInfo, len(devices))
			for i, d := range devices {
				displayDevices[i] = ui.DeviceInfo{
					Name:      d.Name,
					UDID:      d.UDID,
					State:     string(d.State),
					OSVersion: d.OSVersion,
					Platform:  string(d.Platform),
					PiP:       d.SupportsPictureInPicture(),
				}
			}

			ui.NewRenderer().RenderDeviceList(displayDevices)
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Filter by platform (ios, watchos, tvos, visionos)")
	cmd.Flags().BoolVar(&booted, "booted", false, "Show only booted devices")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func devicesBootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boot <device>",
		Short: "Boot a simulator",
		Long:  `Boot a simulator by name or UDID so a PiP session can target it.`,
		Example: `  pipctl devices boot "iPhone 15 Pro"
  pipctl devices boot 12345678-1234-1234-1234-123456789ABC`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr := device.NewManager()
			renderer := ui.NewRenderer()

			dev, err := mgr.Get(ctx, args[0])
			if err != nil {
				return err
			}

			renderer.StartSpinner("Booting %s...", dev.Name)
			err = mgr.Boot(ctx, dev)
			renderer.StopSpinner()
			if err != nil {
				return fmt.Errorf("failed to boot: %w", err)
			}

			renderer.Success("Booted %s", dev.Name)
			return nil
		},
	}
}
