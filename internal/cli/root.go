package cli

import (
	"context"
	"fmt"

	"github.com/arnavsurve/pipctl/internal/config"
	"github.com/arnavsurve/pipctl/internal/logging"
	"github.com/arnavsurve/pipctl/internal/process"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
	rootCmd *cobra.Command
)

func init() {
	cfg = config.Default()
	logger = logging.NewOrNop(logging.DefaultConfig())

	rootCmd = &cobra.Command{
		Use:   "pipctl",
		Short: "Picture-in-picture session control for Apple simulators",
		Long: `pipctl checks whether a device can present picture-in-picture video and drives
a single PiP session on it: configure once, then start and stop at will.

Common workflows:
  pipctl check                      Report PiP support and device info
  pipctl session -b com.example.app Configure, then start/stop interactively
  pipctl cycle -b com.example.app   Configure, start, stop, start again
  pipctl devices list               Show simulators and their PiP support

Environment:
  PIPCTL_BACKEND, PIPCTL_DEVICE, PIPCTL_BUNDLE_ID, PIPCTL_CONFIGURE_TIMEOUT,
  PIPCTL_METRICS_ADDR, LOG_LEVEL, LOG_DEV`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			process.SetGlobalVerbose(verbose)

			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded

			l, err := logging.New(logging.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
			})
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show underlying commands")
	flags.String("backend", "", "Platform backend (simulator, host)")
	flags.StringP("device", "d", "", "Target simulator name or UDID")
	flags.StringP("bundle-id", "b", "", "Bundle ID of the host app that presents the video")
	flags.Duration("configure-timeout", 0, "Bound on resource acquisition (0 = none)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the environment, lets explicit flags win, then validates.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// applyFlags overrides env configuration with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		c.Platform.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("device") {
		c.Platform.Device, _ = flags.GetString("device")
	}
	if flags.Changed("bundle-id") {
		c.Platform.BundleID, _ = flags.GetString("bundle-id")
	}
	if flags.Changed("configure-timeout") {
		c.Session.ConfigureTimeout, _ = flags.GetDuration("configure-timeout")
	}
	if flags.Changed("log-level") {
		c.Logging.Level, _ = flags.GetString("log-level")
	}
}

func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(cycleCmd())
	rootCmd.AddCommand(devicesCmd())

	return rootCmd.ExecuteContext(ctx)
}
