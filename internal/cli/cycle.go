package cli

import (
	"time"

	"github.com/spf13/cobra"
)

func cycleCmd() *cobra.Command {
	var (
		hold   time.Duration
		repeat int
	)

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Configure once, then start and stop PiP repeatedly",
		Long: `Configure picture-in-picture, then start it, hold, and stop it --repeat times.
Every start after the first reuses the configured session.`,
		Example: `  pipctl cycle -b com.example.player
  pipctl cycle -b com.example.player --hold 5s --repeat 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.setup(ctx); err != nil {
				return a.fail(err)
			}

			for i := 0; i < repeat; i++ {
				if err := a.start(ctx); err != nil {
					return a.fail(err)
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(hold):
				}

				a.stop(ctx)
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&hold, "hold", 2*time.Second, "How long to keep PiP on screen each cycle")
	cmd.Flags().IntVar(&repeat, "repeat", 2, "Number of start/stop cycles")

	return cmd
}
