package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report picture-in-picture support",
		Long: `Check whether the target device can present picture-in-picture and describe it.
The check never fails: anything that prevents the query reports "not supported".`,
		Example: `  pipctl check
  pipctl check --json
  pipctl check --backend host
  pipctl check -d "iPad Pro (12.9-inch)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			result := a.detector.CheckSupport(cmd.Context())

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			a.renderer.RenderSupport(supportView(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}
