package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movemut/movemut/internal/domain"
	m "github.com/movemut/movemut/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [report-file]",
		Short: "View a previously generated mutation report",
		Long:  "Render a stored mutation report. Without an argument the newest report in the output directory is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report m.Path
			if len(args) == 1 {
				report = m.Path(args[0])
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{
				Report:  report,
				Reports: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
