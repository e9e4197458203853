package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movemut/movemut/internal/domain"
	m "github.com/movemut/movemut/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [report-files...]",
		Short: "Merge sharded reports into one",
		Long: `Merge reports produced by sharded runs into a single report. Without
arguments every report in the output directory is merged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]m.Path, 0, len(args))
			for _, arg := range args {
				inputs = append(inputs, m.Path(arg))
			}

			return workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs:  inputs,
				Reports: m.Path(viper.GetString(outputFlagName)),
				Policy: m.ScorePolicy{
					CountBuildErrors: viper.GetBool(countBuildErrsKey),
				},
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
