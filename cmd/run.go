package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movemut/movemut/internal/domain"
	m "github.com/movemut/movemut/internal/model"
)

var runParallelFlag int
var runShardFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation testing",
		Long: `Generate mutants for the package under test, execute the judge for each
one in parallel, and write a mutation report.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shardIndex, totalShards := parseShardFlag(runShardFlag)

			modules, functions, include, exclude, err := filtersFromConfig()
			if err != nil {
				return err
			}

			return workflow.Run(cmd.Context(), domain.RunArgs{
				ModelPath:        m.Path(viper.GetString(modelConfigKey)),
				DumpCommand:      viper.GetString(dumpCommandConfigKey),
				PackageRoot:      m.Path(viper.GetString(packageConfigKey)),
				Reports:          m.Path(viper.GetString(outputFlagName)),
				Workers:          viper.GetInt(parallelConfigKey),
				MutantTimeout:    viper.GetDuration(mutantTimeoutConfigKey),
				GlobalTimeout:    viper.GetDuration(globalTimeoutConfigKey),
				ShardIndex:       shardIndex,
				TotalShards:      totalShards,
				Modules:          modules,
				Functions:        functions,
				IncludeOperators: include,
				ExcludeOperators: exclude,
				JudgeCommand:     viper.GetString(judgeConfigKey),
				Policy: m.ScorePolicy{
					CountBuildErrors: viper.GetBool(countBuildErrsKey),
				},
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().Duration(mutantTimeoutFlagName, viper.GetDuration(mutantTimeoutConfigKey), "timeout for a single judge invocation")
	bindFlagToConfig(cmd.Flags().Lookup(mutantTimeoutFlagName), mutantTimeoutConfigKey)

	cmd.Flags().Duration(globalTimeoutFlagName, viper.GetDuration(globalTimeoutConfigKey), "deadline for the whole run (0 = none)")
	bindFlagToConfig(cmd.Flags().Lookup(globalTimeoutFlagName), globalTimeoutConfigKey)

	cmd.Flags().StringP(modulesFlagName, "m", viper.GetString(modulesConfigKey), "modules to mutate (all, or a comma-separated list)")
	bindFlagToConfig(cmd.Flags().Lookup(modulesFlagName), modulesConfigKey)

	cmd.Flags().StringP(functionsFlagName, "f", viper.GetString(functionsConfigKey), "functions to mutate (all, or a comma-separated list)")
	bindFlagToConfig(cmd.Flags().Lookup(functionsFlagName), functionsConfigKey)

	cmd.Flags().StringSlice(operatorsFlagName, viper.GetStringSlice(operatorsConfigKey), "operator kinds to apply (default: every kind)")
	bindFlagToConfig(cmd.Flags().Lookup(operatorsFlagName), operatorsConfigKey)

	cmd.Flags().StringSlice(skipOperatorsFlagName, viper.GetStringSlice(skipOperatorsConfigKey), "operator kinds to skip")
	bindFlagToConfig(cmd.Flags().Lookup(skipOperatorsFlagName), skipOperatorsConfigKey)

	cmd.Flags().String(judgeFlagName, viper.GetString(judgeConfigKey), "judge command template ({root} and {filter} are substituted)")
	bindFlagToConfig(cmd.Flags().Lookup(judgeFlagName), judgeConfigKey)

	cmd.Flags().Bool(countBuildErrsFlag, viper.GetBool(countBuildErrsKey), "count non-compiling mutants in the score denominator")
	bindFlagToConfig(cmd.Flags().Lookup(countBuildErrsFlag), countBuildErrsKey)

	cmd.Flags().StringVarP(&runShardFlag, "shard", "s", "", "shard index and total in the format INDEX/TOTAL (e.g. 0/3)")
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
