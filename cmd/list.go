package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/movemut/movemut/internal/domain"
	m "github.com/movemut/movemut/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the mutants a run would execute",
		Long:  "Generate mutants for the selected scope and show counts per file and operator, without running the judge.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modules, functions, include, exclude, err := filtersFromConfig()
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				ModelPath:        m.Path(viper.GetString(modelConfigKey)),
				DumpCommand:      viper.GetString(dumpCommandConfigKey),
				PackageRoot:      m.Path(viper.GetString(packageConfigKey)),
				Modules:          modules,
				Functions:        functions,
				IncludeOperators: include,
				ExcludeOperators: exclude,
			})
		},
	}

	cmd.Flags().StringP(modulesFlagName, "m", viper.GetString(modulesConfigKey), "modules to mutate (all, or a comma-separated list)")
	bindFlagToConfig(cmd.Flags().Lookup(modulesFlagName), modulesConfigKey)

	cmd.Flags().StringP(functionsFlagName, "f", viper.GetString(functionsConfigKey), "functions to mutate (all, or a comma-separated list)")
	bindFlagToConfig(cmd.Flags().Lookup(functionsFlagName), functionsConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
