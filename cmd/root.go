// Package cmd provides the root command and CLI setup for movemut.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/movemut/movemut/internal/adapter"
	"github.com/movemut/movemut/internal/controller"
	"github.com/movemut/movemut/internal/domain"
	m "github.com/movemut/movemut/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var modelLoader adapter.ModelLoader
var reportStore adapter.ReportStore
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read and
// write reports.
var reportsOutputDirFlag string

// packageRootFlag points at the Move package under test.
var packageRootFlag string

// modelDumpFlag points at a pre-generated model dump file.
var modelDumpFlag string

// verboseFlag lifts the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	fsAdapter = adapter.NewLocalSourceFSAdapter()
	modelLoader = adapter.NewJSONModelLoader()
	reportStore = adapter.NewYAMLReportStore()
	ui = adapter.NewUI(os.Stdout, controller.IsTTY(os.Stdout))
	workflow = domain.NewWorkflow(fsAdapter, modelLoader, reportStore, ui)
}

const rootLongDescription = `movemut is a mutation testing tool for Move smart-contract packages. It
introduces small changes (mutants) into your modules and verifies that the
existing specifications and unit tests catch them. Mutants that survive point
at gaps in specification coverage.

The resolved module model is produced by the Move compiler frontend (see the
model.dump_command setting); the verdict for each mutant comes from the
configured judge command (by default the Move unit-test runner).`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "movemut",
		Short: "Move mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetBool(logVerboseKey) || verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&reportsOutputDirFlag, outputFlagName, "o",
		viper.GetString(outputFlagName),
		"output directory for mutation testing reports",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(
		&packageRootFlag, packageFlagName, "C",
		viper.GetString(packageConfigKey),
		"path to the Move package under test",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(packageFlagName), packageConfigKey)

	cmd.PersistentFlags().StringVar(
		&modelDumpFlag, modelFlagName,
		viper.GetString(modelConfigKey),
		"path to a pre-generated module model dump (JSON)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(modelFlagName), modelConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values
// feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// filtersFromConfig reads the module/function/operator filters shared by the
// run and list commands.
func filtersFromConfig() (modules, functions []string, include, exclude []m.OperatorKind, err error) {
	modules = domain.ParseFilterList(viper.GetString(modulesConfigKey))
	functions = domain.ParseFilterList(viper.GetString(functionsConfigKey))

	include, err = parseOperatorKinds(viper.GetStringSlice(operatorsConfigKey))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	exclude, err = parseOperatorKinds(viper.GetStringSlice(skipOperatorsConfigKey))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return modules, functions, include, exclude, nil
}

func parseOperatorKinds(values []string) ([]m.OperatorKind, error) {
	var kinds []m.OperatorKind

	for _, value := range values {
		for _, name := range domain.ParseFilterList(value) {
			kind := m.OperatorKind(name)
			if !kind.Valid() {
				return nil, fmt.Errorf("unknown operator kind: %s", name)
			}

			kinds = append(kinds, kind)
		}
	}

	return kinds, nil
}
