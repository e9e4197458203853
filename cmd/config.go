package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/movemut/movemut/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "movemut"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	packageFlagName       = "package"
	modelFlagName         = "model"
	verboseFlagName       = "verbose"
	parallelFlagName      = "parallel"
	mutantTimeoutFlagName = "mutant-timeout"
	globalTimeoutFlagName = "global-timeout"
	modulesFlagName       = "modules"
	functionsFlagName     = "functions"
	operatorsFlagName     = "operators"
	skipOperatorsFlagName = "skip-operators"
	judgeFlagName         = "judge"
	countBuildErrsFlag    = "count-build-errors"

	packageConfigKey       = "package"
	modelConfigKey         = "model.dump_file"
	dumpCommandConfigKey   = "model.dump_command"
	parallelConfigKey      = "run.parallel"
	mutantTimeoutConfigKey = "run.mutant_timeout"
	globalTimeoutConfigKey = "run.global_timeout"
	modulesConfigKey       = "filter.modules"
	functionsConfigKey     = "filter.functions"
	operatorsConfigKey     = "filter.operators"
	skipOperatorsConfigKey = "filter.skip_operators"
	judgeConfigKey         = "judge.command"
	countBuildErrsKey      = "score.count_build_errors"

	defaultReportsDir    = ".movemut-reports"
	defaultParallel      = 1
	defaultMutantTimeout = 2 * time.Minute
	defaultGlobalTimeout = time.Duration(0)
	defaultDumpCommand   = "movec model dump --format json"

	envPrefix = "MOVEMUT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".movemut.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(packageConfigKey, ".")
	viper.SetDefault(modelConfigKey, "")
	viper.SetDefault(dumpCommandConfigKey, defaultDumpCommand)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(mutantTimeoutConfigKey, defaultMutantTimeout)
	viper.SetDefault(globalTimeoutConfigKey, defaultGlobalTimeout)
	viper.SetDefault(modulesConfigKey, "all")
	viper.SetDefault(functionsConfigKey, "all")
	viper.SetDefault(operatorsConfigKey, []string{})
	viper.SetDefault(skipOperatorsConfigKey, []string{})
	viper.SetDefault(judgeConfigKey, adapter.DefaultJudgeCommand)
	viper.SetDefault(countBuildErrsKey, false)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, false)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger writing to a rolling
// file so terminal output stays reserved for the UI.
func configureLogger(verbose bool) {
	logPath := viper.GetString(logFilenameKey)
	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	logLevel := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
