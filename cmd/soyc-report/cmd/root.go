package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/compile-report/pkg/config"
	"github.com/compile-report/pkg/telemetry"
	"github.com/compile-report/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger            utils.Logger
	appConfig         *config.Config
	telemetryConfig   *telemetry.Config
	shutdownTelemetry telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "soyc-report",
	Short: "Analyze compile reports of split web application builds",
	Long: `soyc-report reads the report documents a compiler writes for each
permutation of a build (size maps, split points and dependency graphs) and
explains where the code size of every download fragment goes.

Documents may be plain XML or gzip/zstd compressed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg

		logLevel := utils.ParseLogLevel(cfg.Log.Level)
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, cmd.ErrOrStderr())
		utils.SetGlobalLogger(logger)

		telemetryConfig = telemetry.LoadFromEnv(Version)
		shutdown, err := telemetry.Init(cmd.Context(), telemetryConfig)
		if err != nil {
			logger.Warn("Tracing disabled: %v", err)
		}
		shutdownTelemetry = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTelemetry == nil {
			return nil
		}
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	binName := BinName()
	rootCmd.Example = `  # Summarize one permutation
  ` + binName + ` analyze --stories stories0.xml.gz --splitpoints splitPoints0.xml.gz

  # Explain why a method is in the initial download
  ` + binName + ` chain --dependencies dependencies0.xml.gz --method 'com.acme.Main::onModuleLoad()V'

  # Analyze every permutation of a build stored in COS
  ` + binName + ` batch -c config.yaml --prefix builds/1234 --label 1234`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return utils.OrNull(logger)
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
