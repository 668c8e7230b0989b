package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compile-report/internal/formatter"
	"github.com/compile-report/internal/service"
)

var (
	showLabel       string
	showPermutation int
	showFormat      string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a summary stored by an earlier batch run",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showLabel, "label", "l", "", "Build label (required)")
	showCmd.Flags().IntVarP(&showPermutation, "permutation", "p", 0, "Permutation id")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format: text or json")
	showCmd.MarkFlagRequired("label")
}

func runShow(cmd *cobra.Command, args []string) error {
	if !appConfig.Database.Enabled {
		return fmt.Errorf("show needs database.enabled in the configuration")
	}

	svc, err := service.New(appConfig, GetLogger(), service.WithTracing(telemetryConfig != nil && telemetryConfig.Enabled))
	if err != nil {
		return err
	}
	if err := svc.Initialize(cmd.Context()); err != nil {
		return err
	}
	defer svc.Stop()

	summary, err := svc.Summary(cmd.Context(), showLabel, showPermutation)
	if err != nil {
		return err
	}
	return formatter.NewRegistry().Format(cmd.OutOrStdout(), showFormat, summary)
}
