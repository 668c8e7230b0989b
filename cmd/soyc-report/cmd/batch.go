package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/compile-report/internal/service"
	"github.com/compile-report/pkg/model"
)

var (
	// Batch command flags
	batchPrefix       string
	batchLabel        string
	batchPermutations []int
	batchTopN         int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every permutation of a build held in storage",
	Long: `Batch reads the report documents of a build from the configured storage
(local directory or COS bucket), analyzes the permutations in parallel and
uploads one summary-<N>.json per permutation next to the documents. With
a database configured the summaries are also stored under --label.

Documents are looked up as stories<N>.xml.gz, splitPoints<N>.xml.gz and
dependencies<N>.xml.gz under --prefix; only the size map is required.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchPrefix, "prefix", "", "Storage prefix of the build's documents")
	batchCmd.Flags().StringVarP(&batchLabel, "label", "l", "", "Build label used in the database (defaults to the prefix)")
	batchCmd.Flags().IntSliceVar(&batchPermutations, "permutations", nil, "Permutations to analyze (default: all found)")
	batchCmd.Flags().IntVarP(&batchTopN, "top", "n", service.DefaultTopN, "Number of top packages and classes per breakdown")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	label := batchLabel
	if label == "" {
		label = batchPrefix
	}

	svc, err := service.New(appConfig, log, service.WithTracing(telemetryConfig != nil && telemetryConfig.Enabled))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if err := svc.Initialize(cmd.Context()); err != nil {
		return err
	}
	defer svc.Stop()

	report, err := svc.Run(cmd.Context(), service.Options{
		Prefix:       batchPrefix,
		Label:        label,
		Permutations: batchPermutations,
		TopN:         batchTopN,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERMUTATION\tSTATUS\tTOTAL\tINITIAL\tSUMMARY")
	for _, out := range report.Outcomes {
		if out.Err != nil {
			fmt.Fprintf(tw, "%d\tfailed\t-\t-\t%v\n", out.PermutationID, out.Err)
			continue
		}
		total, initial := "-", "-"
		if b := out.Summary.Breakdown(model.BreakdownTotal); b != nil {
			total = humanize.Bytes(uint64(b.TotalSize))
		}
		if b := out.Summary.Breakdown(model.BreakdownInitial); b != nil {
			initial = humanize.Bytes(uint64(b.TotalSize))
		}
		fmt.Fprintf(tw, "%d\tok\t%s\t%s\t%s\n", out.PermutationID, total, initial, out.SummaryKey)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d permutations failed", report.Failed, len(report.Outcomes))
	}
	return nil
}
