package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/compile-report/internal/analyzer"
	"github.com/compile-report/internal/formatter"
	"github.com/compile-report/internal/parser"
	"github.com/compile-report/pkg/compression"
	"github.com/compile-report/pkg/model"
)

var (
	// Analyze command flags
	storiesFile      string
	splitPointsFile  string
	dependenciesFile string
	permutationID    int
	topN             int
	outputFormat     string
	breakdownFilter  []string
	outputFile       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize the report documents of one permutation",
	Long: `Analyze ingests the size map of one permutation, together with its split
points and dependency graphs when given, and prints a breakdown of the
code size per download fragment:

  - total      : the whole program
  - initial    : code loaded before any split point runs
  - sp<N>      : code exclusive to split point N
  - leftovers  : code loaded by no split point on its own

Every breakdown is split into inline categories (JRE emulation, compiler
runtime, widgets, server communication, other code) and lists the
largest packages and classes.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	binName := BinName()
	analyzeCmd.Example = `  # Analyze permutation 0
  ` + binName + ` analyze --stories stories0.xml.gz --splitpoints splitPoints0.xml.gz

  # Only the initial download, as JSON
  ` + binName + ` analyze --stories stories0.xml.gz --splitpoints splitPoints0.xml.gz -b initial -f json

  # Write a zstd compressed JSON report
  ` + binName + ` analyze --stories stories0.xml.gz -f json -o report0.json.zst`

	analyzeCmd.Flags().StringVarP(&storiesFile, "stories", "s", "", "Size map document (required)")
	analyzeCmd.Flags().StringVar(&splitPointsFile, "splitpoints", "", "Split points document")
	analyzeCmd.Flags().StringVar(&dependenciesFile, "dependencies", "", "Dependencies document")
	analyzeCmd.MarkFlagRequired("stories")

	analyzeCmd.Flags().IntVarP(&permutationID, "permutation", "p", 0, "Permutation id reported in the output")
	analyzeCmd.Flags().IntVarP(&topN, "top", "n", 20, "Number of top packages and classes per breakdown")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	analyzeCmd.Flags().StringSliceVarP(&breakdownFilter, "breakdown", "b", nil, "Breakdowns to print in text output (default all)")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file; .gz and .zst names are compressed")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	registry := formatter.NewRegistry()
	registry.Register(&formatter.TextFormatter{Breakdowns: breakdownFilter})
	if _, err := registry.Get(outputFormat); err != nil {
		return err
	}

	in := &model.PermutationInput{PermutationID: permutationID}
	var files []io.Closer
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	open := func(path string) (io.Reader, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		files = append(files, f)
		return f, nil
	}

	var err error
	if in.SizeMap, err = open(storiesFile); err != nil {
		return err
	}
	if in.SplitPoints, err = open(splitPointsFile); err != nil {
		return err
	}
	if in.Dependencies, err = open(dependenciesFile); err != nil {
		return err
	}

	cfg := analyzer.ConfigFromApp(appConfig, log)
	cfg.Verbose = verbose
	result, err := analyzer.NewPermutationAnalyzer(cfg).Analyze(cmd.Context(), in)
	if err != nil {
		return err
	}

	if n := len(result.Violations); n > 0 {
		log.Warn("%d classes are not in exactly one category", n)
	}
	for _, kind := range []parser.DocumentKind{parser.DocumentSplitPoints, parser.DocumentSizeMap, parser.DocumentDependencies} {
		stats, ok := result.Stats[kind]
		if !ok {
			continue
		}
		log.Debug("%s: %d records, %d skipped", kind, stats.Records, stats.Skipped)
		for _, k := range stats.Kinds() {
			log.Debug("  %s: %d", k, stats.ByKind[k])
		}
	}

	summary := result.Summary(topN, time.Now())
	if outputFile == "" {
		return registry.Format(cmd.OutOrStdout(), outputFormat, summary)
	}
	return writeReport(registry, outputFile, summary)
}

// writeReport formats summary into path, compressed as its extension says.
func writeReport(registry *formatter.Registry, path string, summary *model.ReportSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	typ := compression.TypeFromName(path)
	w, err := compression.NewWriter(f, typ)
	if err != nil {
		return err
	}
	if err := registry.Format(w, outputFormat, summary); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to flush %s output: %w", typ, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	GetLogger().Info("wrote %s report to %s (%s)", outputFormat, path, typ)
	return nil
}
