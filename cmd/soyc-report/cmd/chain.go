package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compile-report/internal/callgraph"
	"github.com/compile-report/internal/parser/depgraph"
	"github.com/compile-report/pkg/compression"
)

var (
	// Chain command flags
	chainDependencies string
	chainGraph        string
	chainMethod       string
	chainFormat       string
)

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Explain why a method is live in a dependency graph",
	Long: `Chain follows the recorded callers of a method in one dependency graph
back to an entry point and prints the path, method first:

  com.acme.Widget::render()V <- com.acme.Main::onModuleLoad()V

Graphs that extend another graph inherit its callers.`,
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)

	chainCmd.Flags().StringVarP(&chainDependencies, "dependencies", "d", "", "Dependencies document (required)")
	chainCmd.Flags().StringVarP(&chainGraph, "graph", "g", "initial", "Dependency graph to search")
	chainCmd.Flags().StringVarP(&chainMethod, "method", "m", "", "Method to explain (required)")
	chainCmd.Flags().StringVarP(&chainFormat, "format", "f", "text", "Output format: text, json or dot")
	chainCmd.MarkFlagRequired("dependencies")
	chainCmd.MarkFlagRequired("method")
}

func runChain(cmd *cobra.Command, args []string) error {
	f, err := os.Open(chainDependencies)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	r, _, err := compression.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	set, stats, err := depgraph.NewParser(GetLogger()).Parse(cmd.Context(), r)
	if err != nil {
		return err
	}
	GetLogger().Debug("loaded %d dependency graphs, %d callers", set.Len(), stats.Records)

	chain, err := callgraph.NewResolver(set, appConfig.Analysis.MaxChainLength).Explain(chainGraph, chainMethod)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch chainFormat {
	case "text":
		_, err = fmt.Fprintln(out, chain.String())
		return err
	case "json":
		return callgraph.NewPrettyJSONWriter().Write(chain, out)
	case "dot":
		return callgraph.NewDOTWriter().Write(chain, out)
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, dot)", chainFormat)
	}
}
