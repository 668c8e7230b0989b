package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compile-report/internal/callgraph"
	"github.com/compile-report/internal/testutil"
	"github.com/compile-report/pkg/compression"
	"github.com/compile-report/pkg/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, doc string, typ compression.Type) string {
	t.Helper()
	data, err := compression.Compress([]byte(doc), typ)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	stories := writeFile(t, dir, "stories0.xml.gz", testutil.NewSizeMap().
		Section(0, 100).Type("com.acme.Main", 60).Type("java.lang.String", 40).
		Section(1, 30).Type("com.acme.Lazy", 30).
		Build(), compression.TypeGzip)
	splitPoints := writeFile(t, dir, "splitPoints0.xml", testutil.NewSplitPoints().
		Point(1, "com.acme.Main.onModuleLoad").Build(), compression.TypeNone)

	out, err := execute(t, "analyze", "--stories", stories, "--splitpoints", splitPoints,
		"--dependencies", "", "-p", "0", "-n", "5", "-f", "json")
	require.NoError(t, err)

	var summary model.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, int64(130), summary.Breakdown(model.BreakdownTotal).TotalSize)
	assert.Equal(t, int64(100), summary.Breakdown(model.BreakdownInitial).TotalSize)
	assert.Equal(t, int64(30), summary.Breakdown("sp1").TotalSize)

	out, err = execute(t, "analyze", "--stories", stories, "--splitpoints", splitPoints,
		"--dependencies", "", "-p", "0", "-n", "5", "-f", "text", "-b", "sp1")
	require.NoError(t, err)
	assert.Contains(t, out, "=== sp1:")
	assert.NotContains(t, out, "=== total:")
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	_, err := execute(t, "analyze", "--stories", filepath.Join(t.TempDir(), "missing.xml"),
		"--splitpoints", "", "--dependencies", "", "-f", "text")
	assert.ErrorContains(t, err, "failed to open input")

	stories := writeFile(t, t.TempDir(), "stories0.xml", "<sizemaps/>", compression.TypeNone)
	_, err = execute(t, "analyze", "--stories", stories, "--splitpoints", "", "--dependencies", "", "-f", "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestAnalyzeCommand_OutputFile(t *testing.T) {
	t.Cleanup(func() { outputFile = "" })

	dir := t.TempDir()
	stories := writeFile(t, dir, "stories0.xml", testutil.NewSizeMap().
		Section(0, 10).Type("com.acme.Main", 10).
		Build(), compression.TypeNone)
	target := filepath.Join(dir, "report0.json.zst")

	out, err := execute(t, "analyze", "--stories", stories, "--splitpoints", "", "--dependencies", "",
		"-f", "json", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()

	r, typ, err := compression.NewReader(f)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, compression.TypeZstd, typ)

	var summary model.ReportSummary
	require.NoError(t, json.NewDecoder(r).Decode(&summary))
	assert.Equal(t, int64(10), summary.Breakdown(model.BreakdownTotal).TotalSize)
}

func TestChainCommand(t *testing.T) {
	deps := writeFile(t, t.TempDir(), "dependencies0.xml.gz", testutil.NewDependencies().
		Table("initial", "").
		Method("m0", "").
		Method("m1", "m0").
		Method("m2", "m1").
		Build(), compression.TypeGzip)

	out, err := execute(t, "chain", "-d", deps, "-g", "initial", "-m", "m2", "-f", "text")
	require.NoError(t, err)
	assert.Equal(t, "m2 <- m1 <- m0\n", out)

	out, err = execute(t, "chain", "-d", deps, "-g", "initial", "-m", "m2", "-f", "json")
	require.NoError(t, err)
	var chain callgraph.Chain
	require.NoError(t, json.Unmarshal([]byte(out), &chain))
	assert.Equal(t, []string{"m1", "m0"}, chain.Callers)

	out, err = execute(t, "chain", "-d", deps, "-g", "initial", "-m", "m2", "-f", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")

	_, err = execute(t, "chain", "-d", deps, "-g", "initial", "-m", "nope", "-f", "text")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version dev")
}
