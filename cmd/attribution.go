package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/renderer"
)

type attributionCmd struct {
	portfolioFile string
	benchmarkFile string
}

func (*attributionCmd) Name() string     { return "attribution" }
func (*attributionCmd) Synopsis() string { return "decompose active return with Brinson-Fachler attribution" }
func (*attributionCmd) Usage() string {
	return `qfs attribution -portfolio <segments.json> -benchmark <segments.json>

  Decomposes the portfolio's active return against its benchmark into
  allocation, selection and interaction effects per bucket. Each file holds a
  JSON array of segments:

    [{"name":"tech","weight":0.5,"return":0.12}, ...]

  Both sides must cover the same buckets and each side's weights must sum to one.
`
}

func (c *attributionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolioFile, "portfolio", "", "Portfolio segments JSON file")
	f.StringVar(&c.benchmarkFile, "benchmark", "", "Benchmark segments JSON file")
}

// decodeSegments reads a bucket file; a dedicated local struct carries the
// json tags.
func decodeSegments(filename string) ([]quantfolio.Segment, error) {
	type jsegment struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
		Return float64 `json:"return"`
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read segments file %q: %w", filename, err)
	}
	var raw []jsegment
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("segments file %q is not a JSON array of segments: %w", filename, err)
	}
	segments := make([]quantfolio.Segment, 0, len(raw))
	for _, s := range raw {
		segments = append(segments, quantfolio.Segment{Name: s.Name, Weight: s.Weight, Return: s.Return})
	}
	return segments, nil
}

func (c *attributionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolioFile == "" || c.benchmarkFile == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	portfolio, err := decodeSegments(c.portfolioFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	benchmark, err := decodeSegments(c.benchmarkFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := quantfolio.BrinsonFachler(portfolio, benchmark)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.AttributionMarkdown(report))
	return subcommands.ExitSuccess
}
