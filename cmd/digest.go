package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rishirsv/pfdigest"
	"github.com/rs/zerolog"
)

// digestCmd builds a single digest.
type digestCmd struct {
	name string
	output
}

func newDigestCmd(name string) *digestCmd { return &digestCmd{name: name} }

var synopses = map[string]string{
	pfdigest.PerformanceDigest: "period returns and risk statistics against the benchmark",
	pfdigest.AllocationDigest:  "open positions by weight, with asset class totals",
	pfdigest.PositionDigest:    "top and bottom positions by 12 month return",
	pfdigest.CashflowDigest:    "quarterly deposits, withdrawals, income and fees by account type",
	pfdigest.NetWorthDigest:    "monthly net worth by asset category with risk metrics",
}

var sources = map[string]string{
	pfdigest.PerformanceDigest: "the PortfolioAnalyst export",
	pfdigest.AllocationDigest:  "the PortfolioAnalyst export",
	pfdigest.PositionDigest:    "the PortfolioAnalyst export",
	pfdigest.CashflowDigest:    "the transaction export",
	pfdigest.NetWorthDigest:    "the net worth sheet",
}

func (c *digestCmd) Name() string     { return c.name }
func (c *digestCmd) Synopsis() string { return synopses[c.name] }
func (c *digestCmd) Usage() string {
	return fmt.Sprintf(`pfd %s [-xlsx <file>] [-archive <db>] [-html <file>] [-json <file>]

  Builds the %s digest from %s and writes %s
  into the output directory.
`, c.name, c.name, sources[c.name], pfdigest.FileName(c.name))
}

func (c *digestCmd) SetFlags(f *flag.FlagSet) { c.output.SetFlags(f) }

func (c *digestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "%s takes no argument\n", c.name)
		return subcommands.ExitUsageError
	}
	return buildAndPublish(ctx, &c.output, c.name)
}

// allCmd builds every digest concurrently.
type allCmd struct {
	output
}

func (*allCmd) Name() string     { return "all" }
func (*allCmd) Synopsis() string { return "build all five digests and print the run summary" }
func (*allCmd) Usage() string {
	return `pfd all [-xlsx <file>] [-archive <db>] [-html <file>] [-json <file>]

  Builds the performance, allocation, positions, cashflow and networth
  digests concurrently. The first failure stops the run and no digest is
  written.
`
}

func (c *allCmd) SetFlags(f *flag.FlagSet) { c.output.SetFlags(f) }

func (c *allCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return buildAndPublish(ctx, &c.output, pfdigest.Digests...)
}

// buildAndPublish builds the named digests within a new session and
// publishes them.
func buildAndPublish(ctx context.Context, o *output, names ...string) subcommands.ExitStatus {
	s, err := newSession(ctx)
	if err != nil {
		return failf("Error: %v", err)
	}
	defer s.Close()
	log := zerolog.Ctx(s.ctx)

	tables, err := pfdigest.BuildAll(s.ctx, s.cfg.Sources(), s.cfg.Settings(), names...)
	if err != nil {
		log.Error().Err(err).Strs("digests", names).Msg("run failed")
		return failf("Error building digests: %v", err)
	}
	s.run.Digests = tables

	if err := o.publish(s); err != nil {
		log.Error().Err(err).Msg("publishing failed")
		return failf("Error writing digests: %v", err)
	}
	log.Info().Int("digests", len(tables)).Int("skipped", s.run.Skipped()).Msg("run complete")
	return subcommands.ExitSuccess
}
