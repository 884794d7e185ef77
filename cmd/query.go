package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
	"github.com/rishirsv/pfdigest"
	"github.com/rishirsv/pfdigest/archive"
)

// queryCmd evaluates a JSONPath expression over the JSON form of a run.
type queryCmd struct {
	expr    string
	in      string
	archive string
	run     string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression over a run" }
func (*queryCmd) Usage() string {
	return `pfd query -e <expression> [-in <run.json> | -archive <db> [-run <id>]]

  Evaluates the JSONPath expression over the JSON form of a run and prints
  the result. The run is read from -in, loaded from the archive (the
  latest one unless -run is set), or built from the inputs.

  Example:
    pfd query -e '$.digests.performance.rows[*]'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expr, "e", "", "JSONPath expression (required)")
	f.StringVar(&c.in, "in", "", "JSON run file written by -json")
	f.StringVar(&c.archive, "archive", "", "SQLite archive to load the run from")
	f.StringVar(&c.run, "run", "", "archived run id, the latest when empty")
}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.expr == "" {
		fmt.Fprintln(os.Stderr, "-e is required")
		return subcommands.ExitUsageError
	}
	if c.in != "" && c.archive != "" {
		fmt.Fprintln(os.Stderr, "-in and -archive are mutually exclusive")
		return subcommands.ExitUsageError
	}

	s, err := newSession(ctx)
	if err != nil {
		return failf("Error: %v", err)
	}
	defer s.Close()

	raw, err := c.load(s)
	if err != nil {
		return failf("Error loading run: %v", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return failf("Error decoding run: %v", err)
	}
	result, err := jsonpath.Get(c.expr, doc)
	if err != nil {
		return failf("Error evaluating %q: %v", c.expr, err)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return failf("Error encoding result: %v", err)
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

// load returns the JSON form of the run to query.
func (c *queryCmd) load(s *session) ([]byte, error) {
	switch {
	case c.in != "":
		return os.ReadFile(c.in)
	case c.archive != "":
		a, err := archive.Open(s.ctx, c.archive)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return a.Load(s.ctx, c.run)
	}
	tables, err := pfdigest.BuildAll(s.ctx, s.cfg.Sources(), s.cfg.Settings())
	if err != nil {
		return nil, err
	}
	s.run.Digests = tables
	return json.Marshal(s.run)
}
