package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
	"github.com/rishirsv/pfdigest"
	"github.com/rishirsv/pfdigest/archive"
)

// historyCmd lists the runs recorded in the archive.
type historyCmd struct {
	archive string
	limit   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the archived runs" }
func (*historyCmd) Usage() string {
	return `pfd history [-archive <db>] [-n <count>]

  Lists the runs recorded in the archive, the most recent first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.archive, "archive", "", "SQLite archive. Defaults to the configured archive.")
	f.IntVar(&c.limit, "n", 20, "number of runs to list, 0 for all")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(ctx)
	if err != nil {
		return failf("Error: %v", err)
	}
	defer s.Close()

	db := c.archive
	if db == "" {
		db = s.cfg.Archive
	}
	if db == "" {
		fmt.Fprintln(os.Stderr, "no archive: use -archive or set archive in the configuration")
		return subcommands.ExitUsageError
	}

	a, err := archive.Open(s.ctx, db)
	if err != nil {
		return failf("Error opening archive: %v", err)
	}
	defer a.Close()

	runs, err := a.Runs(s.ctx, c.limit)
	if err != nil {
		return failf("Error listing runs: %v", err)
	}
	printMarkdown(historyMarkdown(runs))
	return subcommands.ExitSuccess
}

func historyMarkdown(runs []archive.RunInfo) string {
	var b strings.Builder
	doc := md.NewMarkdown(&b).H1("Digest History")
	if len(runs) == 0 {
		doc.PlainText("No archived run.")
		return doc.String()
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Generated.Format(pfdigest.GeneratedLayout),
			strconv.Itoa(r.Digests),
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Skipped),
		})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Run", "Generated", "Digests", "Rows", "Skipped"},
		Rows:      rows,
	})
	return doc.String()
}
