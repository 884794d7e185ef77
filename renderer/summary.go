package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/rishirsv/pfdigest"
)

// summaryTailRows is the number of trailing net-worth months shown.
const summaryTailRows = 3

// RunSummary renders the console summary of a run: one line per digest
// with its row count, then the net-worth highlights and the performance
// table when those digests were built.
func RunSummary(r *pfdigest.Run, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Digest Run %s", r.ID))
	doc.PlainText(fmt.Sprintf("Generated: %s", r.Generated.Format(pfdigest.GeneratedLayout)))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Digest", "File", "Rows", "Skipped"},
		Rows:      [][]string{},
	}
	for _, t := range r.Digests {
		table.Rows = append(table.Rows, []string{
			t.Title,
			pfdigest.FileName(t.Name),
			fmt.Sprint(t.Len()),
			fmt.Sprint(t.Skipped),
		})
	}
	doc.Table(table)

	var b strings.Builder
	b.WriteString(doc.String())
	if t := r.Digest(pfdigest.NetWorthDigest); t != nil {
		ConditionalBlock(&b, func(w io.Writer) bool { return renderNetWorth(w, t, currency) })
	}
	if t := r.Digest(pfdigest.PerformanceDigest); t != nil {
		ConditionalBlock(&b, func(w io.Writer) bool { return renderPerformance(w, t) })
	}
	return b.String()
}

func renderNetWorth(w io.Writer, t *pfdigest.Table, currency string) bool {
	n := t.Len()
	if n == 0 {
		return false
	}
	last := n - 1
	var milestones []string
	for i := range n {
		if t.Get(i, "milestone_flag").IsTrue() {
			milestones = append(milestones, t.Get(i, "date").String())
		}
	}
	hit := "none"
	if len(milestones) > 0 {
		hit = fmt.Sprintf("%d (%s)", len(milestones), strings.Join(milestones, ", "))
	}

	doc := md.NewMarkdown(w)
	doc.H2("Net Worth")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Date Range", fmt.Sprintf("%s to %s", t.Get(0, "date"), t.Get(last, "date"))},
			{"Latest Net Worth", money(t.Get(last, "totalNW"), currency)},
			{"Latest Crypto Share", percent(t.Get(last, "cryptoPct"))},
			{"Max Drawdown", percent(t.Get(last, "max_drawdown_to_date"))},
			{"Milestones Hit", hit},
		},
	})

	tail := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Net Worth", "MoM", "YoY"},
		Rows:      [][]string{},
	}
	for i := max(0, n-summaryTailRows); i < n; i++ {
		tail.Rows = append(tail.Rows, []string{
			t.Get(i, "date").String(),
			money(t.Get(i, "totalNW"), currency),
			signedPercent(t.Get(i, "MoM_pct")),
			signedPercent(t.Get(i, "YoY_pct")),
		})
	}
	doc.Table(tail)
	return doc.Build() == nil
}

func renderPerformance(w io.Writer, t *pfdigest.Table) bool {
	if t.Len() == 0 {
		return false
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Period", "Return", "Benchmark", "Outperformance"},
		Rows:      [][]string{},
	}
	for i := range t.Len() {
		table.Rows = append(table.Rows, []string{
			t.Get(i, "period").String(),
			points(t.Get(i, "return_pct")),
			points(t.Get(i, "benchmark_SPY_return")),
			points(t.Get(i, "outperformance_pct")),
		})
	}
	doc := md.NewMarkdown(w)
	doc.H2("Performance")
	doc.Table(table)
	return doc.Build() == nil
}

// money formats a currency cell, "-" when undefined.
func money(c pfdigest.Cell, currency string) string {
	f, ok := c.Value().Get()
	if !ok {
		return "-"
	}
	return pfdigest.M(f, currency).String()
}

// percent formats a ratio cell as a percentage, "-" when undefined.
func percent(c pfdigest.Cell) string {
	f, ok := c.Value().Get()
	if !ok {
		return "-"
	}
	return pfdigest.Percent(f * 100).String()
}

func signedPercent(c pfdigest.Cell) string {
	f, ok := c.Value().Get()
	if !ok {
		return "-"
	}
	return pfdigest.Percent(f * 100).SignedString()
}

// points formats a cell already expressed in percent.
func points(c pfdigest.Cell) string {
	f, ok := c.Value().Get()
	if !ok {
		return "-"
	}
	return pfdigest.Percent(f).SignedString()
}
