package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rishirsv/pfdigest"
	"github.com/rishirsv/pfdigest/archive"
	"github.com/rishirsv/pfdigest/renderer"
	"github.com/rs/zerolog"
)

// output holds the flags shared by the commands that build digests.
type output struct {
	xlsx    string
	archive string
	html    string
	json    string
	quiet   bool
}

func (o *output) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.xlsx, "xlsx", "", "Also write the digests into this Excel workbook, one sheet per digest.")
	f.StringVar(&o.archive, "archive", "", "Record the run in this SQLite archive. Defaults to the configured archive, if any.")
	f.StringVar(&o.html, "html", "", "Also write the run summary and the digests as an HTML page.")
	f.StringVar(&o.json, "json", "", "Also write the run as JSON, for 'pfd query -in'.")
	f.BoolVar(&o.quiet, "q", false, "Do not print the run summary.")
}

// publish writes the digests of the session's run to every requested
// destination, then prints the run summary.
func (o *output) publish(s *session) error {
	log := zerolog.Ctx(s.ctx)
	r := s.run

	paths, err := pfdigest.WriteRun(s.cfg.OutputDir, r)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Info().Str("path", p).Msg("digest written")
	}

	if o.xlsx != "" {
		if err := pfdigest.WriteXLSX(o.xlsx, r); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		log.Info().Str("path", o.xlsx).Msg("workbook written")
	}
	if o.json != "" {
		raw, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding run: %w", err)
		}
		if err := os.WriteFile(o.json, raw, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.json, err)
		}
		log.Info().Str("path", o.json).Msg("run written")
	}

	summary := renderer.RunSummary(r, s.cfg.ReportingCurrency)
	if o.html != "" {
		var b strings.Builder
		b.WriteString(summary)
		for _, t := range r.Digests {
			b.WriteString("\n")
			b.WriteString(renderer.TableMarkdown(t))
		}
		page, err := renderer.HTML("Digest run "+r.ID, b.String())
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.html, page, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.html, err)
		}
		log.Info().Str("path", o.html).Msg("html written")
	}

	if db := o.archivePath(s); db != "" {
		a, err := archive.Open(s.ctx, db)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Save(s.ctx, r); err != nil {
			return err
		}
	}

	if !o.quiet {
		printMarkdown(summary)
	}
	return nil
}

func (o *output) archivePath(s *session) string {
	if o.archive != "" {
		return o.archive
	}
	return s.cfg.Archive
}
