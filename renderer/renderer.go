// Package renderer turns digest runs into markdown for the terminal, the
// HTML export and the narrator prompt.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	md "github.com/nao1215/markdown"
	"github.com/rishirsv/pfdigest"
)

//go:embed templates/*.md
var templates embed.FS

// TableMarkdown renders a whole digest as a markdown table under its title.
func TableMarkdown(t *pfdigest.Table) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(t.Title)

	align := make([]md.TableAlignment, len(t.Columns))
	for i, c := range t.Columns {
		align[i] = md.AlignRight
		if c.Kind == pfdigest.KindText {
			align[i] = md.AlignLeft
		}
	}
	records := t.Records()
	doc.Table(md.TableSet{
		Alignment: align,
		Header:    records[0],
		Rows:      records[1:],
	})
	return doc.String()
}

// narration is the data of the narrator prompt.
type narration struct {
	Run      *pfdigest.Run
	Currency string
	Tables   []string
}

// NarrationPrompt renders the prompt asking for a narrative of a run. Each
// digest is embedded as a markdown table.
func NarrationPrompt(r *pfdigest.Run, currency string) string {
	n := narration{Run: r, Currency: currency}
	for _, t := range r.Digests {
		n.Tables = append(n.Tables, TableMarkdown(t))
	}
	partials := map[string]string{
		"narrate_digests": "narrate_digests.md",
	}
	return renderTemplate("narrate", "narrate.md", partials, n)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name results in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
