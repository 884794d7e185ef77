package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rishirsv/pfdigest"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// NewNarrator returns an expert that writes the narrative of a run. It can
// read the rows of any digest of the run through its tools.
func NewNarrator(r *pfdigest.Run, model string) *Expert {
	if model == "" {
		model = DefaultModel
	}
	lib := []Function{listDigests(r), digestRows(r)}
	return &Expert{
		Name:        "Narrator",
		Description: "Writes a plain language narrative of the personal finance digests of a run.",
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a personal finance analyst reviewing digests computed from the user's broker
				and net worth exports. The figures are final, never recompute or contradict them.
				Be concise, use markdown, and keep to what the digests show.
				Use the Tools to list the digests and to read their rows when a question needs detail.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func listDigests(r *pfdigest.Run) *Func {
	const name = "list_digests"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Lists the digests of the run with their title, columns and number of rows.",
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A JSON array with one object per digest.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			type entry struct {
				Name    string   `json:"name"`
				Title   string   `json:"title"`
				Columns []string `json:"columns"`
				Rows    int      `json:"rows"`
			}
			var out []entry
			for _, t := range r.Digests {
				out = append(out, entry{t.Name, t.Title, t.Header(), t.Len()})
			}
			raw, err := json.Marshal(out)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": string(raw)}}
		},
	}
}

func digestRows(r *pfdigest.Run) *Func {
	const name = "digest_rows"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Returns the rows of one digest as JSON objects keyed by column name.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"digest": {
						Type:        genai.TypeString,
						Description: "The digest name, as returned by list_digests.",
						Enum:        pfdigest.Digests,
					},
					"last": {
						Type:        genai.TypeInteger,
						Description: "Only return the last rows. Zero or absent returns every row.",
					},
				},
				Required: []string{"digest"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The digest encoded as JSON.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			digest, _ := args["digest"].(string)
			t := r.Digest(digest)
			if t == nil {
				return errorResponse(id, name, fmt.Errorf("no digest %q in this run", digest))
			}
			if last, ok := args["last"].(float64); ok && last > 0 && int(last) < t.Len() {
				tail := *t
				tail.Rows = t.Rows[t.Len()-int(last):]
				t = &tail
			}
			raw, err := json.Marshal(t)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": string(raw)}}
		},
	}
}
