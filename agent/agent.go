package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent runs a conversation with an expert.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	Expert *Expert
	// Render formats a reply before it is printed. Nil prints it as is.
	Render func(markdown string) string
}

// New creates a new Agent reading follow-up questions from r and writing
// replies to w.
func New(w io.Writer, r io.Reader, e *Expert) *Agent {
	return &Agent{
		w:      w,
		r:      bufio.NewReader(r),
		Expert: e,
	}
}

const prompt = "pfd> "

// Narrate sends the first prompt and prints the reply.
func (a *Agent) Narrate(ctx context.Context, client *genai.Client, text string) error {
	if !a.Expert.Started() {
		if err := a.Expert.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.reply(ctx, text)
}

// Run reads questions until EOF or "bye" and prints each reply.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if !a.Expert.Started() {
		if err := a.Expert.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Ask about your digests. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}
		if err := a.reply(ctx, input); err != nil {
			return err
		}
	}
}

func (a *Agent) reply(ctx context.Context, text string) error {
	content, err := a.Expert.Ask(ctx, &genai.Part{Text: text})
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	out := b.String()
	if a.Render != nil {
		out = a.Render(out)
	}
	fmt.Fprintln(a.w, out)
	return nil
}
