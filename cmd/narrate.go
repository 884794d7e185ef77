package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/rishirsv/pfdigest"
	"github.com/rishirsv/pfdigest/agent"
	"github.com/rishirsv/pfdigest/renderer"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// narrateCmd asks a Gemini model for a narrative of a fresh run.
type narrateCmd struct {
	model string
	chat  bool
}

func (*narrateCmd) Name() string     { return "narrate" }
func (*narrateCmd) Synopsis() string { return "narrate the digests with a Gemini model" }
func (*narrateCmd) Usage() string {
	return `pfd narrate [-model <name>] [-chat] [<question>...]

  Builds all digests, then asks the model for a plain language narrative
  of them. With -chat, follow-up questions are read from stdin until
  'bye'. Remaining arguments are sent as the first follow-up questions.

  The client reads GOOGLE_API_KEY (or the Vertex AI variables) from the
  environment.
`
}

func (c *narrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", "", "Gemini model. Defaults to the configured narrator model.")
	f.BoolVar(&c.chat, "chat", false, "Keep the conversation open for follow-up questions.")
}

func (c *narrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(ctx)
	if err != nil {
		return failf("Error: %v", err)
	}
	defer s.Close()

	tables, err := pfdigest.BuildAll(s.ctx, s.cfg.Sources(), s.cfg.Settings())
	if err != nil {
		zerolog.Ctx(s.ctx).Error().Err(err).Msg("run failed")
		return failf("Error building digests: %v", err)
	}
	s.run.Digests = tables

	client, err := genai.NewClient(s.ctx, nil)
	if err != nil {
		return failf("Error initializing Gemini's client: %v", err)
	}

	model := c.model
	if model == "" {
		model = s.cfg.Narrator.Model
	}
	a := agent.New(os.Stdout, os.Stdin, agent.NewNarrator(s.run, model))
	a.Render = renderMarkdown

	if err := a.Narrate(s.ctx, client, renderer.NarrationPrompt(s.run, s.cfg.ReportingCurrency)); err != nil {
		return failf("Narration failed: %v", err)
	}

	var questions []string
	if f.NArg() > 0 {
		questions = append(questions, strings.Join(f.Args(), " "))
	}
	if !c.chat && len(questions) == 0 {
		return subcommands.ExitSuccess
	}
	if !c.chat {
		questions = append(questions, "bye")
	}
	if err := a.Run(s.ctx, client, questions...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
