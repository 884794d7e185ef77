// Package cmd implements the pfd command line application that turns
// broker and net-worth exports into digests.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rishirsv/pfdigest"
	"github.com/rishirsv/pfdigest/config"
	"github.com/rishirsv/pfdigest/logger"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	for _, name := range pfdigest.Digests {
		c.Register(newDigestCmd(name), "digests")
	}
	c.Register(&allCmd{}, "digests")

	c.Register(&narrateCmd{}, "analysis")
	c.Register(&queryCmd{}, "analysis")
	c.Register(&historyCmd{}, "analysis")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file. Defaults to $PFD_CONFIG, or built-in defaults when empty.")
var outDir = flag.String("out", "", "Output directory of the digests. Overrides the configuration.")
var logLevel = flag.String("log-level", "", "Log level: debug, info, warn or error. Overrides the configuration.")

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	path := *configFile
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if *outDir != "" {
		c.OutputDir = *outDir
	}
	if *logLevel != "" {
		c.Log.Level = *logLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// session is the state shared by the commands of one invocation.
type session struct {
	cfg    *config.Config
	ctx    context.Context
	run    *pfdigest.Run
	closer io.Closer
}

// newSession loads the configuration and attaches a logger tagged with a
// fresh run id to ctx.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	l, closer, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return nil, err
	}
	run := &pfdigest.Run{ID: uuid.NewString(), Generated: time.Now()}
	return &session{
		cfg:    cfg,
		ctx:    logger.WithRun(ctx, l, run.ID),
		run:    run,
		closer: closer,
	}, nil
}

func (s *session) Close() error { return s.closer.Close() }

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Registered reports whether c has a command with that name.
func Registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		found = found || cmd.Name() == name
	})
	return found
}

// failf prints an error and returns ExitFailure.
func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
