package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// fileFlags are the flags whose value is a path.
var fileFlags = map[string]predict.FilesPredictor{
	"config":  predict.Files("*.yaml"),
	"out":     predict.Dirs("*"),
	"xlsx":    predict.Files("*.xlsx"),
	"archive": predict.Files("*.db"),
	"html":    predict.Files("*.html"),
	"json":    predict.Files("*.json"),
	"in":      predict.Files("*.json"),
}

// Complete performs shell completion when the shell asks for it, and
// otherwise does nothing. The completion tree is derived from the
// commands registered on c.
func Complete(c *subcommands.Commander, name string) {
	completionTree(c).Complete(name)
}

func completionTree(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(c.VisitAll),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flagPredictors(fs.VisitAll)}
	})
	if help, ok := root.Sub["help"]; ok {
		names := make(predict.Set, 0, len(root.Sub))
		for n := range root.Sub {
			names = append(names, n)
		}
		help.Args = names
	}
	return root
}

func flagPredictors(visit func(func(*flag.Flag))) map[string]complete.Predictor {
	out := map[string]complete.Predictor{}
	visit(func(f *flag.Flag) {
		if p, ok := fileFlags[f.Name]; ok {
			out[f.Name] = p
			return
		}
		switch {
		case f.Name == "log-level":
			out[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		case isBool(f):
			out[f.Name] = predict.Nothing
		default:
			out[f.Name] = predict.Something
		}
	})
	return out
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
