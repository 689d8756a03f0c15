package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lox/pokerprobability/internal/config"
)

// version is set by ldflags during build
var version = "dev"

const defaultEnvFile = ".env"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	EnvFile string           `name:"env-file" default:".env" help:"File of KEY=VALUE pairs loaded into the environment before flags are resolved"`

	Run      RunCmd      `cmd:"" default:"withargs" help:"Estimate hand category probabilities by sampling"`
	Classify ClassifyCmd `cmd:"" help:"Classify a single five-card hand"`
}

func main() {
	// kong resolves env tags during parsing, so the file has to be loaded first.
	if err := config.LoadEnv(envFileFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerprob"),
		kong.Description("Monte Carlo estimator for five-card poker hand probabilities"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// envFileFromArgs finds --env-file in args without a full parse.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultEnvFile
}
