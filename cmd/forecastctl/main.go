// forecastctl evaluates scenario files offline.
//
// Usage:
//
//	forecastctl forecast --scenario scenario.yaml
//	forecastctl simulate --scenario scenario.yaml --simulation bundle.yaml
//	forecastctl commission --scenario scenario.yaml --commissions affiliates.yaml
//	forecastctl report --scenario scenario.yaml [--simulation bundle.yaml] [--html]
//	forecastctl init > scenario.yaml
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"

	"github.com/Simplici0/forecast/internal/logger"
	"github.com/Simplici0/forecast/internal/validation"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env carries what every command needs.
type env struct {
	out      io.Writer
	log      *slog.Logger
	validate *validator.Validate
}

func newApp(out io.Writer) *cli.App {
	e := &env{out: out, validate: validation.New()}

	return &cli.App{
		Name:    "forecastctl",
		Usage:   "Subscription revenue forecasts from scenario files",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "Output format (text, json)",
			},
		},
		Before: func(c *cli.Context) error {
			e.log = logger.New(os.Stderr, c.String("log-level"))
			switch c.String("format") {
			case formatText, formatJSON:
				return nil
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
		Commands: []*cli.Command{
			forecastCommand(e),
			simulateCommand(e),
			commissionCommand(e),
			reportCommand(e),
			initCommand(e),
		},
	}
}

var scenarioFlag = &cli.StringFlag{
	Name:     "scenario",
	Aliases:  []string{"s"},
	Usage:    "Path to a scenario file (YAML or JSON)",
	Required: true,
}
