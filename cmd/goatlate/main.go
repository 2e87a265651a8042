// Command goatlate is a terminal client for the goatlate relay.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/version"
)

// errReported means the failure was already shown to the user.
var errReported = errors.New("reported")

const defaultServer = "http://localhost:8080"

// stdinIsTerminal reports whether stdin is interactive.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "goatlate",
		Usage:     "Stream translations from a goatlate server",
		Version:   version.Version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Relay base URL",
				Aliases: []string{"s"},
				EnvVars: []string{"GOATLATE_SERVER"},
				Value:   defaultServer,
			},
		},
		Commands: []*cli.Command{
			translateCommand,
			chatCommand,
			languagesCommand,
			hashPasswordCommand,
		},
	}
}

func main() {
	config.LoadDotEnv()

	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
