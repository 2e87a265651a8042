package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mandalnilabja/goatlate/internal/client"
	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/types"
)

var translateCommand = &cli.Command{
	Name:      "translate",
	Usage:     "Translate text into another language",
	ArgsUsage: "[text...]",
	Description: `Translates the arguments, or stdin when no arguments are given and stdin
is not a terminal. The translation is printed as it arrives.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "Target language",
			Aliases:  []string{"t"},
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		text, err := inputText(c)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("no text to translate")
		}
		return runSession(c, func(s *client.Session) error {
			return s.Translate(c.Context, text, c.String("to"))
		})
	},
}

var chatCommand = &cli.Command{
	Name:      "chat",
	Usage:     "Send a chat message",
	ArgsUsage: "message...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "system",
			Usage: "System instruction sent before the message",
		},
	},
	Action: func(c *cli.Context) error {
		text, err := inputText(c)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("no message given")
		}

		var messages []types.Message
		if system := c.String("system"); system != "" {
			messages = append(messages, types.NewTextMessage(types.RoleSystem, system))
		}
		messages = append(messages, types.NewTextMessage(types.RoleUser, text))

		return runSession(c, func(s *client.Session) error {
			return s.Chat(c.Context, messages)
		})
	},
}

var languagesCommand = &cli.Command{
	Name:  "languages",
	Usage: "List the languages offered by the server",
	Action: func(c *cli.Context) error {
		langs, err := client.New(c.String("server"), nil).Languages(c.Context)
		if err != nil {
			return err
		}
		for _, l := range langs {
			fmt.Fprintln(c.App.Writer, l)
		}
		return nil
	},
}

var hashPasswordCommand = &cli.Command{
	Name:      "hash-password",
	Usage:     "Print an argon2id hash for ADMIN_PASSWORD_HASH",
	ArgsUsage: "[password]",
	Description: `Hashes the argument, or the first line of stdin. Put the output in
ADMIN_PASSWORD_HASH or admin_password_hash in config.toml.`,
	Action: func(c *cli.Context) error {
		password := c.Args().First()
		if password == "" {
			line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		if err := storage.ValidatePassword(password); err != nil {
			return err
		}
		hash, err := storage.HashPassword(password, storage.DefaultPasswordParams())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, hash)
		return nil
	},
}

// inputText joins the arguments, falling back to piped stdin.
func inputText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if stdinIsTerminal() {
		return "", nil
	}
	raw, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(raw), "\r\n"), nil
}

// runSession streams one request to the terminal. Errors are printed by the
// presenter, so they are returned as errReported.
func runSession(c *cli.Context, run func(*client.Session) error) error {
	p := newTerminalPresenter(c.App.Writer, c.App.ErrWriter)
	session := client.NewSession(client.New(c.String("server"), nil), p)
	if err := run(session); err != nil {
		return errReported
	}
	return nil
}
