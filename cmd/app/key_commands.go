package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/actionserver/cmd/app/commands"
	authService "github.com/allisson/actionserver/internal/auth/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-decrypt-key",
			Usage: "Generate a new action-context decrypt key",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunGenerateDecryptKey(commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "generate-api-key",
			Usage: "Generate a static API key and its Argon2id hash",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunGenerateAPIKey(
					authService.NewAPIKeyService(),
					commands.DefaultIO().Writer,
				)
			},
		},
		{
			Name:  "encrypt-context",
			Usage: "Build an action-context envelope from a JSON payload file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"f"},
					Required: true,
					Usage:    "Path to the JSON payload file ('-' reads stdin)",
				},
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "Base64-encoded 32-byte encryption key (from generate-decrypt-key)",
				},
				&cli.BoolFlag{
					Name:    "plain",
					Aliases: []string{"p"},
					Value:   false,
					Usage:   "Emit an unencrypted envelope",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ioTuple := commands.DefaultIO()
				return commands.RunEncryptContext(
					ioTuple.Reader,
					ioTuple.Writer,
					cmd.String("file"),
					cmd.String("key"),
					cmd.Bool("plain"),
				)
			},
		},
	}
}
