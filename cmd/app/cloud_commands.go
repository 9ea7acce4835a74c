package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/actionserver/cmd/app/commands"
	"github.com/allisson/actionserver/internal/app"
	"github.com/allisson/actionserver/internal/config"
)

func getCloudCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "cloud-login",
			Usage: "Store control-room credentials",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					Usage:   "Control-room access token (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:    "hostname",
					Aliases: []string{"H"},
					Usage:   "Control-room hostname (omit to use the configured default)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				credentialUseCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				ioTuple := commands.DefaultIO()
				return commands.RunCloudLogin(
					ctx,
					credentialUseCase,
					container.Logger(),
					ioTuple.Reader,
					ioTuple.Writer,
					cmd.String("token"),
					cmd.String("hostname"),
				)
			},
		},
		{
			Name:  "cloud-logout",
			Usage: "Remove stored control-room credentials",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				credentialUseCase, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunCloudLogout(
					ctx,
					credentialUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
