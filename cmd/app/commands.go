package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands(version string) []*cli.Command {
	cmds := getSystemCommands(version)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getCloudCommands()...)
	return cmds
}
