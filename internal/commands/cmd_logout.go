package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/parlor/internal/printer"
)

type LogoutCmd struct {
	flags *Flags
}

func NewLogoutCmd(flags *Flags) *LogoutCmd {
	return &LogoutCmd{flags: flags}
}

func (cmd *LogoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "logout",
		Usage:       "Forget the current session",
		UsageText:   "parlor logout",
		Description: "Drops the persisted session cookie. The identity remains on the server and can be resumed by logging in under the same name.",
		Action:      cmd.run,
	})
	return app
}

func (cmd *LogoutCmd) run(ctx context.Context, _ *cli.Command) error {
	cmd.flags.Service.Logout()
	printer.Ctx(ctx).Successf("logged out")
	return nil
}
