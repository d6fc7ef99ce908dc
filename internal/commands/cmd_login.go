package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/parlor/internal/printer"
	"github.com/hay-kot/parlor/internal/styles"
)

type LoginCmd struct {
	flags *Flags
	name  string
}

func NewLoginCmd(flags *Flags) *LoginCmd {
	return &LoginCmd{flags: flags}
}

func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "login",
		Usage:       "Start a chat session",
		UsageText:   "parlor login [options]",
		Description: "Creates or resumes a session under the given display name. The session cookie is persisted so later invocations stay logged in.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "display name",
				Destination: &cmd.name,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *LoginCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	// Reuse an existing session instead of minting a new identity.
	if identity, err := cmd.flags.Service.Probe(ctx); err == nil && identity != nil {
		p.Infof("already logged in as %s", identity.Name)
		return nil
	}

	if cmd.name == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Display Name").
				Value(&cmd.name),
		)).WithTheme(styles.FormTheme())
		if err := form.Run(); err != nil {
			return fmt.Errorf("read display name: %w", err)
		}
	}

	identity, err := cmd.flags.Service.Login(ctx, cmd.name)
	if err != nil {
		return err
	}

	p.Successf("logged in as %s", identity.Name)
	return nil
}
