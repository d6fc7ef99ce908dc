package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/parlor/internal/chat"
	"github.com/hay-kot/parlor/internal/printer"
)

type RoomsCmd struct {
	flags   *Flags
	private bool
}

func NewRoomsCmd(flags *Flags) *RoomsCmd {
	return &RoomsCmd{flags: flags}
}

func (cmd *RoomsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "rooms",
		Usage:       "List joined and discoverable rooms",
		UsageText:   "parlor rooms [command]",
		Description: "Without a subcommand, prints both room feeds for the logged-in session.",
		Action:      cmd.runList,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new room",
				UsageText: "parlor rooms create <name> [options]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "private",
						Usage:       "create the room invite-only instead of public",
						Destination: &cmd.private,
					},
				},
				Action: cmd.runCreate,
			},
		},
	})
	return app
}

func (cmd *RoomsCmd) runList(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.requireSession(ctx); err != nil {
		return err
	}
	if err := cmd.flags.Service.RefreshFeeds(ctx); err != nil {
		return err
	}

	feeds := cmd.flags.Service.Feeds()

	p.Section("My Rooms")
	printRooms(p, feeds.Joined(), true)

	p.Printf("")
	p.Section("Discover")
	printRooms(p, feeds.Discoverable(), false)

	return nil
}

func (cmd *RoomsCmd) runCreate(ctx context.Context, c *cli.Command) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("room name is required. Run 'parlor rooms create <name>'")
	}

	if err := cmd.requireSession(ctx); err != nil {
		return err
	}

	room, err := cmd.flags.Service.CreateRoom(ctx, name, !cmd.private)
	if err != nil {
		return err
	}

	visibility := "public"
	if !room.Public {
		visibility = "private"
	}
	printer.Ctx(ctx).Successf("created %s room %q", visibility, room.Name)
	return nil
}

// requireSession resolves the persisted session or fails with a hint.
func (cmd *RoomsCmd) requireSession(ctx context.Context) error {
	identity, err := cmd.flags.Service.Probe(ctx)
	if err != nil {
		return err
	}
	if identity == nil {
		return fmt.Errorf("%w. Run 'parlor login' first", chat.ErrNoSession)
	}
	return nil
}

func printRooms(p *printer.Printer, rooms []chat.Room, joined bool) {
	if len(rooms) == 0 {
		p.Infof("none")
		return
	}

	for _, room := range rooms {
		detail := "by " + room.Owner.Name
		if room.ActiveUsers > 0 {
			detail += fmt.Sprintf(" %s %d online", printer.Dot, room.ActiveUsers)
		}
		if joined && room.Unread > 0 {
			detail += fmt.Sprintf(" %s %d unread", printer.Dot, room.Unread)
		}
		if !room.Public {
			detail += " " + printer.Dot + " private"
		}
		p.CheckItem(room.Name, detail)
	}
}
