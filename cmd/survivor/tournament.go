package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app"
	tournamentdomain "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/domain"
	"github.com/urfave/cli/v2"
)

func importCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "tournament", Required: true},
		&cli.StringFlag{Name: "file", Required: true, Usage: "CSV or XLSX file"},
	}
	return &cli.Command{
		Name:  "import",
		Usage: "import players or matches from a spreadsheet",
		Subcommands: []*cli.Command{
			{
				Name:  "players",
				Usage: "rows: name, seed, country",
				Flags: flags,
				Action: func(c *cli.Context) error {
					id, err := parseUUID(c, "tournament")
					if err != nil {
						return err
					}
					data, err := os.ReadFile(c.String("file"))
					if err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						players, err := a.Tournament.Service.ImportPlayers(c.Context, id, filepath.Base(c.String("file")), data)
						if err != nil {
							return err
						}
						fmt.Printf("imported %d player(s)\n", len(players))
						return nil
					})
				},
			},
			{
				Name:  "matches",
				Usage: "rows: round number, player 1 name, player 2 name",
				Flags: flags,
				Action: func(c *cli.Context) error {
					id, err := parseUUID(c, "tournament")
					if err != nil {
						return err
					}
					data, err := os.ReadFile(c.String("file"))
					if err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						matches, err := a.Tournament.Service.ImportMatches(c.Context, id, filepath.Base(c.String("file")), data)
						if err != nil {
							return err
						}
						fmt.Printf("imported %d match(es)\n", len(matches))
						return nil
					})
				},
			},
		},
	}
}

func tournamentCommand() *cli.Command {
	return &cli.Command{
		Name:  "tournament",
		Usage: "manage tournaments",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "advance a tournament one step: UPCOMING, ACTIVE, COMPLETED",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tournament", Required: true},
					&cli.StringFlag{Name: "status", Required: true},
				},
				Action: func(c *cli.Context) error {
					id, err := parseUUID(c, "tournament")
					if err != nil {
						return err
					}
					status := tournamentdomain.Status(strings.ToUpper(c.String("status")))
					return withApp(c, func(a *app.App) error {
						t, err := a.Tournament.Service.UpdateTournamentStatus(c.Context, id, status)
						if err != nil {
							return err
						}
						fmt.Printf("%s %d is now %s\n", t.Name, t.Year, t.Status)
						return nil
					})
				},
			},
			{
				Name:  "lock-time",
				Usage: `move a round's lock time, e.g. --at "tomorrow at 6pm"`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "round", Required: true},
					&cli.StringFlag{Name: "at", Required: true},
				},
				Action: func(c *cli.Context) error {
					id, err := parseUUID(c, "round")
					if err != nil {
						return err
					}
					return withApp(c, func(a *app.App) error {
						r, err := a.Tournament.Service.UpdateRoundLockTime(c.Context, id, c.String("at"))
						if err != nil {
							return err
						}
						fmt.Printf("%s locks at %s\n", r.Name, r.LockTime.Format(time.RFC3339))
						return nil
					})
				},
			},
		},
	}
}
