package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Black-And-White-Club/survivor-pool/app"
	scoringservice "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/application"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func parseUUID(c *cli.Context, flag string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.String(flag))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return id, nil
}

func recomputeCommand() *cli.Command {
	return &cli.Command{
		Name:  "recompute",
		Usage: "rebuild a tournament's standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tournament", Required: true},
			&cli.BoolFlag{Name: "async", Usage: "enqueue a River job instead of recomputing inline"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseUUID(c, "tournament")
			if err != nil {
				return err
			}
			return withApp(c, func(a *app.App) error {
				if c.Bool("async") {
					if err := a.Scoring.Queue.EnqueueRecompute(c.Context, id, "cli"); err != nil {
						return err
					}
					fmt.Println("recompute enqueued")
					return nil
				}
				summary, err := a.Scoring.Service.RecomputeScoring(c.Context, id)
				if err != nil {
					return err
				}
				printRecompute(summary)
				return nil
			})
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "recompute every ACTIVE tournament",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				summary, err := a.Scoring.Service.SweepActiveTournaments(c.Context)
				if err != nil {
					return err
				}
				fmt.Printf("recomputed %d tournament(s)\n", summary.Recomputed)
				for _, id := range summary.Failed {
					fmt.Printf("failed: %s\n", id)
				}
				if len(summary.Failed) > 0 {
					return fmt.Errorf("%d tournament(s) failed", len(summary.Failed))
				}
				return nil
			})
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print a league's standings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "league", Required: true},
			&cli.StringFlag{Name: "chart", Usage: "also write a PNG chart to this path"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseUUID(c, "league")
			if err != nil {
				return err
			}
			return withApp(c, func(a *app.App) error {
				rows, err := a.Scoring.Service.GetStandings(c.Context, id)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "RANK\tUSER\tSTRIKES\tCORRECT\tELIMINATED\tFINAL ROUND")
				for _, r := range rows {
					rank, final := "-", "-"
					if r.Rank != nil {
						rank = fmt.Sprint(*r.Rank)
					}
					if r.FinalRoundSubmission != nil {
						final = r.FinalRoundSubmission.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\t%s\n", rank, r.UserID, r.Strikes, r.CorrectPicks, r.Eliminated, final)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				if path := c.String("chart"); path != "" {
					png, err := a.Scoring.Service.RenderStandingsChart(c.Context, id)
					if err != nil {
						return err
					}
					return os.WriteFile(path, png, 0o644)
				}
				return nil
			})
		},
	}
}

func resultCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "match", Required: true},
		&cli.StringFlag{Name: "winner", Required: true},
		&cli.BoolFlag{Name: "walkover"},
		&cli.StringFlag{Name: "retired", Usage: "id of the player who retired"},
	}
	action := func(correct bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			req, err := resultRequest(c)
			if err != nil {
				return err
			}
			return withApp(c, func(a *app.App) error {
				var summary *scoringservice.ResultSummary
				if correct {
					summary, err = a.Scoring.Service.CorrectResult(c.Context, req)
				} else {
					summary, err = a.Scoring.Service.RecordResult(c.Context, req)
				}
				if err != nil {
					return err
				}
				fmt.Printf("match %s resolved, winner %s\n", summary.Match.ID, *summary.Match.WinnerID)
				printRecompute(summary.Recompute)
				return nil
			})
		}
	}

	return &cli.Command{
		Name:  "result",
		Usage: "enter match results",
		Subcommands: []*cli.Command{
			{Name: "record", Usage: "record the result of an unresolved match", Flags: flags, Action: action(false)},
			{Name: "correct", Usage: "replace the result of a resolved match", Flags: flags, Action: action(true)},
		},
	}
}

func resultRequest(c *cli.Context) (scoringservice.RecordResultRequest, error) {
	matchID, err := parseUUID(c, "match")
	if err != nil {
		return scoringservice.RecordResultRequest{}, err
	}
	winnerID, err := parseUUID(c, "winner")
	if err != nil {
		return scoringservice.RecordResultRequest{}, err
	}
	req := scoringservice.RecordResultRequest{MatchID: matchID, WinnerID: winnerID, IsWalkover: c.Bool("walkover")}
	if c.String("retired") != "" {
		retired, err := parseUUID(c, "retired")
		if err != nil {
			return scoringservice.RecordResultRequest{}, err
		}
		req.RetiredPlayerID = &retired
	}
	return req, nil
}

func printRecompute(s *scoringservice.RecomputeSummary) {
	if s == nil {
		return
	}
	fmt.Printf("tournament %s: %d resolved match(es), threshold %d, final round %d\n",
		s.TournamentID, s.ResolvedMatches, s.Threshold, s.FinalRoundNumber)
	for _, l := range s.Leagues {
		fmt.Printf("  league %s: %d member(s), %d eliminated\n", l.LeagueID, l.Members, l.Eliminated)
	}
}
