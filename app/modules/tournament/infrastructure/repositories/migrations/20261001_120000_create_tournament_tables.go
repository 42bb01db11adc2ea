package tournamentmigrations

import (
	"context"
	"fmt"

	tournamentdb "github.com/Black-And-White-Club/survivor-pool/app/modules/tournament/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournaments, rounds, players and matches tables...")

		models := []interface{}{
			(*tournamentdb.Tournament)(nil),
			(*tournamentdb.Round)(nil),
			(*tournamentdb.Player)(nil),
			(*tournamentdb.Match)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_tournaments_status ON tournaments (status)",
			"CREATE INDEX IF NOT EXISTS idx_matches_round_id ON matches (round_id)",
			"CREATE INDEX IF NOT EXISTS idx_matches_unresolved ON matches (round_id) WHERE winner_id IS NULL",
			"CREATE INDEX IF NOT EXISTS idx_players_tournament_id ON players (tournament_id)",
		}
		for _, stmt := range indexes {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Tournament tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournament tables...")

		models := []interface{}{
			(*tournamentdb.Match)(nil),
			(*tournamentdb.Player)(nil),
			(*tournamentdb.Round)(nil),
			(*tournamentdb.Tournament)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Tournament tables dropped successfully!")
		return nil
	})
}
