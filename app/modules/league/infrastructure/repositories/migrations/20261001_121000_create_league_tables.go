package leaguemigrations

import (
	"context"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/survivor-pool/app/modules/league/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leagues and league_memberships tables...")

		if _, err := db.NewCreateTable().Model((*leaguedb.League)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*leaguedb.Membership)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_leagues_tournament_id ON leagues (tournament_id)").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_league_memberships_league_id ON league_memberships (league_id)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("League tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping league tables...")

		if _, err := db.NewDropTable().Model((*leaguedb.Membership)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*leaguedb.League)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("League tables dropped successfully!")
		return nil
	})
}
