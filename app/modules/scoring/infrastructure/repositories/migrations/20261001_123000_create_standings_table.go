package scoringmigrations

import (
	"context"
	"fmt"

	scoringdb "github.com/Black-And-White-Club/survivor-pool/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating standings table...")

		if _, err := db.NewCreateTable().Model((*scoringdb.Standing)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_standings_league_rank ON standings (league_id, rank)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Standings table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping standings table...")

		if _, err := db.NewDropTable().Model((*scoringdb.Standing)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Standings table dropped successfully!")
		return nil
	})
}
