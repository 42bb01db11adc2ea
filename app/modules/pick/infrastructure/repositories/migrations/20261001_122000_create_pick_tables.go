package pickmigrations

import (
	"context"
	"fmt"

	pickdb "github.com/Black-And-White-Club/survivor-pool/app/modules/pick/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating pick_submissions and picks tables...")

		if _, err := db.NewCreateTable().Model((*pickdb.PickSubmission)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*pickdb.Pick)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_picks_league_id ON picks (league_id)").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_picks_round_id ON picks (round_id)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Pick tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping pick tables...")

		if _, err := db.NewDropTable().Model((*pickdb.Pick)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*pickdb.PickSubmission)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Pick tables dropped successfully!")
		return nil
	})
}
