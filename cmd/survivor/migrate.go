package main

import (
	"fmt"

	"github.com/Black-And-White-Club/survivor-pool/app"
	"github.com/Black-And-White-Club/survivor-pool/app/dbmigrate"
	"github.com/urfave/cli/v2"
)

func migrateCommand() *cli.Command {
	withMigrators := func(fn func(c *cli.Context, dsn string, migrators []dbmigrate.ModuleMigrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, _, err := loadConfig(c)
			if err != nil {
				return err
			}
			db := app.OpenDB(cfg.Postgres.DSN)
			defer db.Close()
			return fn(c, cfg.Postgres.DSN, dbmigrate.Migrators(db))
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []dbmigrate.ModuleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.Name)
						if err := m.Migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.Name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database, River included",
				Action: withMigrators(func(c *cli.Context, dsn string, migrators []dbmigrate.ModuleMigrator) error {
					for _, m := range migrators {
						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.Name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.Name, group)
						}
					}
					versions, err := dbmigrate.MigrateRiver(c.Context, dsn)
					if err != nil {
						return err
					}
					fmt.Printf("River: applied versions %v\n", versions)
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module, in reverse order",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []dbmigrate.ModuleMigrator) error {
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						group, err := m.Migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.Name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.Name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.Name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, _ string, migrators []dbmigrate.ModuleMigrator) error {
					for _, m := range migrators {
						ms, err := m.Migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.Name)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
