package main

import (
	"catalog/app/auth"
	"catalog/domain"
	"catalog/infra/postgres"
	"catalog/pkg/config"
	"catalog/pkg/logger"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.IsProduction())
	defer log.Sync()

	app := &cli.App{
		Name:  "catalog-admin",
		Usage: "schema and user administration for the catalog service",
		Commands: []*cli.Command{
			migrateCommand(appConfig),
			userCommand(appConfig),
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func migrateCommand(appConfig *config.AppConfig) *cli.Command {
	withMigrator := func(fn func(m *postgres.Migrator) error) error {
		pg := postgres.NewPgRepository(appConfig.PostgresDSN())

		m, err := postgres.NewMigrator(pg.DB())
		if err != nil {
			pg.Close()
			return err
		}
		defer m.Close()

		return fn(m)
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or roll back the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *postgres.Migrator) error {
						if err := m.Up(); err != nil {
							return fmt.Errorf("migrate up: %w", err)
						}
						zap.L().Info("Migrations applied")
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					if steps < 1 {
						return errors.New("--steps must be at least 1")
					}
					return withMigrator(func(m *postgres.Migrator) error {
						if err := m.Down(steps); err != nil {
							return fmt.Errorf("migrate down: %w", err)
						}
						zap.L().Info("Migrations rolled back", zap.Int("steps", steps))
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *postgres.Migrator) error {
						version, dirty, err := m.Version()
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "version %d dirty=%t\n", version, dirty)
						return nil
					})
				},
			},
		},
	}
}

func userCommand(appConfig *config.AppConfig) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage API users",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a user that can log in to the API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"CATALOG_ADMIN_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					pg := postgres.NewPgRepository(appConfig.PostgresDSN())
					defer pg.Close()

					service := auth.NewService(postgres.NewAuthRepository(pg, appConfig.StoreTimeout))
					user, err := service.CreateUser(c.Context, auth.CreateUserInput{
						Name:     c.String("name"),
						Email:    c.String("email"),
						Password: c.String("password"),
					})
					if errors.Is(err, domain.ErrConflict) {
						return fmt.Errorf("a user with email %s already exists", c.String("email"))
					}
					if err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "created user %d (%s)\n", user.ID, user.Email)
					return nil
				},
			},
		},
	}
}
