package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/mediafaves/internal/db"
)

// dbFlags holds the store selection shared by the migrate subcommands.
// Only DB_* settings are read so migrations run without API secrets.
type dbFlags struct {
	driver     string
	connection string
}

func (f *dbFlags) bind(cmd *cobra.Command) {
	_ = godotenv.Load()
	cmd.PersistentFlags().StringVar(&f.driver, "driver", envOr("DB_DRIVER", "sqlite"), "database driver (sqlite or pgx)")
	cmd.PersistentFlags().StringVar(&f.connection, "dsn", envOr("DB_CONNECTION", "./data/mediafaves.db?_pragma=foreign_keys(1)"), "database connection string")
}

func MigrateCmd() *cobra.Command {
	flags := &dbFlags{}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	flags.bind(migrateCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, db.RunMigrations)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(flags, db.MigrateDown)
		},
	})

	return migrateCmd
}

func withDB(flags *dbFlags, run func(*sql.DB, string) error) error {
	database, err := db.Init(flags.driver, flags.connection)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	err = run(database.DB, flags.driver)
	if err != nil {
		return err
	}

	fmt.Println("==> Done")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
