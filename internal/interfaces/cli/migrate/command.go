package migrate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinezone/cinezone/internal/infrastructure/config"
	"github.com/cinezone/cinezone/internal/infrastructure/database"
	"github.com/cinezone/cinezone/internal/infrastructure/migration"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

var (
	env        string
	configPath string
	name       string
	steps      int
)

var errNoGoose = errors.New("versioned migrations are only available for the mysql driver")

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration",
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func initEnv(connect bool) (*config.Config, *migration.Manager, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if connect {
		if err := database.Init(&cfg.Database); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return cfg, migration.NewManager(&cfg.Database, log), log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env)
	return manager.Migrate(database.Get())
}

func runDown(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	goose := manager.Goose()
	if goose == nil {
		return errNoGoose
	}

	log.Infow("running down migrations", "environment", env, "steps", steps)
	if err := goose.MigrateDown(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, manager, _, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	goose := manager.Goose()
	if goose == nil {
		return errNoGoose
	}

	version, err := goose.GetVersion(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Current Version: %d\n", version)

	return goose.Status(database.Get())
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, manager, _, err := initEnv(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	goose := manager.Goose()
	if goose == nil {
		return errNoGoose
	}

	if err := goose.Create(cfg.Database.MigrationsPath, name); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migration '%s' created in %s\n", name, cfg.Database.MigrationsPath)
	return nil
}
