package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cinezone/cinezone/internal/infrastructure/auth"
	"github.com/cinezone/cinezone/internal/infrastructure/config"
	"github.com/cinezone/cinezone/internal/infrastructure/database"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/seeds"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

var (
	env            string
	configPath     string
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert reference data",
		Long:  `Create the default movie categories and, when an email is given, an administrator account. Existing rows are left untouched.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Email of the administrator to create")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password of the administrator to create")
	cmd.Flags().StringVar(&adminFirstName, "admin-first-name", "Admin", "First name of the administrator")
	cmd.Flags().StringVar(&adminLastName, "admin-last-name", "CineZone", "Last name of the administrator")
	cmd.MarkFlagsRequiredTogether("admin-email", "admin-password")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	created, err := seeds.SeedCategories(database.Get())
	if err != nil {
		return err
	}
	log.Infow("categories seeded", "created", created)

	if adminEmail == "" {
		return nil
	}

	hash, err := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost).Hash(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	inserted, err := seeds.SeedAdmin(database.Get(), seeds.AdminAccount{
		Email:        adminEmail,
		PasswordHash: hash,
		FirstName:    adminFirstName,
		LastName:     adminLastName,
	})
	if err != nil {
		return err
	}
	if inserted {
		log.Infow("administrator created", "email", adminEmail)
	} else {
		log.Infow("administrator already exists", "email", adminEmail)
	}
	return nil
}
