package main

import (
	"context"
	"fmt"
	"os"

	"novacare-booking/cmd/bootstrap"
	"novacare-booking/config"
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/infrastructure/database"
	"novacare-booking/pkg/validator"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "novacare",
		Short: "NovaCare clinic booking API",
		// Running without a subcommand starts the server
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createStaffCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := bootstrap.NewLogger(cfg)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

func runServer() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize application with all dependencies
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Errorf("Failed to initialize application: %v", err)
		return err
	}

	// Run the application
	return app.Run()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	for _, direction := range []database.MigrateDirection{database.MigrateUp, database.MigrateDown} {
		cmd.AddCommand(&cobra.Command{
			Use:   string(direction),
			Short: fmt.Sprintf("Migrate the schema %s", direction),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig()
				if err != nil {
					return err
				}
				return database.Migrate(cfg.DB, direction, log)
			},
		})
	}

	return cmd
}

func createStaffCmd() *cobra.Command {
	var req dto.CreateStaffRequest

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff login (admin, doctor or receptionist)",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validator.NewValidator()
			if err := v.Validate(&req); err != nil {
				return fmt.Errorf("invalid staff account: %v", v.FormatValidationErrors(err))
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			authUsecase, closeDB, err := bootstrap.NewStaffUsecase(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := authUsecase.CreateStaff(context.Background(), &req)
			if err != nil {
				return fmt.Errorf("failed to create staff account: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&req.Role, "role", "admin", "admin, doctor or receptionist")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("name")

	return cmd
}
