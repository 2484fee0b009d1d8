package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clinic_crm_backend/internal/config"
	"clinic_crm_backend/internal/database"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
	"clinic_crm_backend/internal/services"
	"clinic_crm_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errPostgresOnly = errors.New("this command needs BACKEND_DRIVER=postgres")

func openPostgres(ctx context.Context, envPath string) (*sql.DB, error) {
	cfg, err := config.New(envPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	utils.InitLogger(cfg.LogLevel)
	if cfg.Backend.Driver != config.DriverPostgres {
		return nil, errPostgresOnly
	}
	if !cfg.BackendConfigured() {
		return nil, fmt.Errorf("missing configuration: %s", strings.Join(cfg.MissingBackendKeys(), ", "))
	}
	return database.Open(ctx, cfg.Backend.URL)
}

func migrateCmd(envPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openPostgres(cmd.Context(), *envPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}
			utils.LogInfo("Migrations applied")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openPostgres(cmd.Context(), *envPath)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.MigrationStatus(db)
		},
	})
	return cmd
}

// createAdminCmd seeds the first ADMIN account so someone can log in.
func createAdminCmd(envPath *string) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or replace an ADMIN staff account (postgres driver)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("--password must have at least 8 characters")
			}
			if !utils.IsValidEmail(email) {
				return fmt.Errorf("--email %q is not a valid email", email)
			}
			db, err := openPostgres(cmd.Context(), *envPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}

			hashed, err := services.HashPassword(password)
			if err != nil {
				return err
			}
			email = strings.ToLower(strings.TrimSpace(email))
			id := uuid.NewString()
			existing, _, err := repositories.NewAuthRepository(db).FindUserByEmail(cmd.Context(), email)
			switch {
			case err == nil:
				id = existing.ID
			case !errors.Is(err, repositories.ErrNotFound):
				return err
			}

			err = repositories.NewStaffRepository(db).Upsert(cmd.Context(), models.User{
				ID:           id,
				Name:         name,
				Email:        email,
				PasswordHash: hashed,
				Role:         models.RoleAdmin,
				Active:       true,
			})
			if err != nil {
				return err
			}
			utils.LogInfo("Admin account ready", map[string]interface{}{"id": id, "email": email})
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrador", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
