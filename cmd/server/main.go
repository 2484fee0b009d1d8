package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	appName = "clinic-crm"
	Version = "0.1.0"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Clinic management API",
		Long: `Clinic management API: clients, calendar, sales funnel, finance,
suppliers, staff and reports, backed by PostgreSQL or Supabase.

Without a subcommand the HTTP server is started.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envPath)
		},
	}
	cmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Optional .env file to load before reading the environment")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envPath)
		},
	})
	cmd.AddCommand(migrateCmd(&envPath))
	cmd.AddCommand(createAdminCmd(&envPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}
