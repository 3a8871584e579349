/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webdevzw/reviews-apiserver/config"
	"github.com/webdevzw/reviews-apiserver/internal/db"
	"github.com/webdevzw/reviews-apiserver/internal/services"
	"github.com/webdevzw/reviews-apiserver/internal/store"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

// adminCmd represents the admin command.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Creates an admin account that can sign in to the moderation
dashboard. The password is bcrypt-hashed before it is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer conn.Close()

		admins := services.NewAdminService(store.NewAdminRepository(conn))
		admin, err := admins.Create(cmd.Context(), adminEmail, adminName, adminPassword)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Printf("created admin %s (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "admin display name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("name")
	_ = adminCreateCmd.MarkFlagRequired("password")
}
