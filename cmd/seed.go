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
	"github.com/webdevzw/reviews-apiserver/types"
)

var (
	seedAdminEmail    string
	seedAdminName     string
	seedAdminPassword string
)

var seedReviews = []types.Review{
	{
		Service:     types.ServiceWebsiteDevelopment,
		Content:     "Outstanding website development. They understood our needs perfectly.",
		Rating:      5,
		ClientEmail: "mark@example.com",
		ClientName:  "Mark Johnson",
		PhoneNumber: "1112223333",
	},
	{
		Service:     types.ServiceHosting,
		Content:     "Had some issues with uptime initially, but support was helpful.",
		Rating:      3,
		ClientEmail: "sarah@example.com",
		ClientName:  "Sarah Williams",
		PhoneNumber: "4445556666",
	},
	{
		Service:     types.ServiceDomainSales,
		Content:     "Very competitive pricing and smooth transfer process.",
		Rating:      4,
		ClientEmail: "mike@example.com",
		ClientName:  "Mike Brown",
	},
	{
		Service:     types.ServiceConsulting,
		Content:     "Not entirely satisfied with the consultation. Expected more detailed insights.",
		Rating:      2,
		ClientEmail: "emma@example.com",
		ClientName:  "Emma Davis",
		PhoneNumber: "7778889999",
	},
	{
		Service:     types.ServiceMaintenance,
		Content:     "Excellent maintenance service. Always responsive and proactive.",
		Rating:      5,
		ClientEmail: "david@example.com",
		ClientName:  "David Wilson",
	},
}

// seedCmd represents the seed command.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a dev admin and sample reviews",
	Long: `Seeds the database for local development: provisions (or refreshes)
an admin account and inserts a handful of sample reviews. Reviews are
keyed by client email, so re-running the command never duplicates them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		conn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer conn.Close()

		admins := services.NewAdminService(store.NewAdminRepository(conn))
		if _, err := admins.Upsert(cmd.Context(), seedAdminEmail, seedAdminName, seedAdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		fmt.Printf("seeded admin %s\n", seedAdminEmail)

		repo := store.NewReviewRepository(conn)
		existing, err := repo.List(cmd.Context(), store.ReviewFilter{})
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		seen := make(map[string]bool, len(existing))
		for _, review := range existing {
			seen[review.ClientEmail] = true
		}

		added := 0
		for _, review := range seedReviews {
			if seen[review.ClientEmail] {
				continue
			}
			review.Status = types.StatusPending
			if _, err := repo.Create(cmd.Context(), review); err != nil {
				return fmt.Errorf("seed review from %s: %w", review.ClientName, err)
			}
			fmt.Printf("added review from %s\n", review.ClientName)
			added++
		}

		fmt.Printf("total reviews in database: %d\n", len(existing)+added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@example.com", "seed admin email address")
	seedCmd.Flags().StringVar(&seedAdminName, "admin-name", "Admin", "seed admin display name")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "changeme", "seed admin password")
}
