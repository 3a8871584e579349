/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviews-apiserver",
	Short: "API server for the client feedback and testimonial platform",
	Long: `reviews-apiserver powers the feedback collection platform: public
review submission, admin moderation, testimonial curation, and the
public testimonial feed.

Configuration is read from environment variables (a .env file is
loaded in development). See config/config.go for the full list.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
