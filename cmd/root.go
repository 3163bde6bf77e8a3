// Package cmd wires the notimail command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notimail",
	Short: "Notification dispatch service for the appointment portal",
	Long:  "notimail resolves recipients, composes notification emails, and dispatches them through the transactional delivery provider.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(adminCmd)
}
