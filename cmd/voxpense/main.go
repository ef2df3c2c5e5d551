package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArionMiles/voxpense/pkg/config"
	"github.com/ArionMiles/voxpense/pkg/logging"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "voxpense",
	Short: "Voice-driven monthly expense tracker",
	Long: "Talk to voxpense to record expenses, hear a summary of your month and change your budget.\n\n" +
		"Say \"input my expense\", \"read and summarize my expenses\", \"change my budget\" or \"exit\".",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runVoxpense(cmd.Context())
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Authorize voxpense to use Google Cloud speech services",
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return runSetup(force)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration, credentials and data files",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runStatus()
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print this month's expense summary without voice interaction",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSummary()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultConfigFile, "JSON config file (optional)")
	setupCmd.Flags().Bool("force", false, "Force re-authentication even if a token exists")

	rootCmd.AddCommand(setupCmd, statusCmd, summaryCmd)
}

func main() {
	logging.Setup(logging.DefaultConfig())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
