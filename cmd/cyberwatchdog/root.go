package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cyberwatchdog",
		Short: "Bilingual (English/Nepali) risk assessor for URLs and text",
		Long: `cyberwatchdog inspects a URL or a piece of text and explains, in English
and Nepali, whether it looks like phishing, credential harvesting or malware
distribution.

URL and content heuristics are always applied. When HF_API_TOKEN is set (in
the environment or a .env file) a zero-shot classifier adds a second opinion.
The result is a triage aid, not a security boundary.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .cyberwatchdog in current or home directory)")
	cmd.PersistentFlags().String("env-file", ".env", "dotenv file consulted for HF_API_TOKEN")

	cmd.AddCommand(NewAssessCmd())
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
