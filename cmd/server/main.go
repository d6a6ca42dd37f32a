package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "SiteOptz AI tool cost calculator",
	Long: `server runs the SiteOptz cost calculator and lead capture service.

Visitors pick up to five AI tools, choose a plan and usage level for each,
and see what the tools cost their team per month or per year. The same
binary migrates and seeds the database and projects costs from the command
line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(projectCmd)
}

func main() {
	Execute()
}
