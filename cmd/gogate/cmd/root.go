package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gogate",
	Short: "Session-guarded exercise front end",
	Long: `gogate serves the exercise platform routes. Every route except the login
page goes through the navigation guard, which resolves the session cookie
against Redis and redirects anonymous visitors to /login.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
