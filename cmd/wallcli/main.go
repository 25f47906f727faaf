// wallcli is an operator tool for inspecting and validating map files
// before they're handed to the match server via MAP_PATH.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wallcli",
	Short: "Inspect and validate breachline map files",
	Long:  "wallcli loads destructible-wall map JSON through the same loader the match server uses and reports on it.",
}

func main() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
