package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vera/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vera",
	Short: "Vera verification pipeline tooling",
	Long:  `Vera is the incremental compilation and verification core of the vera language`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(monitorCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
