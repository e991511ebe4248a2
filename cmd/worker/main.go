package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Offline maintenance for the dApp builder backend",
	Long:  `Sweep stale scratch directories and compose Move packages without publishing them`,
}

func init() {
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newComposeVisualCmd())
	rootCmd.AddCommand(newCatalogCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
