package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scoutline",
	Short: "Scoutline auth backend",
	Long:  "Scoutline registers players and coaches, checks their credentials and issues the signed session cookies the recruiting app runs on.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults, .env and SCOUTLINE_* variables)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
