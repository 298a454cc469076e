package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vista",
	Short: "Clearview Vista - plataforma de análise fundamentalista",
	Long: `Clearview Vista Unified CLI

Backend da plataforma Clearview Capital: análise fundamentalista,
carteira recomendada, alertas e newsletter diária.

Usage:
  go run ./cmd/vista [command]

Examples:
  go run ./cmd/vista api
  go run ./cmd/vista portfolio rebuild
  go run ./cmd/vista report PETR4
  go run ./cmd/vista scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

var (
	// Global flags
	configFile string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
