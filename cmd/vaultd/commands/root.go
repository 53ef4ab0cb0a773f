// Package commands implements the vaultd CLI: the data-handling core's
// operator-facing daemon and maintenance commands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

// rootCmd is the base command when vaultd is called without arguments.
var rootCmd = &cobra.Command{
	Use:   "vaultd",
	Short: "Vault node data-handling core",
	Long: `vaultd runs the data-handling core of one vault node: the Elder
coordination and Adult holder roles for immutable, mutable, and append-only
object storage.

Use "vaultd [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetConfigFile returns the --config flag's value, empty if unset (in
// which case the default config path applies).
func GetConfigFile() string {
	return configFile
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: $XDG_CONFIG_HOME/vaultd/config.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}
