package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lionel1704/sn-node/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample vaultd configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/vaultd/config.yaml. Use --config to specify a custom path.

Examples:
  # Initialize with default location
  vaultd init

  # Initialize with custom path
  vaultd init --config /etc/vaultd/config.yaml

  # Force overwrite an existing config
  vaultd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error
	if configFile != "" {
		configPath, err = config.InitConfigToPath(configFile, initForce)
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set root_dir, max_capacity, self, and peers for this node")
	fmt.Println("  2. Start the node with: vaultd serve")
	fmt.Printf("  3. Or specify a custom config: vaultd serve --config %s\n", configPath)
	return nil
}
