package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := `# DockTiles Configuration

server:
  host: 0.0.0.0
  port: 8088
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false

docker:
  host: ""
  tls_verify: false
  cert_path: ""

security:
  # Bearer token required for every page and action when set.
  auth_secret: ""
  actions_enabled: true
  rate_limit: 100
  allowed_origins:
    - "*"

ui:
  port_hints: "8080,3000,80,5000,8000,8888,9090"
  external_url: ""
`

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Println("✓ Created config.yaml")
	return nil
}
