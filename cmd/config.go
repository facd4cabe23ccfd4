package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/shopchat/internal/config"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration shopchat would run with, as YAML.

Values are merged from (highest priority first):
  - Command-line flags
  - Environment variables (SHOPCHAT_*, plus OPENAI_API_KEY,
    OPEN_EXCHANGE_APP_ID, OPEN_EXCHANGE_BASE_URL, PRODUCTS_CSV_PATH)
  - ./shopchat.yaml, or the file given with --config
  - ~/.shopchat.yaml
  - Built-in defaults

Secrets are masked. Validation problems are reported on stderr.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().Load(configFile, nil)
	if err != nil {
		return HandleCommandError(err)
	}

	if err := writeConfig(cmd.OutOrStdout(), cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "\nWarning: %v\n", err)
	}
	return nil
}

// writeConfig renders cfg as YAML with secrets masked
func writeConfig(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Masked()); err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	return enc.Close()
}
