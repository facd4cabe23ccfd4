package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/shopchat/internal/errors"
)

var (
	configFile  string
	debugFlag   bool
	verboseFlag bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "Shopping assistant chatbot with tool calling",
	Long: `Shopchat answers shoppers' questions with an LLM that can call tools.

The model can search the product catalog and convert prices between
currencies using live exchange rates. Run "shopchat serve" to expose the
chatbot over HTTP or "shopchat ask" for a one-off question.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the error's exit code
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCodeOf(err).Int())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./shopchat.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level on the console")
}
