package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/shopchat/internal/errors"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the chatbot a single question",
	Long: `Run one function-calling conversation and print the answer.

The question is taken from the arguments, or read from stdin when the only
argument is "-".`,
	Example: `  shopchat ask "How much is the iPhone 12 in euros?"
  echo "Convert 100 COP to USD" | shopchat ask -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	input, err := readQuestion(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	logger, err := InitLogger(cfg.Logging, debugFlag, verboseFlag)
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, err := BuildApp(cfg, logger, false)
	if err != nil {
		return HandleCommandError(err)
	}

	reg, err := app.Registry()
	if err != nil {
		return err
	}

	answer, err := app.Caller.Run(cmd.Context(), input, reg)
	if err != nil {
		return HandleCommandError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

// readQuestion joins args, or reads r when args is just "-"
func readQuestion(r io.Reader, args []string) (string, error) {
	var input string
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read question from stdin: %w", err)
		}
		input = string(data)
	} else {
		input = strings.Join(args, " ")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.NewValidationError("question is empty")
	}
	return input, nil
}
