package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// check: semantic analysis only
var CheckCmd = &cobra.Command{
	Use:   "check <source.pas>",
	Short: "Run semantic analysis and report every error",
	Args:  cobra.ExactArgs(1),
	RunE:  checkRun,
}

func checkRun(cmd *cobra.Command, args []string) error {
	res, err := compileArg(cmd, args[0])
	if err != nil {
		return err
	}
	if err := checkResult(cmd, res); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), okLine(fmt.Sprintf("program '%s' has no semantic errors", res.Program.Name)))
	return nil
}
