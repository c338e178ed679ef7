package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pascals-lang/pascals/internal/compiler/emitter"
)

// ast: print the decorated AST
var ASTCmd = &cobra.Command{
	Use:   "ast <source.pas>",
	Short: "Print the annotated abstract syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  astRun,
}

func astRun(cmd *cobra.Command, args []string) error {
	res, err := compileArg(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), emitter.NewEmitter().AST(res.Program))
	return checkResult(cmd, res)
}
