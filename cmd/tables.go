package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pascals-lang/pascals/internal/compiler/emitter"
)

// tables: print TAB, BTAB and ATAB after analysis
var TablesCmd = &cobra.Command{
	Use:   "tables <source.pas>",
	Short: "Print the symbol tables built by semantic analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  tablesRun,
}

func tablesRun(cmd *cobra.Command, args []string) error {
	res, err := compileArg(cmd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), emitter.NewEmitter().Tables(res.Table))
	return checkResult(cmd, res)
}
