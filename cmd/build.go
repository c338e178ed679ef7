package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// build: run every stage and write the reports
var BuildCmd = &cobra.Command{
	Use:   "build <source.pas>",
	Short: "Run every stage and write token, tree, AST and table reports",
	Args:  cobra.ExactArgs(1),
	RunE:  buildRun,
}

func buildRun(cmd *cobra.Command, args []string) error {
	src := args[0]
	p, err := pipeline()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "↪ building %q → %q ...\n", src, outDir+"/")

	written, res, err := p.CompileAndWrite(cmd.Context(), src, outDir)
	for _, f := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "✔︎ wrote %s\n", f)
	}
	if err != nil {
		return err
	}
	return checkResult(cmd, res)
}
