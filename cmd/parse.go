package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pascals-lang/pascals/internal/compiler"
	"github.com/pascals-lang/pascals/internal/compiler/emitter"
)

// parse: print the concrete parse tree
var ParseCmd = &cobra.Command{
	Use:   "parse <source.pas>",
	Short: "Print the parse tree of a Pascal-S source file",
	Args:  cobra.ExactArgs(1),
	RunE:  parseRun,
}

func parseRun(cmd *cobra.Command, args []string) error {
	src, err := compiler.ReadSource(args[0])
	if err != nil {
		return err
	}
	p, err := pipeline()
	if err != nil {
		return err
	}
	toks, err := p.Tokenize(src)
	if err != nil {
		return err
	}
	tree, err := p.Parse(toks, src)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), emitter.NewEmitter().ParseTree(tree))
	return nil
}
