package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pascals-lang/pascals/internal/compiler"
	"github.com/pascals-lang/pascals/internal/compiler/emitter"
)

// lex: print the token stream
var LexCmd = &cobra.Command{
	Use:   "lex <source.pas>",
	Short: "Print the token stream of a Pascal-S source file",
	Args:  cobra.ExactArgs(1),
	RunE:  lexRun,
}

func lexRun(cmd *cobra.Command, args []string) error {
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
	fmt.Fprint(cmd.OutOrStdout(), emitter.NewEmitter().Tokens(toks))
	return nil
}
