package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pascals-lang/pascals/internal/compiler"
	"github.com/pascals-lang/pascals/internal/config"
)

var (
	configDir string
	outDir    string
	logLevel  string
	noColor   bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pascals",
	Short: "Pascal-S front-end: lexer, parser, AST builder and semantic checker",
	Long: `pascals runs the front-end of the Pascal-S teaching language.

Commands:
  lex     Print the token stream of a (.pas) source file
  parse   Print the parse tree
  ast     Print the annotated abstract syntax tree
  check   Run semantic analysis and report errors
  tables  Print the TAB, BTAB and ATAB symbol tables
  build   Run every stage and write all reports to --out
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		logger = slog.New(h).With("run", uuid.NewString())
		if noColor {
			disableColor()
		}
		return nil
	},
}

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("errors reported")

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, renderError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory holding states, transitions and token_maps tables (default: built-in)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory for build reports")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled diagnostics")

	rootCmd.AddCommand(LexCmd, ParseCmd, ASTCmd, CheckCmd, TablesCmd, BuildCmd)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("invalid --log-level %q", s)
	}
	return level, nil
}

// pipeline builds the compiler pipeline from --config or the built-in tables.
func pipeline() (*compiler.Pipeline, error) {
	if configDir == "" {
		return compiler.DefaultPipeline(logger)
	}
	tables, err := config.LoadDir(configDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded tables", "dir", configDir)
	return compiler.NewPipeline(tables, logger)
}

// compileArg runs the pipeline on the single source argument.
func compileArg(cmd *cobra.Command, path string) (*compiler.Result, error) {
	p, err := pipeline()
	if err != nil {
		return nil, err
	}
	return p.CompileFile(cmd.Context(), path)
}

// checkResult prints semantic errors and turns them into a failure.
func checkResult(cmd *cobra.Command, res *compiler.Result) error {
	if len(res.Errors) == 0 {
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), semanticReport(res.Errors, res.Source))
	return errReported
}
