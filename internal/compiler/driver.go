package compiler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/astbuild"
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/dfa"
	"github.com/pascals-lang/pascals/internal/compiler/emitter"
	"github.com/pascals-lang/pascals/internal/compiler/lexer"
	"github.com/pascals-lang/pascals/internal/compiler/parser"
	"github.com/pascals-lang/pascals/internal/compiler/semantic"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/config"
)

// SourceExt is the required extension of program files.
const SourceExt = ".pas"

// Pipeline runs lexing, parsing, AST building and analysis. The tables are
// shared read-only; every run builds fresh stage state.
type Pipeline struct {
	dfa    *dfa.Config
	lexCfg lexer.Config
	logger *slog.Logger
}

// NewPipeline builds a pipeline from loaded tables. A nil logger discards.
func NewPipeline(tables *config.Tables, logger *slog.Logger) (*Pipeline, error) {
	d, lc, err := tables.Build()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{dfa: d, lexCfg: lc, logger: logger}, nil
}

// DefaultPipeline uses the built-in tables.
func DefaultPipeline(logger *slog.Logger) (*Pipeline, error) {
	tables, err := config.Default()
	if err != nil {
		return nil, err
	}
	return NewPipeline(tables, logger)
}

// Result holds every stage output produced before the run stopped.
type Result struct {
	Source  string
	Tokens  []token.Token
	Tree    *cst.Node
	Program *ast.Program
	Table   *symbols.Table
	Errors  []*semantic.Error
}

// OK reports whether analysis ran and found no semantic errors.
func (r *Result) OK() bool {
	return r.Table != nil && len(r.Errors) == 0
}

func (p *Pipeline) Tokenize(src string) ([]token.Token, error) {
	start := time.Now()
	toks, err := lexer.NewLexer(dfa.NewEngine(p.dfa), p.lexCfg).Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	p.logger.Debug("lexed", "tokens", len(toks), "duration", time.Since(start))
	return toks, nil
}

func (p *Pipeline) Parse(toks []token.Token, src string) (*cst.Node, error) {
	start := time.Now()
	tree, err := parser.NewParser(toks).WithSource(src).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	p.logger.Debug("parsed", "duration", time.Since(start))
	return tree, nil
}

func (p *Pipeline) Build(tree *cst.Node) (*ast.Program, error) {
	start := time.Now()
	prog, err := astbuild.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("build ast: %w", err)
	}
	p.logger.Debug("built ast", "program", prog.Name, "duration", time.Since(start))
	return prog, nil
}

// Analyze checks prog with a fresh analyzer and returns its table and errors.
func (p *Pipeline) Analyze(prog *ast.Program) (*symbols.Table, []*semantic.Error) {
	start := time.Now()
	a := semantic.New()
	_, errs := a.Analyze(prog)
	p.logger.Debug("analyzed", "errors", len(errs), "duration", time.Since(start))
	return a.Table(), errs
}

// Compile runs every stage on src. Lexical, parse and AST errors stop the
// run and are returned; semantic errors are collected in the Result.
func (p *Pipeline) Compile(ctx context.Context, src string) (*Result, error) {
	res := &Result{Source: src}
	var err error

	if res.Tokens, err = p.Tokenize(src); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if res.Tree, err = p.Parse(res.Tokens, src); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if res.Program, err = p.Build(res.Tree); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	res.Table, res.Errors = p.Analyze(res.Program)
	return res, nil
}

// CompileFile validates the extension, reads and compiles one file.
func (p *Pipeline) CompileFile(ctx context.Context, srcPath string) (*Result, error) {
	content, err := ReadSource(srcPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("compiling", "file", srcPath)
	return p.Compile(ctx, content)
}

// CompileAndWrite compiles srcPath and writes one report per completed
// stage into outDir. It returns the written paths.
func (p *Pipeline) CompileAndWrite(ctx context.Context, srcPath, outDir string) ([]string, *Result, error) {
	res, err := p.CompileFile(ctx, srcPath)
	if res == nil {
		return nil, nil, err
	}
	written, werr := writeReports(res, srcPath, outDir)
	if err != nil {
		return written, res, err
	}
	return written, res, werr
}

// ReadSource checks the extension and reads a program file.
func ReadSource(path string) (string, error) {
	if filepath.Ext(path) != SourceExt {
		return "", fmt.Errorf("source must have %s extension", SourceExt)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(b), nil
}

// Reports renders every stage output present in res, keyed by report name.
func Reports(res *Result) map[string]string {
	em := emitter.NewEmitter()
	out := map[string]string{}
	if res.Tokens != nil {
		out["tokens"] = em.Tokens(res.Tokens)
	}
	if res.Tree != nil {
		out["parsetree"] = em.ParseTree(res.Tree)
	}
	if res.Program != nil {
		out["ast"] = em.AST(res.Program)
	}
	if res.Table != nil {
		out["tables"] = em.Tables(res.Table)
		out["errors"] = FormatSemanticErrors(res.Errors)
	}
	return out
}

// FormatSemanticErrors renders the collected errors as an itemized list.
func FormatSemanticErrors(errs []*semantic.Error) string {
	if len(errs) == 0 {
		return "No semantic errors.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d semantic error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	return b.String()
}

var reportOrder = []string{"tokens", "parsetree", "ast", "tables", "errors"}

func writeReports(res *Result, srcPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(filepath.Base(srcPath), SourceExt)
	reports := Reports(res)
	var written []string
	for _, name := range reportOrder {
		text, ok := reports[name]
		if !ok {
			continue
		}
		outFile := filepath.Join(outDir, stem+"."+name+".txt")
		if err := os.WriteFile(outFile, []byte(text), 0o644); err != nil {
			return written, err
		}
		written = append(written, outFile)
	}
	return written, nil
}
