package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pascals-lang/pascals/internal/compiler/lib"
	"github.com/pascals-lang/pascals/internal/compiler/semantic"
)

var (
	colorError = lipgloss.Color("#EF4444")
	colorOK    = lipgloss.Color("#10B981")
	colorMuted = lipgloss.Color("#6B7280")

	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func disableColor() {
	errorStyle = lipgloss.NewStyle()
	okStyle = lipgloss.NewStyle()
	gutterStyle = lipgloss.NewStyle()
}

type pretty interface {
	Pretty() string
}

// renderError styles an error for the terminal. Lexer and parser errors
// quote the source with a caret.
func renderError(err error) string {
	var p pretty
	if errors.As(err, &p) {
		return styleDiagnostic(p.Pretty())
	}
	return errorStyle.Render("error:") + " " + err.Error()
}

// styleDiagnostic colors the heading line and the gutter of a diagnostic.
func styleDiagnostic(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			if head, rest, ok := strings.Cut(line, ":"); ok {
				lines[i] = errorStyle.Render(head+":") + rest
			}
			continue
		}
		if strings.HasSuffix(line, "^") {
			if bar := strings.Index(line, "|"); bar >= 0 {
				lines[i] = gutterStyle.Render(line[:bar+1]) + errorStyle.Render(line[bar+1:])
				continue
			}
		}
		lines[i] = gutterStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

// semanticReport renders collected semantic errors with source excerpts.
func semanticReport(errs []*semantic.Error, src string) string {
	var b strings.Builder
	for _, e := range errs {
		diag := lib.Diagnostic(e.Kind.String(), e.Msg, src, e.Pos.Line, e.Pos.Column)
		b.WriteString(styleDiagnostic(diag))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "%s %d semantic error(s)", errorStyle.Render("failed:"), len(errs))
	return b.String()
}

func okLine(msg string) string {
	return okStyle.Render("ok:") + " " + msg
}
