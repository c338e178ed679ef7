// Package emitter renders each stage's output as text: token lists, parse
// trees, annotated ASTs and the symbol tables.
package emitter

import (
	"fmt"
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/ast"
	"github.com/pascals-lang/pascals/internal/compiler/cst"
	"github.com/pascals-lang/pascals/internal/compiler/symbols"
	"github.com/pascals-lang/pascals/internal/compiler/token"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

const (
	branchMid   = "├── "
	branchLast  = "└── "
	pipeIndent  = "│   "
	spaceIndent = "    "
	rule        = "--------------------------------------------------------------"
)

type Emitter struct {
	builder strings.Builder
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// --- Emit Helpers ---

func (e *Emitter) emit(format string, args ...any) {
	fmt.Fprintf(&e.builder, format, args...)
	e.builder.WriteByte('\n')
}

// flush returns the accumulated text and resets the emitter.
func (e *Emitter) flush() string {
	out := e.builder.String()
	e.builder.Reset()
	return out
}

// childPrefix extends a tree prefix for the children of a node.
func childPrefix(prefix string, last bool) string {
	if last {
		return prefix + spaceIndent
	}
	return prefix + pipeIndent
}

func connector(last bool) string {
	if last {
		return branchLast
	}
	return branchMid
}

// --- Tokens ---

// Tokens renders one KIND(lexeme) per line.
func (e *Emitter) Tokens(toks []token.Token) string {
	for _, t := range toks {
		e.emit("%s", t)
	}
	return e.flush()
}

// --- Parse tree ---

// ParseTree renders grammar symbols and terminal tokens as a branching tree.
func (e *Emitter) ParseTree(root *cst.Node) string {
	if root == nil {
		return ""
	}
	e.emit("%s", root.Symbol)
	e.parseChildren(root, "")
	return e.flush()
}

func (e *Emitter) parseChildren(n *cst.Node, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		switch c := c.(type) {
		case *cst.Leaf:
			e.emit("%s%s%s", prefix, connector(last), c.Token)
		case *cst.Node:
			e.emit("%s%s%s", prefix, connector(last), c.Symbol)
			e.parseChildren(c, childPrefix(prefix, last))
		}
	}
}

// --- AST ---

// AST renders the tree with each node's annotations.
func (e *Emitter) AST(prog *ast.Program) string {
	if prog == nil {
		return ""
	}
	e.emit("%s%s", prog, annotations(prog))
	e.astChildren(prog, "")
	return e.flush()
}

func (e *Emitter) astChildren(n ast.Node, prefix string) {
	children := ast.Children(n)
	for i, c := range children {
		last := i == len(children)-1
		e.emit("%s%s%s%s", prefix, connector(last), c, annotations(c))
		e.astChildren(c, childPrefix(prefix, last))
	}
}

// annotations formats the present attributes as " [k: v, ...]".
func annotations(n ast.Node) string {
	a := n.Annotations()
	var parts []string
	if a.HasType() {
		parts = append(parts, "type: "+a.Type.String())
	}
	if a.HasSymbol() {
		parts = append(parts, fmt.Sprintf("tab_index: %d", a.TabIndex))
	}
	if a.HasBlock() {
		parts = append(parts, fmt.Sprintf("block_index: %d", a.BlockIndex))
	}
	if a.HasSymbol() || a.HasBlock() {
		parts = append(parts, fmt.Sprintf("lev: %d", a.Level))
	}
	if a.Predefined {
		parts = append(parts, "predefined")
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// --- Symbol tables ---

// Tables renders TAB (without the reserved words), BTAB and ATAB.
func (e *Emitter) Tables(t *symbols.Table) string {
	e.tab(t)
	e.emit("")
	e.btab(t)
	e.emit("")
	e.atab(t)
	return e.flush()
}

func (e *Emitter) tab(t *symbols.Table) {
	e.emit("TAB (Identifier Table)")
	e.emit("")
	e.emit("%-4s %-12s %-5s %-10s %-8s %-5s %-4s %-4s %-5s", "Idx", "Name", "Link", "Obj", "Type", "Ref", "Nrm", "Lev", "Adr")
	e.emit("%s", rule)
	reserved := t.ReservedCount()
	e.emit("%-4s (reserved words 0-%d)", "...", reserved-1)
	for i := reserved; i < len(t.Tab); i++ {
		en := t.Tab[i]
		nrm := 1
		if en.ByRef {
			nrm = 0
		}
		adr := fmt.Sprint(en.Addr)
		if en.Obj == symbols.Constant {
			adr = en.Value
		}
		e.emit("%-4d %-12s %-5d %-10s %-8s %-5d %-4d %-4d %-5s",
			i, en.Name, en.Link, en.Obj, typeColumn(en.Type), en.Ref, nrm, en.Level, adr)
	}
}

// typeColumn keeps record shapes out of the fixed-width column.
func typeColumn(t types.Type) string {
	return t.Kind.String()
}

func (e *Emitter) btab(t *symbols.Table) {
	e.emit("BTAB (Block Table)")
	e.emit("")
	e.emit("%-4s %-5s %-5s %-5s %-5s", "Idx", "Last", "Lpar", "Psze", "Vsze")
	e.emit("%s", rule)
	for i, b := range t.Btab {
		e.emit("%-4d %-5d %-5d %-5d %-5d", i, b.Last, b.LastParam, b.ParamCount, b.VarSize)
	}
}

func (e *Emitter) atab(t *symbols.Table) {
	e.emit("ATAB (Array Table)")
	e.emit("")
	if len(t.Atab) == 0 {
		e.emit("(empty: no arrays declared)")
		return
	}
	e.emit("%-4s %-8s %-8s %-5s %-5s %-5s %-5s %-5s", "Idx", "Xtyp", "Etyp", "Eref", "Low", "High", "Elsz", "Size")
	e.emit("%s", rule)
	for i, a := range t.Atab {
		e.emit("%-4d %-8s %-8s %-5d %-5d %-5d %-5d %-5d",
			i, a.IndexType, a.ElemType.Kind, a.ElemRef, a.Low, a.High, a.ElemSize, a.Size)
	}
}
