// Package symbols implements the identifier, block and array tables
// (TAB, BTAB, ATAB) with a display over the open lexical levels.
package symbols

import (
	"strings"

	"github.com/pascals-lang/pascals/internal/compiler/scope"
	"github.com/pascals-lang/pascals/internal/compiler/types"
)

type ObjKind int

const (
	Reserved ObjKind = iota
	Constant
	Variable
	TypeName
	Procedure
	Function
	Program
)

var objNames = [...]string{
	Reserved:  "reserved",
	Constant:  "constant",
	Variable:  "variable",
	TypeName:  "type",
	Procedure: "procedure",
	Function:  "function",
	Program:   "program",
}

func (k ObjKind) String() string {
	if k >= 0 && int(k) < len(objNames) {
		return objNames[k]
	}
	return "unknown"
}

// Entry is one TAB row. Link points at the previous entry of the same
// block; 0 ends the chain. Ref is a BTAB index for subprograms and an
// ATAB index for arrays.
type Entry struct {
	Name  string
	Link  int
	Obj   ObjKind
	Type  types.Type
	Ref   int
	ByRef bool
	Level int
	Addr  int
	Value string
}

// Block is one BTAB row.
type Block struct {
	Last       int
	LastParam  int
	ParamCount int
	VarSize    int
}

// Array is one ATAB row.
type Array struct {
	IndexType types.Kind
	ElemType  types.Type
	ElemRef   int
	Low       int
	High      int
	ElemSize  int
	Size      int
}

// ReservedWords occupy TAB[0:len(ReservedWords)].
var ReservedWords = []string{
	"program", "var", "begin", "end", "if", "then", "else", "while", "do",
	"for", "to", "downto", "array", "of", "true", "false", "procedure",
	"function", "const", "type", "until", "repeat", "record", "case",
	"and", "or", "not", "div", "mod",
	"variabel", "mulai", "selesai", "jika", "maka", "selain_itu", "selama",
	"lakukan", "untuk", "ke", "turun_ke", "larik", "dari", "prosedur",
	"fungsi", "konstanta", "tipe", "sampai", "ulangi", "rekaman", "kasus",
	"dan", "atau", "tidak", "bagi", "benar", "salah",
}

type Table struct {
	Tab  []Entry
	Btab []Block
	Atab []Array

	display  *scope.Display
	builtins map[string]int
}

// New returns a table holding the reserved words and the global block 0,
// open at level 0.
func New() *Table {
	t := &Table{
		Tab:      make([]Entry, 0, len(ReservedWords)+32),
		Btab:     []Block{{}},
		display:  scope.NewDisplay(0),
		builtins: map[string]int{},
	}
	for _, w := range ReservedWords {
		t.Tab = append(t.Tab, Entry{Name: w, Obj: Reserved})
	}
	return t
}

// ReservedCount is the size of the reserved-word region of TAB.
func (t *Table) ReservedCount() int { return len(ReservedWords) }

// Level is the current lexical level.
func (t *Table) Level() int { return t.display.Level() }

// CurrentBlock is the BTAB index of the innermost open block.
func (t *Table) CurrentBlock() int { return t.display.Current() }

// Display returns the BTAB index open at each level, outermost first.
func (t *Table) Display() []int {
	out := make([]int, t.display.Level()+1)
	for i := range out {
		out[i] = t.display.Block(i)
	}
	return out
}

// EnterScope allocates a new block and opens it one level deeper.
func (t *Table) EnterScope() (block, level int) {
	block = len(t.Btab)
	t.Btab = append(t.Btab, Block{})
	return block, t.display.Enter(block)
}

// ExitScope closes the innermost level. The block stays in BTAB.
func (t *Table) ExitScope() {
	t.display.Exit()
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

// chain walks one block's entries, most recent first.
func (t *Table) chain(block int, name string) (int, bool) {
	for i := t.Btab[block].Last; i > 0; i = t.Tab[i].Link {
		if sameName(t.Tab[i].Name, name) {
			return i, true
		}
	}
	return 0, false
}

// Lookup searches the open levels innermost first, then the reserved words.
func (t *Table) Lookup(name string) (int, bool) {
	found, idx := false, 0
	t.display.Each(func(_, block int) bool {
		idx, found = t.chain(block, name)
		return !found
	})
	if found {
		return idx, true
	}
	for i := 0; i < len(ReservedWords); i++ {
		if sameName(t.Tab[i].Name, name) {
			return i, true
		}
	}
	return 0, false
}

// LookupCurrentScope searches only the innermost block.
func (t *Table) LookupCurrentScope(name string) (int, bool) {
	return t.chain(t.display.Current(), name)
}

// link appends e to the current block's chain.
func (t *Table) link(e Entry) int {
	blk := &t.Btab[t.display.Current()]
	e.Link = blk.Last
	e.Level = t.display.Level()
	t.Tab = append(t.Tab, e)
	blk.Last = len(t.Tab) - 1
	return blk.Last
}

// AddVariable allocates size cells in the current block.
func (t *Table) AddVariable(name string, typ types.Type, size int) int {
	blk := &t.Btab[t.display.Current()]
	addr := blk.VarSize
	blk.VarSize += size
	return t.link(Entry{Name: name, Obj: Variable, Type: typ, Ref: typ.Ref, Addr: addr})
}

// AddParameter records a formal parameter of the current block.
func (t *Table) AddParameter(name string, typ types.Type, byRef bool) int {
	blk := &t.Btab[t.display.Current()]
	addr := blk.ParamCount
	idx := t.link(Entry{Name: name, Obj: Variable, Type: typ, Ref: typ.Ref, ByRef: byRef, Addr: addr})
	blk = &t.Btab[t.display.Current()]
	blk.LastParam = idx
	blk.ParamCount++
	return idx
}

func (t *Table) AddConstant(name string, typ types.Type, value string) int {
	return t.link(Entry{Name: name, Obj: Constant, Type: typ, Value: value})
}

func (t *Table) AddType(name string, typ types.Type) int {
	return t.link(Entry{Name: name, Obj: TypeName, Type: typ, Ref: typ.Ref})
}

// AddProcedure declares a procedure or function in the current block. Its
// body block is bound later with SetBlock.
func (t *Table) AddProcedure(name string, obj ObjKind, result types.Type) int {
	return t.link(Entry{Name: name, Obj: obj, Type: result})
}

// SetBlock binds a subprogram entry to the block holding its body.
func (t *Table) SetBlock(idx, block int) {
	t.Tab[idx].Ref = block
}

// AddProgramName records the program name without joining any chain.
func (t *Table) AddProgramName(name string) int {
	t.Tab = append(t.Tab, Entry{Name: name, Obj: Program})
	return len(t.Tab) - 1
}

// AddBuiltin registers a predefined subprogram once; later calls return the
// existing index. Builtins live at level 0 outside every chain.
func (t *Table) AddBuiltin(name string, obj ObjKind, result types.Type) int {
	key := strings.ToLower(name)
	if idx, ok := t.builtins[key]; ok {
		return idx
	}
	t.Tab = append(t.Tab, Entry{Name: key, Obj: obj, Type: result})
	idx := len(t.Tab) - 1
	t.builtins[key] = idx
	return idx
}

// AddArray appends an ATAB descriptor and returns its index.
func (t *Table) AddArray(index types.Kind, elem types.Type, low, high, elemSize int) int {
	t.Atab = append(t.Atab, Array{
		IndexType: index,
		ElemType:  elem,
		ElemRef:   elem.Ref,
		Low:       low,
		High:      high,
		ElemSize:  elemSize,
		Size:      (high - low + 1) * elemSize,
	})
	return len(t.Atab) - 1
}

// Parameters returns the TAB indices of a subprogram's formals in
// declaration order.
func (t *Table) Parameters(idx int) []int {
	e := t.Tab[idx]
	if e.Obj != Procedure && e.Obj != Function {
		return nil
	}
	if e.Ref <= 0 || e.Ref >= len(t.Btab) {
		return nil
	}
	blk := t.Btab[e.Ref]
	params := make([]int, blk.ParamCount)
	cur := blk.LastParam
	for i := blk.ParamCount - 1; i >= 0 && cur > 0; i-- {
		params[i] = cur
		cur = t.Tab[cur].Link
	}
	return params
}

// SizeOf is the storage size of a type: 1 for scalars, the descriptor's
// total for arrays and the sum of the fields for records.
func (t *Table) SizeOf(typ types.Type) int {
	switch typ.Kind {
	case types.Array:
		if typ.Ref >= 0 && typ.Ref < len(t.Atab) {
			return t.Atab[typ.Ref].Size
		}
		return 1
	case types.Record:
		n := 0
		for _, f := range typ.Fields {
			n += t.SizeOf(f.Type)
		}
		return n
	default:
		return 1
	}
}
