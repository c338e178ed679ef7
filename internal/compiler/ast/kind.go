package ast

// Kind names every AST node variant.
type Kind int

const (
	KindProgram Kind = iota
	KindBlock
	KindDeclarations
	KindVarDecl
	KindConstDecl
	KindTypeDecl
	KindProcedureDecl
	KindFunctionDecl
	KindParam
	KindAssign
	KindCall
	KindIf
	KindWhile
	KindRepeat
	KindFor
	KindCase
	KindCaseBranch
	KindBinOp
	KindUnaryOp
	KindVar
	KindNum
	KindString
	KindBoolean
	KindArrayAccess
	KindRecordField
	KindArrayType
	KindRecordType
	KindRangeType
	KindNamedType
)

var kindNames = [...]string{
	KindProgram:       "Program",
	KindBlock:         "Block",
	KindDeclarations:  "Declarations",
	KindVarDecl:       "VarDecl",
	KindConstDecl:     "ConstDecl",
	KindTypeDecl:      "TypeDecl",
	KindProcedureDecl: "ProcedureDecl",
	KindFunctionDecl:  "FunctionDecl",
	KindParam:         "Param",
	KindAssign:        "Assign",
	KindCall:          "Call",
	KindIf:            "If",
	KindWhile:         "While",
	KindRepeat:        "Repeat",
	KindFor:           "For",
	KindCase:          "Case",
	KindCaseBranch:    "CaseBranch",
	KindBinOp:         "BinOp",
	KindUnaryOp:       "UnaryOp",
	KindVar:           "Var",
	KindNum:           "Num",
	KindString:        "String",
	KindBoolean:       "Boolean",
	KindArrayAccess:   "ArrayAccess",
	KindRecordField:   "RecordField",
	KindArrayType:     "ArrayType",
	KindRecordType:    "RecordType",
	KindRangeType:     "RangeType",
	KindNamedType:     "NamedType",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}
