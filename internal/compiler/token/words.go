package token

import "strings"

// Canonical keyword spellings used by the parser and the AST builder.
const (
	KwProgram   = "program"
	KwConst     = "const"
	KwType      = "type"
	KwVar       = "var"
	KwProcedure = "procedure"
	KwFunction  = "function"
	KwBegin     = "begin"
	KwEnd       = "end"
	KwIf        = "if"
	KwThen      = "then"
	KwElse      = "else"
	KwWhile     = "while"
	KwDo        = "do"
	KwFor       = "for"
	KwTo        = "to"
	KwDownto    = "downto"
	KwRepeat    = "repeat"
	KwUntil     = "until"
	KwCase      = "case"
	KwOf        = "of"
	KwArray     = "array"
	KwRecord    = "record"
	KwTrue      = "true"
	KwFalse     = "false"

	OpDiv = "div"
	OpMod = "mod"
	OpAnd = "and"
	OpOr  = "or"
	OpNot = "not"
)

// aliases maps localized spellings onto their canonical form.
var aliases = map[string]string{
	"konstanta":  KwConst,
	"tipe":       KwType,
	"variabel":   KwVar,
	"prosedur":   KwProcedure,
	"fungsi":     KwFunction,
	"mulai":      KwBegin,
	"selesai":    KwEnd,
	"jika":       KwIf,
	"maka":       KwThen,
	"selain_itu": KwElse,
	"selama":     KwWhile,
	"lakukan":    KwDo,
	"untuk":      KwFor,
	"ke":         KwTo,
	"turun_ke":   KwDownto,
	"ulangi":     KwRepeat,
	"sampai":     KwUntil,
	"kasus":      KwCase,
	"dari":       KwOf,
	"larik":      KwArray,
	"rekaman":    KwRecord,
	"benar":      KwTrue,
	"salah":      KwFalse,
	"bagi":       OpDiv,
	"dan":        OpAnd,
	"atau":       OpOr,
	"tidak":      OpNot,
}

// Canonical lowercases a word and folds localized aliases onto the
// canonical spelling. Symbols pass through unchanged.
func Canonical(word string) string {
	w := strings.ToLower(word)
	if c, ok := aliases[w]; ok {
		return c
	}
	return w
}

// BuiltinTypes are the type names that resolve without a declaration.
var BuiltinTypes = []string{"integer", "real", "boolean", "char", "string"}

// IsBuiltinType reports whether word names a primitive type.
func IsBuiltinType(word string) bool {
	w := strings.ToLower(word)
	for _, t := range BuiltinTypes {
		if t == w {
			return true
		}
	}
	return false
}
