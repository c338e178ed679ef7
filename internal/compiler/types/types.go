// Package types describes the value types of the language.
package types

import (
	"strings"
)

type Kind int

const (
	NoType Kind = iota
	Integer
	Real
	Boolean
	Char
	String
	Array
	Record
)

var kindNames = [...]string{
	NoType:  "notype",
	Integer: "integer",
	Real:    "real",
	Boolean: "boolean",
	Char:    "char",
	String:  "string",
	Array:   "array",
	Record:  "record",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Field is one member of a record shape.
type Field struct {
	Name string
	Type Type
}

// Type is a resolved type. Ref indexes ATAB for arrays; Fields is the
// ordered shape of a record.
type Type struct {
	Kind   Kind
	Ref    int
	Fields []Field
}

var (
	None       = Type{Kind: NoType}
	IntType    = Type{Kind: Integer}
	RealType   = Type{Kind: Real}
	BoolType   = Type{Kind: Boolean}
	CharType   = Type{Kind: Char}
	StringType = Type{Kind: String}
)

// Of returns the scalar type for k.
func Of(k Kind) Type { return Type{Kind: k} }

// Primitive maps a builtin type name to its type.
func Primitive(name string) (Type, bool) {
	switch strings.ToLower(name) {
	case "integer":
		return IntType, true
	case "real":
		return RealType, true
	case "boolean":
		return BoolType, true
	case "char":
		return CharType, true
	case "string":
		return StringType, true
	}
	return None, false
}

func (t Type) IsNone() bool    { return t.Kind == NoType }
func (t Type) IsNumeric() bool { return t.Kind == Integer || t.Kind == Real }

// IsOrdinal reports whether t can drive a for-loop or a case selector.
func (t Type) IsOrdinal() bool {
	return t.Kind == Integer || t.Kind == Boolean || t.Kind == Char
}

// IsText reports whether t is a String or a Char.
func (t Type) IsText() bool { return t.Kind == String || t.Kind == Char }

// Field looks up a record member by name, case-insensitively.
func (t Type) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Type, true
		}
	}
	return None, false
}

// Equal compares kinds, array descriptors and record shapes.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Array:
		return t.Ref == o.Ref
	case Record:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !strings.EqualFold(t.Fields[i].Name, o.Fields[i].Name) || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}

// AssignableTo reports whether a value of type t may be stored in target:
// identical types, integer into real, and char into string.
func (t Type) AssignableTo(target Type) bool {
	switch {
	case t.Equal(target):
		return true
	case t.Kind == Integer && target.Kind == Real:
		return true
	case t.Kind == Char && target.Kind == String:
		return true
	}
	return false
}

func (t Type) String() string {
	if t.Kind != Record {
		return t.Kind.String()
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "record{" + strings.Join(parts, "; ") + "}"
}
