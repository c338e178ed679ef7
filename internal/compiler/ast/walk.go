package ast

import "reflect"

// IsNil reports nil nodes, including typed nil pointers stored in interface fields.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Children returns the direct children of n in source order, skipping
// absent optional parts.
func Children(n Node) []Node {
	var out []Node
	add := func(cs ...Node) {
		for _, c := range cs {
			if !IsNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(n.Decls, n.Body)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Declarations:
		for _, d := range n.Items {
			add(d)
		}
	case *VarDecl:
		add(n.Type)
	case *ConstDecl:
		add(n.Value)
	case *TypeDecl:
		add(n.Type)
	case *ProcedureDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Decls, n.Body)
	case *FunctionDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.ReturnType, n.Decls, n.Body)
	case *Param:
		add(n.Type)
	case *Assign:
		add(n.Target, n.Value)
	case *Call:
		for _, a := range n.Args {
			add(a)
		}
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *Repeat:
		add(n.Body, n.Cond)
	case *For:
		add(n.Var, n.Start, n.End, n.Body)
	case *Case:
		add(n.Selector)
		for _, b := range n.Branches {
			add(b)
		}
	case *CaseBranch:
		for _, l := range n.Labels {
			add(l)
		}
		add(n.Body)
	case *BinOp:
		add(n.Left, n.Right)
	case *UnaryOp:
		add(n.Operand)
	case *ArrayAccess:
		add(n.Array, n.Index)
	case *RecordField:
		add(n.Record)
	case *ArrayType:
		add(n.Index, n.Elem)
	case *RecordType:
		for _, f := range n.Fields {
			add(f)
		}
	case *RangeType:
		add(n.Low, n.High)
	}
	return out
}

// Inspect traverses the tree depth-first, calling fn before the children of
// each node. Returning false from fn skips that node's children.
func Inspect(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
