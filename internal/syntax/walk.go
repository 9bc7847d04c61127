package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *VarDecl:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *DefineStmt:
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *CallStmt:
		Walk(n.Call, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}
	}
}

// Stats counts the statements of a file by rule, plus the call
// expressions nested anywhere in it.
type Stats struct {
	Rules [RuleEOI + 1]int
	Calls int
}

// CountStats walks f and returns its Stats.
func CountStats(f *File) Stats {
	var st Stats
	Walk(f, func(n Node) bool {
		switch n := n.(type) {
		case Stmt:
			st.Rules[n.Rule()]++
		case *CallExpr:
			st.Calls++
		}
		return true
	})
	return st
}
