package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		stmts := make([]interface{}, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = toJSON(s)
		}
		return map[string]interface{}{
			"type":  "File",
			"name":  n.Name,
			"stmts": stmts,
		}

	case *VarDecl:
		return map[string]interface{}{
			"type":    "VarDecl",
			"rule":    n.Rule().String(),
			"pos":     n.pos.String(),
			"name":    n.Name.Value,
			"vartype": n.Type.Value,
		}

	case *DefineStmt:
		return map[string]interface{}{
			"type":  "DefineStmt",
			"rule":  n.Rule().String(),
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"value": toJSON(n.Value),
		}

	case *CallStmt:
		return map[string]interface{}{
			"type": "CallStmt",
			"rule": n.Rule().String(),
			"pos":  n.pos.String(),
			"call": toJSON(n.Call),
		}

	case *EOIStmt:
		return map[string]interface{}{
			"type": "EOI",
			"rule": n.Rule().String(),
			"pos":  n.pos.String(),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		return map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *CallExpr:
		args := make([]interface{}, len(n.Args))
		for i, a := range n.Args {
			args[i] = toJSON(a)
		}
		return map[string]interface{}{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"fun":  n.Fun.Value,
			"args": args,
		}
	}

	return map[string]interface{}{"type": "unknown"}
}
