package syntax

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	p := NewParser("test.rage", strings.NewReader(src), errh)
	f := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", strings.Join(errs, "\n"))
	}
	return f
}

func parseFileWithErrors(t *testing.T, src string) (*File, []string) {
	t.Helper()
	var errs []string
	errh := func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	}
	p := NewParser("test.rage", strings.NewReader(src), errh)
	return p.Parse(), errs
}

func rules(f *File) []Rule {
	var rs []Rule
	for _, s := range f.Stmts {
		rs = append(rs, s.Rule())
	}
	return rs
}

// ----------------------------------------------------------------------------
// Statements

func TestParseRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Rule
	}{
		{"empty", "", []Rule{RuleEOI}},
		{"only_semis", ";;\n;", []Rule{RuleEOI}},
		{"declaration", "var x: i8;", []Rule{RuleDeclaration, RuleEOI}},
		{"definition", "x = 1;", []Rule{RuleDefinition, RuleEOI}},
		{"call", "libc_putchar(x);", []Rule{RuleCall, RuleEOI}},
		{"program", "var asd: i8;\nasd = 80;\nlibc_putchar(asd);",
			[]Rule{RuleDeclaration, RuleDefinition, RuleCall, RuleEOI}},
		{"asi", "var x: i8\nx = 1\nlibc_putchar(x)",
			[]Rule{RuleDeclaration, RuleDefinition, RuleCall, RuleEOI}},
		{"same_line", "var x: i8; x = 1; libc_putchar(x);",
			[]Rule{RuleDeclaration, RuleDefinition, RuleCall, RuleEOI}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFile(t, tt.src)
			got := rules(f)
			if len(got) != len(tt.want) {
				t.Fatalf("rules = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rule %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseVarDecl(t *testing.T) {
	f := parseFile(t, "var asd: char;")
	d, ok := f.Stmts[0].(*VarDecl)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *VarDecl", f.Stmts[0])
	}
	if d.Name.Value != "asd" || d.Type.Value != "char" {
		t.Errorf("VarDecl = %s: %s, want asd: char", d.Name.Value, d.Type.Value)
	}
	if d.Pos().String() != "test.rage:1:1" || d.Type.Pos().String() != "test.rage:1:10" {
		t.Errorf("positions = %s, %s", d.Pos(), d.Type.Pos())
	}
}

func TestParseVarDeclReferenceTypes(t *testing.T) {
	f := parseFile(t, "var s: str; var p: ptr\nvar n: null\n")
	var got []string
	for _, st := range f.Stmts[:3] {
		d, ok := st.(*VarDecl)
		if !ok {
			t.Fatalf("stmt is %T, want *VarDecl", st)
		}
		got = append(got, d.Name.Value+": "+d.Type.Value)
	}
	if want := "s: str, p: ptr, n: null"; strings.Join(got, ", ") != want {
		t.Errorf("declarations = %s, want %s", strings.Join(got, ", "), want)
	}

	// Only null doubles as a type keyword; other literals are not type names.
	for _, src := range []string{"var b: true;", "var c: 1;"} {
		if _, errs := parseFileWithErrors(t, src); len(errs) == 0 || !strings.Contains(errs[0], "expected type name") {
			t.Errorf("%s: errors = %q", src, errs)
		}
	}
}

func TestParseDefineValues(t *testing.T) {
	tests := []struct {
		src  string
		want string
		kind LitKind
	}{
		{"x = 65;", "65", IntLit},
		{"x = -5;", "-5", IntLit},
		{"x = 3.5;", "3.5", FloatLit},
		{"x = -0.5;", "-0.5", FloatLit},
		{"x = 'A';", "A", CharLit},
		{"x = true;", "true", BoolLit},
		{`x = "hi";`, "hi", StringLit},
		{"x = null;", "null", NullLit},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f := parseFile(t, tt.src)
			s := f.Stmts[0].(*DefineStmt)
			lit, ok := s.Value.(*BasicLit)
			if !ok {
				t.Fatalf("value is %T, want *BasicLit", s.Value)
			}
			if lit.Value != tt.want || lit.Kind != tt.kind {
				t.Errorf("lit = %q (%v), want %q (%v)", lit.Value, lit.Kind, tt.want, tt.kind)
			}
		})
	}
}

func TestParseDefineFromName(t *testing.T) {
	f := parseFile(t, "y = x;")
	s := f.Stmts[0].(*DefineStmt)
	if n, ok := s.Value.(*Name); !ok || n.Value != "x" {
		t.Errorf("value = %s, want x", ExprString(s.Value))
	}
}

func TestParseCallArgs(t *testing.T) {
	tests := []struct {
		src  string
		want string
		n    int
	}{
		{"f();", "f()", 0},
		{"libc_putchar(x);", "libc_putchar(x)", 1},
		{"libc_putchar('A');", "libc_putchar('A')", 1},
		{"g(1, -2, x);", "g(1, -2, x)", 3},
		{"h(g(1));", "h(g(1))", 1},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f := parseFile(t, tt.src)
			c := f.Stmts[0].(*CallStmt)
			if got := ExprString(c.Call); got != tt.want {
				t.Errorf("call = %s, want %s", got, tt.want)
			}
			if len(c.Call.Args) != tt.n {
				t.Errorf("args = %d, want %d", len(c.Call.Args), tt.n)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Errors

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"missing_semi", "var x: i8 var", "expected ;, found var"},
		{"missing_colon", "var x i8;", "expected :, found name i8"},
		{"missing_type", "var x: ;", "expected type name"},
		{"missing_name", "var : i8;", "expected variable name"},
		{"bare_name", "x;", "expected = or ( after x"},
		{"missing_value", "x = ;", "expected expression"},
		{"minus_name", "x = -y;", "expected number after -"},
		{"minus_char", "x = -'a';", "expected number after -"},
		{"unclosed_call", "f(x;", "expected ) in call to f"},
		{"stray_literal", "65;", "expected statement"},
		{"lexical", "x = '\\q';", "unknown escape sequence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := parseFileWithErrors(t, tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected error containing %q, got none", tt.wantErr)
			}
			if !strings.Contains(errs[0], tt.wantErr) {
				t.Errorf("first error = %q, want it to contain %q", errs[0], tt.wantErr)
			}
			if last := f.Stmts[len(f.Stmts)-1]; last.Rule() != RuleEOI {
				t.Errorf("last statement is %v, want EOI", last.Rule())
			}
		})
	}
}

func TestParseErrorRecovery(t *testing.T) {
	f, errs := parseFileWithErrors(t, "var x i8;\nvar y: i8;\ny = ;\ny = 2;")
	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2", errs)
	}
	got := rules(f)
	want := []Rule{RuleDeclaration, RuleDefinition, RuleEOI}
	if len(got) != len(want) {
		t.Fatalf("rules = %v, want %v", got, want)
	}
}

func TestParseErrorLimit(t *testing.T) {
	src := strings.Repeat("x;\n", maxErrors+5)
	p := NewParser("test.rage", strings.NewReader(src), nil)
	p.Parse()
	if p.Errors() != maxErrors {
		t.Errorf("Errors() = %d, want %d", p.Errors(), maxErrors)
	}
}

func TestParseFileFirstError(t *testing.T) {
	_, err := ParseFile("bad.rage", strings.NewReader("var x i8;\nvar;"))
	if err == nil {
		t.Fatal("expected error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if se.Pos.String() != "bad.rage:1:7" {
		t.Errorf("error pos = %s, want bad.rage:1:7", se.Pos)
	}
	if got := err.Error(); !strings.HasPrefix(got, "bad.rage:1:7: expected :") {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseNoASI(t *testing.T) {
	p := NewParser("test.rage", strings.NewReader("var x: i8\nx = 1;"), nil)
	p.SetASIEnabled(false)
	p.Parse()
	if p.FirstError() == nil {
		t.Error("expected an error with ASI disabled")
	}
}

func TestIsValidIdent(t *testing.T) {
	for s, want := range map[string]bool{
		"x": true, "asd_2": true, "_": true,
		"": false, "2x": false, "a-b": false, "var": false, "true": false, "null": false,
	} {
		if got := IsValidIdent(s); got != want {
			t.Errorf("IsValidIdent(%q) = %v, want %v", s, got, want)
		}
	}
}

// ----------------------------------------------------------------------------
// Output formats

func TestParseGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/parse_*.rage")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no testdata files")
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}

			p := NewParser(f, bytes.NewReader(src), nil)
			ast := p.Parse()
			if err := p.FirstError(); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			Fprint(&buf, ast)
			got := buf.String()

			golden := strings.TrimSuffix(f, ".rage") + ".ast.golden"
			if os.Getenv("UPDATE_GOLDEN") != "" {
				if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
					t.Fatal(err)
				}
				return
			}

			want, err := os.ReadFile(golden)
			if err != nil {
				t.Fatal(err)
			}
			if got != string(want) {
				t.Errorf("AST mismatch for %s\ngot:\n%s\nwant:\n%s\nRun with UPDATE_GOLDEN=1 to update", f, got, want)
			}
		})
	}
}

func TestFprintJSON(t *testing.T) {
	f := parseFile(t, "var x: i8;\nx = 'A';\nlibc_putchar(x);")

	var buf bytes.Buffer
	if err := FprintJSON(&buf, f); err != nil {
		t.Fatal(err)
	}

	var out struct {
		Type  string `json:"type"`
		Stmts []struct {
			Type  string `json:"type"`
			Rule  string `json:"rule"`
			Value *struct {
				Kind  string `json:"kind"`
				Value string `json:"value"`
			} `json:"value"`
		} `json:"stmts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Type != "File" || len(out.Stmts) != 4 {
		t.Fatalf("got %s with %d stmts", out.Type, len(out.Stmts))
	}
	wantRules := []string{"declaration", "definition", "call", "EOI"}
	for i, s := range out.Stmts {
		if s.Rule != wantRules[i] {
			t.Errorf("stmt %d rule = %q, want %q", i, s.Rule, wantRules[i])
		}
	}
	if v := out.Stmts[1].Value; v == nil || v.Kind != "char" || v.Value != "A" {
		t.Errorf("definition value = %+v", v)
	}
}

func TestExprStringChar(t *testing.T) {
	tests := []struct{ val, want string }{
		{"A", "'A'"},
		{"\n", `'\n'`},
		{"'", `'\''`},
		{`"`, `'"'`},
	}
	for _, tt := range tests {
		if got := ExprString(NewBasicLit(Pos{}, tt.val, CharLit)); got != tt.want {
			t.Errorf("ExprString(char %q) = %s, want %s", tt.val, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Walk

func TestWalk(t *testing.T) {
	f := parseFile(t, "var x: i8;\nx = libc_getchar(0);\nlibc_putchar(x);")

	var names []string
	Walk(f, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			names = append(names, name.Value)
		}
		return true
	})
	want := "x i8 x libc_getchar libc_putchar x"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("names = %q, want %q", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	f := parseFile(t, "libc_putchar(x);")
	count := 0
	Walk(f, func(n Node) bool {
		count++
		_, isCall := n.(*CallStmt)
		return !isCall
	})
	// File, CallStmt, EOIStmt
	if count != 3 {
		t.Errorf("visited %d nodes, want 3", count)
	}
}

func TestCountStats(t *testing.T) {
	f := parseFile(t, "var x: i8;\nvar y: i8;\nx = libc_getchar(0);\nlibc_putchar(x);")
	st := CountStats(f)
	if st.Rules[RuleDeclaration] != 2 || st.Rules[RuleDefinition] != 1 ||
		st.Rules[RuleCall] != 1 || st.Rules[RuleEOI] != 1 {
		t.Errorf("rules = %v", st.Rules)
	}
	if st.Calls != 2 {
		t.Errorf("calls = %d, want 2", st.Calls)
	}
}

func TestRuleString(t *testing.T) {
	if RuleCall.String() != "call" || Rule(9).String() != "rule?" {
		t.Errorf("Rule.String() = %q, %q", RuleCall.String(), Rule(9).String())
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"var asd: i8;\nasd = 80;\nlibc_putchar(asd);",
		"x = -'",
		"f(,,)",
		"var var var",
		"x = g(h(1, 2)",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, src string) {
		file := NewParser("fuzz", strings.NewReader(src), nil).Parse()
		if n := len(file.Stmts); n == 0 || file.Stmts[n-1].Rule() != RuleEOI {
			t.Fatalf("statement list does not end with EOI for %q", src)
		}
	})
}
