// Package main implements the Rage compiler entry point.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/rage/internal/config"
	"github.com/you-not-fish/rage/internal/driver"
	"github.com/you-not-fish/rage/internal/syntax"
	"github.com/you-not-fish/rage/internal/toolchain"
)

// Environment defaults, overridden by flags.
var env = config.Load()

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	noASI      = flag.Bool("no-asi", false, "Disable automatic semicolon insertion")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	emitSSA    = flag.Bool("emit-ssa", false, "Output SSA")
	emitLL     = flag.Bool("emit-ll", false, "Output LLVM IR")
	output     = flag.String("o", "", "Output file (.ll, .o or executable)")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	version    = flag.Bool("version", false, "Print version")
	trace      = flag.Bool("trace", false, "Output timing trace")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	ssaVerify  = flag.Bool("ssa-verify", env.Verify, "Verify SSA after each pass")
	dumpBefore = flag.String("dump-before", "", "Dump SSA before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump SSA after pass (name or \"*\")")
	mem2reg    = flag.Bool("mem2reg", env.Promote, "Promote variables to registers")
	target     = flag.String("target", env.Target, "LLVM target triple")
	ccName     = flag.String("cc", env.CC, "C compiler driver used to assemble and link")
	jobs       = flag.Int("j", env.Jobs, "Number of files compiled in parallel")
	repl       = flag.Bool("repl", false, "Start an interactive session")
	watch      = flag.Bool("watch", false, "Rebuild inputs when they change")
)

// Version information
const Version = "0.1.0-dev"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var logger = log.New(os.Stderr, "ragec: ", 0)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Rage Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: ragec [options] <file.rage>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, flag.Args())
	stop()
	os.Exit(code)
}

// run dispatches on the parsed flags and returns the exit code.
func run(ctx context.Context, args []string) int {
	if *version {
		fmt.Printf("ragec version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		return exitOK
	}

	if *doctor {
		return runDoctor(ctx)
	}

	if *repl {
		return runREPL()
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: ragec [options] <file.rage>...")
		return exitUsage
	}
	if *astFormat != "text" && *astFormat != "json" {
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", *astFormat)
		return exitUsage
	}
	if *output != "" && len(args) > 1 {
		fmt.Fprintln(os.Stderr, "error: -o cannot be used with multiple input files")
		return exitUsage
	}

	var each func(string) int
	switch {
	case *emitTokens:
		each = runEmitTokens
	case *emitAST:
		each = runEmitAST
	case *emitSSA:
		each = runEmitSSA
	case *emitLL:
		each = runEmitLL
	case *watch:
		return runWatch(ctx, args)
	default:
		return runBuild(ctx, args)
	}

	code := exitOK
	for _, filename := range args {
		if c := each(filename); c != exitOK {
			code = c
		}
	}
	return code
}

// driverConfig returns the compilation settings selected by flags.
func driverConfig() *driver.Config {
	conf := &driver.Config{
		TargetTriple: *target,
		NoASI:        *noASI,
		Promote:      *mem2reg,
		Verify:       *ssaVerify,
		DumpBefore:   *dumpBefore,
		DumpAfter:    *dumpAfter,
		DumpFunc:     *dumpFunc,
	}
	if *trace {
		conf.Trace = os.Stderr
	}
	return conf
}

// compileFile compiles filename, reporting diagnostics to errOut.
func compileFile(filename string, errOut io.Writer) (*driver.Unit, bool) {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, false
	}
	defer f.Close()

	u, err := driver.Compile(filename, f, driverConfig())
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	return u, true
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer f.Close()

	var errs []string
	errh := func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", pos, msg))
	}

	p := syntax.NewParser(filename, f, errh)
	if *noASI {
		p.SetASIEnabled(false)
	}
	ast := p.Parse()

	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}

	switch *astFormat {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, ast); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitError
		}
	default:
		syntax.Fprint(os.Stdout, ast)
	}

	if len(errs) > 0 {
		return exitError
	}
	return exitOK
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	defer f.Close()

	var errs []string
	errh := func(line, col uint32, msg string) {
		errs = append(errs, fmt.Sprintf("%s:%d:%d: %s", filename, line, col, msg))
	}

	s := syntax.NewScanner(filename, f, errh)
	if *noASI {
		s.SetASIEnabled(false)
	}

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	if len(errs) > 0 {
		fmt.Println()
		fmt.Println("Errors:")
		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}
		return exitError
	}
	return exitOK
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitSSA compiles the input file and prints the SSA of main.
func runEmitSSA(filename string) int {
	u, ok := compileFile(filename, os.Stderr)
	if !ok {
		return exitError
	}
	if *dumpFunc != "" && *dumpFunc != u.Main.Name {
		return exitOK
	}
	u.EmitSSA(os.Stdout)
	return exitOK
}

// runEmitLL compiles the input file and prints its LLVM IR.
func runEmitLL(filename string) int {
	u, ok := compileFile(filename, os.Stderr)
	if !ok {
		return exitError
	}
	if err := u.EmitLL(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

// outputPath returns where the build of filename is written.
func outputPath(filename string) string {
	if *output != "" {
		return *output
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".ll"
}

// runBuild compiles every file, at most -j at a time. Diagnostics are
// printed in input order once all files are done.
func runBuild(ctx context.Context, files []string) int {
	diags := make([]bytes.Buffer, len(files))
	failed := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for i, filename := range files {
		i, filename := i, filename
		g.Go(func() error {
			if err := buildFile(gctx, filename, outputPath(filename), &diags[i]); err != nil {
				if !errors.Is(err, errReported) {
					fmt.Fprintf(&diags[i], "error: %v\n", err)
				}
				failed[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	code := exitOK
	for i := range files {
		os.Stderr.Write(diags[i].Bytes())
		if failed[i] {
			code = exitError
		}
	}
	return code
}

// errReported marks a failure whose diagnostics were already written.
var errReported = errors.New("compilation failed")

// buildFile compiles filename and writes out. Outputs ending in ".ll"
// get the IR itself; anything else is handed to clang.
func buildFile(ctx context.Context, filename, out string, errOut io.Writer) error {
	u, ok := compileFile(filename, errOut)
	if !ok {
		return errReported
	}
	if filepath.Ext(out) == ".ll" {
		return writeLL(u, out)
	}

	dir, err := os.MkdirTemp("", "ragec")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	ll := filepath.Join(dir, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))+".ll")
	if err := writeLL(u, ll); err != nil {
		return err
	}
	cc, err := toolchain.FindClang(ctx, *ccName, u.Module.TargetTriple)
	if err != nil {
		return err
	}
	return cc.Build(ctx, ll, out)
}

// writeLL writes the IR of u to path.
func writeLL(u *driver.Unit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := u.EmitLL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor(ctx context.Context) int {
	fmt.Println("Rage Toolchain Doctor")
	fmt.Println("=====================")
	fmt.Println()

	allOk := true

	goVersion := runtime.Version()
	fmt.Printf("%-8s %s", "Go:", goVersion)
	if toolchain.CheckGo(goVersion) {
		fmt.Println(" ✓")
	} else {
		fmt.Printf(" ✗ (need %s)\n", toolchain.GoConstraint)
		allOk = false
	}

	reqs := make([]toolchain.Requirement, len(toolchain.Requirements))
	copy(reqs, toolchain.Requirements)
	reqs[0].Name = *ccName

	for _, st := range toolchain.Doctor(ctx, reqs) {
		line := ""
		if st.Tool != nil {
			line = st.Tool.Line
		}
		fmt.Printf("%-8s %s", st.Name+":", line)
		switch {
		case st.OK:
			fmt.Println(" ✓")
		case st.Optional:
			fmt.Println(" (optional, not found)")
		case st.Tool != nil:
			fmt.Printf(" ✗ (need %s)\n", st.Constraint)
			allOk = false
		default:
			fmt.Println(" ✗ (not found)")
			allOk = false
		}
	}

	fmt.Println()
	fmt.Printf("Target:  %s\n", *target)
	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return exitOK
	}

	fmt.Println("Some required tools are missing.")
	fmt.Println("Set RAGE_CC or -cc to choose another C compiler driver.")
	return exitError
}
