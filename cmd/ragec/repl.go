package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/you-not-fish/rage/internal/driver"
)

const replName = "<repl>"

const replHelp = `Enter Rage statements; each line is lowered into main as you go.
  :ssa    print main so far
  :ll     print the LLVM IR of the session
  :vars   list declared variables
  :reset  start over
  :quit   exit`

// prompter reads one line of input.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// session is an interactive compilation unit. Lines that fail leave no
// trace: the unit is rebuilt from the accepted lines.
type session struct {
	unit     *driver.Unit
	accepted []string
	out      io.Writer
	errOut   io.Writer
}

func newSession(out, errOut io.Writer) (*session, error) {
	s := &session{out: out, errOut: errOut}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset discards the session and starts a fresh unit.
func (s *session) reset() error {
	u, err := driver.NewUnit(replName, driverConfig())
	if err != nil {
		return err
	}
	s.unit = u
	s.accepted = nil
	return nil
}

// replay rebuilds the unit from the accepted lines.
func (s *session) replay() error {
	lines := s.accepted
	if err := s.reset(); err != nil {
		return err
	}
	for _, line := range lines {
		if err := s.lower(line); err != nil {
			return err
		}
	}
	s.accepted = lines
	return nil
}

func (s *session) lower(line string) error {
	f, err := driver.Parse(replName, strings.NewReader(line), driverConfig())
	if err != nil {
		return err
	}
	return s.unit.Lower(f)
}

// eval handles one input line and reports whether the session goes on.
func (s *session) eval(line string) bool {
	switch strings.TrimSpace(line) {
	case "":
		return true
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":ssa":
		s.unit.EmitSSA(s.out)
	case ":ll":
		s.emitLL()
	case ":vars":
		for _, v := range s.unit.Program().Vars() {
			fmt.Fprintf(s.out, "  [%d] %s\n", v.Slot(), v)
		}
	case ":reset":
		if err := s.reset(); err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
	default:
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			fmt.Fprintf(s.errOut, "unknown command %s; type :help\n", strings.TrimSpace(line))
			return true
		}
		s.statement(line)
	}
	return true
}

// statement lowers line and prints the values it added.
func (s *session) statement(line string) {
	before := len(s.unit.Main.Entry.Values)
	if err := s.lower(line); err != nil {
		fmt.Fprintln(s.errOut, err)
		if err := s.replay(); err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
		}
		return
	}
	s.accepted = append(s.accepted, line)
	for _, v := range s.unit.Main.Entry.Values[before:] {
		fmt.Fprintf(s.out, "  %s\n", v.LongString())
	}
}

// emitLL finishes a copy of the session and prints its IR.
func (s *session) emitLL() {
	src := strings.Join(s.accepted, "\n")
	u, err := driver.Compile(replName, strings.NewReader(src), driverConfig())
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	var buf bytes.Buffer
	if err := u.EmitLL(&buf); err != nil {
		fmt.Fprintf(s.errOut, "error: %v\n", err)
		return
	}
	s.out.Write(buf.Bytes())
}

// loop reads lines from p until EOF or :quit.
func (s *session) loop(p prompter, addHistory func(string)) {
	for {
		line, err := p.Prompt("rage> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return
		}
		if err != nil {
			fmt.Fprintf(s.errOut, "error: %v\n", err)
			return
		}
		if strings.TrimSpace(line) != "" && addHistory != nil {
			addHistory(line)
		}
		if !s.eval(line) {
			return
		}
	}
}

// runREPL starts an interactive session on the terminal.
func runREPL() int {
	s, err := newSession(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(env.History); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(env.History); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("Rage %s (%s). Type :help for commands.\n", Version, *target)
	s.loop(ln, ln.AppendHistory)
	return exitOK
}
