// Package toolchain finds and drives the external LLVM tools used to turn
// emitted IR into objects and executables.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Minimum supported versions.
const (
	ClangConstraint = ">= 14.0.0"
	GoConstraint    = ">= 1.21"
)

var versionRE = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// ParseVersion returns the first dotted version number found in s.
func ParseVersion(s string) (*semver.Version, error) {
	m := versionRE.FindString(s)
	if m == "" {
		return nil, fmt.Errorf("no version number in %q", firstLine(s))
	}
	return semver.NewVersion(m)
}

// Check reports whether v satisfies constraint.
func Check(v *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("bad constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

// CheckGo reports whether a runtime.Version string is a supported Go.
func CheckGo(v string) bool {
	sv, err := ParseVersion(strings.TrimPrefix(v, "go"))
	if err != nil {
		return false
	}
	ok, _ := Check(sv, GoConstraint)
	return ok
}

// Tool is an external program found on the host.
type Tool struct {
	Name    string
	Path    string
	Line    string          // first line of the version output, shortened
	Version *semver.Version // nil if the output carried no version
}

// Probe locates name on PATH and runs it with args to learn its version.
func Probe(ctx context.Context, name string, args ...string) (*Tool, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s: not found", name)
	}
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	t := &Tool{Name: name, Path: path, Line: shorten(firstLine(string(out)), 60)}
	t.Version, _ = ParseVersion(string(out))
	return t, nil
}

// Satisfies reports whether t's version meets constraint. Tools without a
// recognizable version pass.
func (t *Tool) Satisfies(constraint string) bool {
	if t.Version == nil {
		return true
	}
	ok, err := Check(t.Version, constraint)
	return err == nil && ok
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func shorten(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// Requirement describes one tool checked by Doctor.
type Requirement struct {
	Name       string
	Args       []string
	Constraint string // empty means any version
	Optional   bool
}

// Requirements lists the tools ragec uses.
var Requirements = []Requirement{
	{Name: "clang", Args: []string{"--version"}, Constraint: ClangConstraint},
	{Name: "opt", Args: []string{"--version"}, Optional: true},
	{Name: "llvm-as", Args: []string{"--version"}, Optional: true},
}

// Status is the outcome of checking one Requirement.
type Status struct {
	Requirement
	Tool *Tool // nil if the tool was not found
	OK   bool
	Err  error
}

// Doctor probes every requirement in order.
func Doctor(ctx context.Context, reqs []Requirement) []Status {
	st := make([]Status, len(reqs))
	for i, r := range reqs {
		st[i].Requirement = r
		t, err := Probe(ctx, r.Name, r.Args...)
		if err != nil {
			st[i].Err = err
			continue
		}
		st[i].Tool = t
		st[i].OK = r.Constraint == "" || t.Satisfies(r.Constraint)
	}
	return st
}

// Clang drives clang to assemble and link LLVM IR files.
type Clang struct {
	Tool   *Tool
	Target string // passed as -target when non-empty
}

// FindClang probes the named clang driver and checks its version.
func FindClang(ctx context.Context, name, target string) (*Clang, error) {
	t, err := Probe(ctx, name, "--version")
	if err != nil {
		return nil, err
	}
	if !t.Satisfies(ClangConstraint) {
		return nil, fmt.Errorf("%s %s does not satisfy %s", name, t.Version, ClangConstraint)
	}
	return &Clang{Tool: t, Target: target}, nil
}

// Object compiles the IR file ll into the object file obj.
func (c *Clang) Object(ctx context.Context, ll, obj string) error {
	return c.run(ctx, "-c", "-x", "ir", ll, "-o", obj)
}

// Link compiles and links the IR file ll into the executable exe.
func (c *Clang) Link(ctx context.Context, ll, exe string) error {
	return c.run(ctx, "-x", "ir", ll, "-o", exe)
}

// Build produces out from ll: an object file when out ends in ".o",
// an executable otherwise.
func (c *Clang) Build(ctx context.Context, ll, out string) error {
	if IsObject(out) {
		return c.Object(ctx, ll, out)
	}
	return c.Link(ctx, ll, out)
}

// IsObject reports whether path names an object file.
func IsObject(path string) bool {
	return filepath.Ext(path) == ".o"
}

func (c *Clang) run(ctx context.Context, args ...string) error {
	if c.Target != "" {
		args = append([]string{"-target", c.Target}, args...)
	}
	cmd := exec.CommandContext(ctx, c.Tool.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w\n%s", c.Tool.Name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.Tool.Name, err)
	}
	return nil
}
