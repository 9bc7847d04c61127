package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clang version 14.0.0", "14.0.0"},
		{"Ubuntu clang version 14.0.0-1ubuntu1.1\nTarget: x86_64-pc-linux-gnu", "14.0.0"},
		{"Apple clang version 15.0.0 (clang-1500.3.9.4)", "15.0.0"},
		{"LLVM (http://llvm.org/):\n  LLVM version 17.0.6", "17.0.6"},
		{"1.23", "1.23.0"},
		{"go version go1.21.5 linux/amd64", "1.21.5"},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.in)
		if err != nil {
			t.Errorf("ParseVersion(%q): %v", tt.in, err)
			continue
		}
		if v.String() != tt.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tt.in, v, tt.want)
		}
	}

	if _, err := ParseVersion("no digits here"); err == nil {
		t.Error("ParseVersion accepted text without a version")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"14.0.0", ClangConstraint, true},
		{"18.1.8", ClangConstraint, true},
		{"13.0.1", ClangConstraint, false},
		{"1.21.0", GoConstraint, true},
		{"1.20.14", GoConstraint, false},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.version)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Check(v, tt.constraint)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Check(%s, %q) = %v, want %v", tt.version, tt.constraint, got, tt.want)
		}
	}

	v, _ := ParseVersion("1.0.0")
	if _, err := Check(v, "not a constraint"); err == nil {
		t.Error("Check accepted a malformed constraint")
	}
}

func TestCheckGo(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"go1.23.3", true},
		{"go1.21", true},
		{"go1.20.1", false},
		{"go2.0", true},
		{"devel", false},
	}
	for _, tt := range tests {
		if got := CheckGo(tt.in); got != tt.want {
			t.Errorf("CheckGo(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShorten(t *testing.T) {
	long := strings.Repeat("x", 80)
	if got := shorten(long, 60); len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("shorten = %q", got)
	}
	if got := shorten("short", 60); got != "short" {
		t.Errorf("shorten = %q", got)
	}
}

func TestIsObject(t *testing.T) {
	for path, want := range map[string]bool{
		"hello.o":     true,
		"out/hello.o": true,
		"hello":       false,
		"hello.exe":   false,
		"hello.ll":    false,
	} {
		if got := IsObject(path); got != want {
			t.Errorf("IsObject(%q) = %v", path, got)
		}
	}
}

func TestProbeMissing(t *testing.T) {
	_, err := Probe(context.Background(), "ragec-no-such-tool", "--version")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Probe missing tool: %v", err)
	}

	st := Doctor(context.Background(), []Requirement{{Name: "ragec-no-such-tool", Optional: true}})
	if len(st) != 1 || st[0].OK || st[0].Tool != nil || st[0].Err == nil {
		t.Errorf("Doctor = %+v", st)
	}
}

func TestClangObject(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not available")
	}
	ctx := context.Background()
	c, err := FindClang(ctx, "clang", "")
	if err != nil {
		t.Skip(err)
	}

	dir := t.TempDir()
	ll := filepath.Join(dir, "m.ll")
	src := "define i32 @main() {\nentry:\n  ret i32 0\n}\n"
	if err := os.WriteFile(ll, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	obj := filepath.Join(dir, "m.o")
	if err := c.Build(ctx, ll, obj); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(obj); err != nil {
		t.Fatalf("object not written: %v", err)
	}

	bad := filepath.Join(dir, "bad.ll")
	if err := os.WriteFile(bad, []byte("this is not IR\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := c.Object(ctx, bad, filepath.Join(dir, "bad.o")); err == nil {
		t.Error("clang accepted invalid IR")
	}
}
