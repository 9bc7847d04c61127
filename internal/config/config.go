// Package config loads compiler defaults from the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/you-not-fish/rage/internal/rtabi"
)

// Environment variables read by Load.
const (
	EnvTarget  = "RAGE_TARGET"
	EnvCC      = "RAGE_CC"
	EnvVerify  = "RAGE_VERIFY"
	EnvMem2Reg = "RAGE_MEM2REG"
	EnvJobs    = "RAGE_JOBS"
	EnvHistory = "RAGE_HISTORY"
)

// DefaultCC is the C compiler driver used to assemble and link.
const DefaultCC = "clang"

// Config holds the environment defaults. Command-line flags override them.
type Config struct {
	Target  string // LLVM target triple
	CC      string // C compiler driver
	Verify  bool   // verify SSA around every pass
	Promote bool   // run mem2reg
	Jobs    int    // parallel compilations, at least 1
	History string // REPL history file
}

// Load reads the configuration from the environment as it is now.
func Load() *Config {
	// env caches os.Environ on first use; refresh it.
	env.Load()
	c := &Config{
		Target:  env.Str(EnvTarget, HostTriple()),
		CC:      env.Str(EnvCC, DefaultCC),
		Verify:  env.Bool(EnvVerify),
		Promote: true,
		Jobs:    env.Int(EnvJobs, runtime.NumCPU()),
		History: env.Str(EnvHistory, defaultHistory()),
	}
	if env.Has(EnvMem2Reg) {
		c.Promote = env.Bool(EnvMem2Reg)
	}
	if c.Jobs < 1 {
		c.Jobs = 1
	}
	return c
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rage_history"
	}
	return filepath.Join(home, ".rage_history")
}

// triple builds a target triple from an OS name and machine name as
// reported by uname or the Go runtime. Unknown systems get the default.
func triple(sys, machine string) string {
	sys = strings.ToLower(sys)
	arch := machine
	switch machine {
	case "amd64", "x86_64":
		arch = "x86_64"
	case "arm64", "aarch64":
		arch = "aarch64"
		if sys == "darwin" {
			arch = "arm64"
		}
	case "386", "i386", "i686":
		arch = "i686"
	}

	switch sys {
	case "linux":
		if arch == "x86_64" {
			return arch + "-pc-linux-gnu"
		}
		return arch + "-unknown-linux-gnu"
	case "darwin":
		return arch + "-apple-darwin"
	case "freebsd", "netbsd", "openbsd":
		return arch + "-unknown-" + sys
	case "windows":
		return arch + "-pc-windows-msvc"
	}
	return rtabi.DefaultTargetTriple
}
