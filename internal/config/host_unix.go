//go:build unix

package config

import (
	"golang.org/x/sys/unix"

	"github.com/you-not-fish/rage/internal/rtabi"
)

// HostTriple returns the target triple of the running machine.
func HostTriple() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return rtabi.DefaultTargetTriple
	}
	return triple(unix.ByteSliceToString(u.Sysname[:]), unix.ByteSliceToString(u.Machine[:]))
}
