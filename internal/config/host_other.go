//go:build !unix

package config

import "runtime"

// HostTriple returns the target triple of the running machine.
func HostTriple() string {
	return triple(runtime.GOOS, runtime.GOARCH)
}
