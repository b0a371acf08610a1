//go:build darwin

package depresolve

import "golang.org/x/sys/unix"

// hostOSVersion returns the macOS product version, e.g. "13.3.1".
func hostOSVersion() (string, error) {
	return unix.Sysctl("kern.osproductversion")
}
