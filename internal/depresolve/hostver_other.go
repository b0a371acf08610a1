//go:build !darwin

package depresolve

import "errors"

func hostOSVersion() (string, error) {
	return "", errors.New("host os version only detectable on darwin")
}
