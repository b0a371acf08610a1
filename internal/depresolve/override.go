package depresolve

import (
	"path/filepath"

	"github.com/nativedep/nativedep/internal/machine"
)

// Override is a user-pinned include/library directory pair from a machine
// file. When present it fully replaces automatic discovery for the request.
type Override struct {
	IncludeDir string
	LibraryDir string
}

// ResolveOverride reads <family>_includedir and <family>_librarydir from the
// machine-file properties. Both must be set together and both must be
// absolute; violating either is a ConfigError. With neither set it returns
// nil, nil and automatic discovery proceeds.
func ResolveOverride(props machine.Properties, family string) (*Override, error) {
	incKey := family + "_includedir"
	libKey := family + "_librarydir"
	inc, incOK := props.Lookup(incKey)
	lib, libOK := props.Lookup(libKey)

	switch {
	case !incOK && !libOK:
		return nil, nil
	case incOK != libOK:
		return nil, configErrorf("both %s and %s have to be set in the machine file (one is not enough)", incKey, libKey)
	}
	if !filepath.IsAbs(inc) || !filepath.IsAbs(lib) {
		return nil, configErrorf("paths given for %s and %s in the machine file must be absolute", incKey, libKey)
	}
	return &Override{IncludeDir: inc, LibraryDir: lib}, nil
}
