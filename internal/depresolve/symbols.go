package depresolve

import (
	"context"
	"strings"

	"github.com/chainguard-dev/clog"
)

// Symbols returns the mangled routine names that must resolve for the given
// module set, in a fixed order: the base BLAS routine always, then the
// CBLAS, LAPACK and LAPACKE markers as requested. The variant's mangling
// suffix is applied to every name.
func Symbols(mods ModuleSet) []string {
	names := []string{"dgemm_"}
	if mods.CBLAS {
		names = append(names, "cblas_dgemm")
	}
	if mods.LAPACK {
		names = append(names, "zungqr_")
	}
	if mods.LAPACKE {
		names = append(names, "LAPACKE_zungqr")
	}
	suffix := mods.Variant.Suffix()
	if suffix != "" {
		for i, name := range names {
			names[i] = name + suffix
		}
	}
	return names
}

// ProbeSource synthesizes a translation unit that forward-declares every
// symbol and calls each one from main. Linking it succeeds only when all
// the exact mangled names resolve.
func ProbeSource(symbols []string) string {
	var b strings.Builder
	for _, sym := range symbols {
		b.WriteString("void " + sym + "(void);\n")
	}
	b.WriteString("int main(void) {\n")
	for _, sym := range symbols {
		b.WriteString("    " + sym + "();\n")
	}
	b.WriteString("    return 0;\n}\n")
	return b.String()
}

// SymbolVerifier confirms that candidate link flags provide the exact ABI
// variant that was requested. A library can exist on disk and satisfy header
// checks while exporting the wrong mangling (an LP64-only build under an
// ILP64 request); only a real link against the mangled names disambiguates.
type SymbolVerifier struct {
	cc Toolchain
}

// NewSymbolVerifier returns a SymbolVerifier backed by the given toolchain.
func NewSymbolVerifier(tc Toolchain) *SymbolVerifier {
	return &SymbolVerifier{cc: tc}
}

// Verify attempts a full compile-and-link of the probe program with linkArgs
// as the only extra flags.
func (v *SymbolVerifier) Verify(ctx context.Context, mods ModuleSet, linkArgs []string) (bool, error) {
	symbols := Symbols(mods)
	ok, err := v.cc.Links(ctx, ProbeSource(symbols), linkArgs)
	if err != nil {
		return false, err
	}
	if !ok {
		clog.FromContext(ctx).Debugf("symbol verification failed for %v with %v", symbols, linkArgs)
	}
	return ok, nil
}
