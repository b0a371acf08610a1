package depresolve

import "strings"

// Recognized module tokens.
const (
	ModuleInterfaceLP64  = "interface:lp64"
	ModuleInterfaceILP64 = "interface:ilp64"
	ModuleCBLAS          = "cblas"
	ModuleLAPACK         = "lapack"
	ModuleLAPACKE        = "lapacke"
)

// ParseModules validates raw module tokens and normalizes them into a
// ModuleSet. The vocabulary is closed: anything outside it is a ConfigError,
// as is more than one interface:* token. With no interface token the variant
// defaults to LP64.
func ParseModules(tokens []string) (ModuleSet, error) {
	var mods ModuleSet
	seenInterface := false

	for _, tok := range tokens {
		if value, ok := strings.CutPrefix(tok, "interface:"); ok {
			if seenInterface {
				return ModuleSet{}, configErrorf("modules request more than one interface variant: %q", tok)
			}
			switch value {
			case "lp64":
				mods.Variant = LP64
			case "ilp64":
				mods.Variant = ILP64
			default:
				return ModuleSet{}, configErrorf("unknown interface variant %q (expected lp64 or ilp64)", value)
			}
			seenInterface = true
			continue
		}
		switch tok {
		case ModuleCBLAS:
			mods.CBLAS = true
		case ModuleLAPACK:
			mods.LAPACK = true
		case ModuleLAPACKE:
			mods.LAPACKE = true
		default:
			return ModuleSet{}, configErrorf("unknown module %q", tok)
		}
	}
	return mods, nil
}
