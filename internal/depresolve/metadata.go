package depresolve

import (
	"context"

	"github.com/chainguard-dev/clog"
	"github.com/nativedep/nativedep/x/pkgconfig"
)

// MetadataSource is the package-metadata lookup the engine consumes,
// implemented by x/pkgconfig and faked in tests. A nil Info means the
// metadata file does not exist.
type MetadataSource interface {
	Query(ctx context.Context, name string) (*pkgconfig.Info, error)
}

// metadataStrategy wraps a metadata-driven lookup and re-validates its flags
// with the Symbol Verifier. Metadata presence alone never implies ABI
// correctness: a .pc file can describe an LP64 build under an ILP64 request.
type metadataStrategy struct {
	family   string
	names    func(mods ModuleSet) []string
	source   MetadataSource
	verifier *SymbolVerifier
}

// NewMetadataStrategy returns the package-metadata discovery strategy.
// names maps the module set to the metadata package names to try, in order.
func NewMetadataStrategy(family string, names func(ModuleSet) []string, source MetadataSource, verifier *SymbolVerifier) Strategy {
	return &metadataStrategy{family: family, names: names, source: source, verifier: verifier}
}

// OpenBLASMetadataNames maps a module set to the pkg-config names OpenBLAS
// ships under.
func OpenBLASMetadataNames(mods ModuleSet) []string {
	if mods.Variant == ILP64 {
		return []string{"openblas64", "openblas-ilp64"}
	}
	return []string{"openblas"}
}

// NetlibMetadataNames maps a module set to the Netlib reference pkg-config
// names. Only the base BLAS file carries the link line for the family.
func NetlibMetadataNames(mods ModuleSet) []string {
	if mods.Variant == ILP64 {
		return []string{"blas64"}
	}
	return []string{"blas"}
}

func (s *metadataStrategy) Name() string { return "pkgconfig" }

func (s *metadataStrategy) Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error) {
	log := clog.FromContext(ctx).With("family", s.family, "strategy", s.Name())

	for _, name := range s.names(mods) {
		info, err := s.source.Query(ctx, name)
		if err != nil {
			return StrategyResult{}, err
		}
		if info == nil {
			log.Debugf("no metadata for %s", name)
			continue
		}
		verified, err := s.verifier.Verify(ctx, mods, info.Libs)
		if err != nil {
			return StrategyResult{}, err
		}
		if !verified {
			log.Debugf("metadata flags for %s failed symbol verification", name)
			continue
		}
		version := UnknownVersion
		if info.Version != "" {
			version = ExtractVersion(info.Version)
		}
		return StrategyResult{
			Found:       true,
			CompileArgs: info.Cflags,
			LinkArgs:    info.Libs,
			Version:     version,
		}, nil
	}
	return StrategyResult{}, nil
}
