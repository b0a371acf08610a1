package depresolve

import (
	"context"

	"github.com/chainguard-dev/clog"
	"github.com/nativedep/nativedep/x/cmakedep"
)

// BuildConfigSource is the build-description lookup the engine consumes,
// implemented by x/cmakedep and faked in tests. A nil Package means the
// build system does not know the package.
type BuildConfigSource interface {
	Find(ctx context.Context, name string) (*cmakedep.Package, error)
}

// buildConfigStrategy delegates to an external build-description lookup
// keyed by a vendor package name, then applies the same symbol-verification
// gate as the metadata strategy. ILP64 selection through this path is a
// known limitation: only the default variant is resolvable, so ILP64
// requests short-circuit to a non-finding before invoking the lookup.
type buildConfigStrategy struct {
	family   string
	pkg      string // vendor-recognized package name, e.g. "OpenBLAS"
	source   BuildConfigSource
	verifier *SymbolVerifier
}

// NewBuildConfigStrategy returns the build-config discovery strategy.
func NewBuildConfigStrategy(family, pkg string, source BuildConfigSource, verifier *SymbolVerifier) Strategy {
	return &buildConfigStrategy{family: family, pkg: pkg, source: source, verifier: verifier}
}

func (s *buildConfigStrategy) Name() string { return "cmake" }

func (s *buildConfigStrategy) Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error) {
	log := clog.FromContext(ctx).With("family", s.family, "strategy", s.Name())

	if mods.Variant == ILP64 {
		log.Debugf("ilp64 selection is not supported through %s, skipping", s.pkg)
		return StrategyResult{}, nil
	}

	pkg, err := s.source.Find(ctx, s.pkg)
	if err != nil {
		return StrategyResult{}, err
	}
	if pkg == nil {
		log.Debugf("%s not found", s.pkg)
		return StrategyResult{}, nil
	}

	var compileArgs []string
	for _, dir := range pkg.IncludeDirs {
		compileArgs = append(compileArgs, "-I"+dir)
	}
	// Libraries come back as direct file paths, in the order listed.
	linkArgs := append([]string(nil), pkg.Libraries...)

	verified, err := s.verifier.Verify(ctx, mods, linkArgs)
	if err != nil {
		return StrategyResult{}, err
	}
	if !verified {
		log.Debugf("%s flags failed symbol verification", s.pkg)
		return StrategyResult{}, nil
	}
	return StrategyResult{
		Found:       true,
		CompileArgs: compileArgs,
		LinkArgs:    linkArgs,
		Version:     ExtractVersion(pkg.Version),
	}, nil
}
