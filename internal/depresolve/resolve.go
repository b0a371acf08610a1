package depresolve

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/chainguard-dev/clog"
	"github.com/nativedep/nativedep/internal/machine"
)

// Resolver runs the strategy chain for a request. Resolution is synchronous
// and stateless per request; independent requests are safe to resolve in
// parallel.
type Resolver struct {
	registry *Registry
	cc       Toolchain
	verifier *SymbolVerifier
	props    map[Machine]machine.Properties
}

// NewResolver returns a Resolver over the given registry and toolchain.
// props carries machine-file properties per target machine; nil entries
// mean no machine file was given.
func NewResolver(registry *Registry, tc Toolchain, props map[Machine]machine.Properties) *Resolver {
	return &Resolver{
		registry: registry,
		cc:       tc,
		verifier: NewSymbolVerifier(tc),
		props:    props,
	}
}

// Resolve resolves one request. Configuration mistakes and toolchain faults
// return an error; "library not installed" is the Found=false result.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolved, error) {
	log := clog.FromContext(ctx).With("family", req.Name)

	fam, ok := r.registry.Family(req.Name)
	if !ok {
		return Resolved{}, configErrorf("unknown library family %q", req.Name)
	}
	mods, err := ParseModules(req.Modules)
	if err != nil {
		return Resolved{}, err
	}

	// A machine-file override fully replaces automatic discovery.
	override, err := ResolveOverride(r.props[req.ForMachine], req.Name)
	if err != nil {
		return Resolved{}, err
	}
	if override != nil {
		if fam.System == nil {
			return Resolved{}, configErrorf("machine-file overrides are not supported for family %q", req.Name)
		}
		return r.resolveOverride(ctx, req, mods, fam.System, override)
	}

	for _, strategy := range fam.Strategies {
		res, err := strategy.Probe(ctx, req, mods)
		if err != nil {
			return Resolved{}, err
		}
		if !res.Found {
			continue
		}
		ok, err := r.versionAcceptable(ctx, req.VersionConstraint, res.Version)
		if err != nil {
			return Resolved{}, err
		}
		if !ok {
			log.Debugf("strategy %s found version %s outside constraint %q, trying next",
				strategy.Name(), res.Version, req.VersionConstraint)
			continue
		}
		log.Debugf("resolved by strategy %s, version %s", strategy.Name(), res.Version)
		return finalize(res, mods), nil
	}

	// Exhausting the chain is a normal terminal state.
	return Resolved{Variant: mods.Variant}, nil
}

// resolveOverride verifies the pinned paths directly; there is no fallback
// to automatic strategies, and a verification failure is a non-finding.
func (r *Resolver) resolveOverride(ctx context.Context, req Request, mods ModuleSet, spec *SystemSpec, ov *Override) (Resolved, error) {
	log := clog.FromContext(ctx).With("family", req.Name)

	// The canonical naming scheme for the variant is the first candidate,
	// which never depends on the fallback policy.
	libs := spec.Candidates(mods, SystemPolicy{})[0].Libs

	compileArgs := []string{"-I" + ov.IncludeDir}
	linkArgs := []string{"-L" + ov.LibraryDir}
	for _, lib := range libs {
		linkArgs = append(linkArgs, "-l"+lib)
	}

	verified, err := r.verifier.Verify(ctx, mods, linkArgs)
	if err != nil {
		return Resolved{}, err
	}
	if !verified {
		log.Debugf("machine-file override paths failed symbol verification")
		return Resolved{Variant: mods.Variant}, nil
	}

	version := UnknownVersion
	if spec.VersionMacro != "" {
		raw, err := r.cc.GetDefine(ctx, spec.VersionMacro, "#include <"+spec.VersionHeader+">", compileArgs)
		if err != nil {
			return Resolved{}, err
		}
		version = ExtractVersion(raw)
	}

	ok, err := r.versionAcceptable(ctx, req.VersionConstraint, version)
	if err != nil {
		return Resolved{}, err
	}
	if !ok {
		return Resolved{Variant: mods.Variant}, nil
	}
	return finalize(StrategyResult{
		Found:       true,
		CompileArgs: compileArgs,
		LinkArgs:    linkArgs,
		Version:     version,
	}, mods), nil
}

// versionAcceptable checks a detected version against the request's
// constraint. The unknown sentinel is non-authoritative and never rejected.
func (r *Resolver) versionAcceptable(ctx context.Context, constraint, version string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, configErrorf("invalid version constraint %q: %v", constraint, err)
	}
	if version == UnknownVersion {
		clog.FromContext(ctx).Warnf("version is unknown, cannot enforce constraint %q", constraint)
		return true, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		clog.FromContext(ctx).Warnf("cannot parse detected version %q, ignoring constraint", version)
		return true, nil
	}
	return c.Check(v), nil
}

func finalize(res StrategyResult, mods ModuleSet) Resolved {
	return Resolved{
		Found:        true,
		CompileArgs:  res.CompileArgs,
		LinkArgs:     res.LinkArgs,
		Version:      res.Version,
		Variant:      mods.Variant,
		Capabilities: mods,
	}
}
