package depresolve

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// systemStrategy discovers a library by direct toolchain search: try each
// candidate library name in order, require the marker header, then gate on
// symbol verification. A candidate whose link args fail verification is
// skipped, not fatal; the loop advances to the next naming scheme.
type systemStrategy struct {
	family   string
	spec     SystemSpec
	policy   SystemPolicy
	cc       Toolchain
	verifier *SymbolVerifier

	// Extra search directories applied to every probe. When library dirs are
	// supplied the emitted link args are the explicit -L/-l pair form.
	extraIncludeDirs []string
	extraLibDirs     []string
}

// NewSystemStrategy returns the direct filesystem/toolchain discovery
// strategy for a family.
func NewSystemStrategy(family string, spec SystemSpec, policy SystemPolicy, tc Toolchain, verifier *SymbolVerifier) Strategy {
	return &systemStrategy{family: family, spec: spec, policy: policy, cc: tc, verifier: verifier}
}

// NewSystemStrategyDirs is NewSystemStrategy with extra include/library
// search directories applied to every probe.
func NewSystemStrategyDirs(family string, spec SystemSpec, policy SystemPolicy, tc Toolchain, verifier *SymbolVerifier, includeDirs, libDirs []string) Strategy {
	return &systemStrategy{
		family: family, spec: spec, policy: policy, cc: tc, verifier: verifier,
		extraIncludeDirs: includeDirs, extraLibDirs: libDirs,
	}
}

func (s *systemStrategy) Name() string { return "system" }

func (s *systemStrategy) Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error) {
	log := clog.FromContext(ctx).With("family", s.family, "strategy", s.Name())

	var includeArgs []string
	for _, dir := range s.extraIncludeDirs {
		includeArgs = append(includeArgs, "-I"+dir)
	}

	if header := s.spec.MarkerHeader(mods); header != "" {
		ok, err := s.cc.HasHeader(ctx, header, includeArgs)
		if err != nil {
			return StrategyResult{}, err
		}
		if !ok {
			log.Debugf("marker header %s not found", header)
			return StrategyResult{}, nil
		}
	}

	for _, cand := range s.spec.Candidates(mods, s.policy) {
		linkArgs, ok, err := s.locate(ctx, cand)
		if err != nil {
			return StrategyResult{}, err
		}
		if !ok {
			log.Debugf("candidate %v not present", cand.Libs)
			continue
		}
		verified, err := s.verifier.Verify(ctx, mods, linkArgs)
		if err != nil {
			return StrategyResult{}, err
		}
		if !verified {
			log.Debugf("candidate %v failed symbol verification, trying next", cand.Libs)
			continue
		}
		version, err := s.version(ctx, includeArgs)
		if err != nil {
			return StrategyResult{}, err
		}
		return StrategyResult{
			Found:       true,
			CompileArgs: includeArgs,
			LinkArgs:    linkArgs,
			Version:     version,
		}, nil
	}
	return StrategyResult{}, nil
}

// locate assembles link args for one candidate. With explicit library dirs
// the args are the path-derived -L/-l pair form; otherwise they are the raw
// flags returned by the locator, in discovery order.
func (s *systemStrategy) locate(ctx context.Context, cand Candidate) ([]string, bool, error) {
	var linkArgs []string
	for _, dir := range s.extraLibDirs {
		linkArgs = append(linkArgs, "-L"+dir)
	}
	for _, lib := range cand.Libs {
		args, err := s.cc.FindLibrary(ctx, lib, s.extraLibDirs)
		if err != nil {
			return nil, false, err
		}
		if args == nil {
			return nil, false, nil
		}
		if len(s.extraLibDirs) > 0 {
			linkArgs = append(linkArgs, "-l"+lib)
		} else {
			linkArgs = append(linkArgs, args...)
		}
	}
	return linkArgs, true, nil
}

func (s *systemStrategy) version(ctx context.Context, includeArgs []string) (string, error) {
	if s.spec.VersionMacro == "" {
		return UnknownVersion, nil
	}
	raw, err := s.cc.GetDefine(ctx, s.spec.VersionMacro, "#include <"+s.spec.VersionHeader+">", includeArgs)
	if err != nil {
		return "", err
	}
	return ExtractVersion(raw), nil
}
