package depresolve

import (
	"context"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/chainguard-dev/clog"
)

// Accelerate's LP64/ILP64 symbol aliasing ships with macOS 13.3.
const accelerateMinOSVersion = "13.3"

// Framework defines emitted for Accelerate. The new-interface define is
// unconditional; the ILP64 define is added for ILP64 requests.
const (
	accelerateNewLAPACKDefine = "-DACCELERATE_NEW_LAPACK"
	accelerateILP64Define     = "-DACCELERATE_LAPACK_ILP64"
)

// frameworkStrategy locates a vendor library shipped as a system framework.
// Only applicable on darwin hosts at or above a minimum OS version. It
// deliberately skips symbol verification: the vendor guarantees a fixed,
// version-stable symbol-aliasing scheme for the framework, so a successful
// framework+header match is sufficient proof of ABI correctness.
type frameworkStrategy struct {
	family    string
	framework string
	header    string
	minOS     string
	cc        Toolchain

	goos      string                // overridable in tests
	osVersion func() (string, error) // overridable in tests
}

// NewFrameworkStrategy returns the platform-framework discovery strategy
// for Apple Accelerate.
func NewFrameworkStrategy(family string, tc Toolchain) Strategy {
	return &frameworkStrategy{
		family:    family,
		framework: "Accelerate",
		header:    "Accelerate/Accelerate.h",
		minOS:     accelerateMinOSVersion,
		cc:        tc,
		goos:      runtime.GOOS,
		osVersion: hostOSVersion,
	}
}

func (s *frameworkStrategy) Name() string { return "framework" }

func (s *frameworkStrategy) Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error) {
	log := clog.FromContext(ctx).With("family", s.family, "strategy", s.Name())

	if s.goos != "darwin" {
		return StrategyResult{}, nil
	}
	ok, err := s.hostEligible(ctx)
	if err != nil {
		return StrategyResult{}, err
	}
	if !ok {
		log.Debugf("host os below %s, %s framework not eligible", s.minOS, s.framework)
		return StrategyResult{}, nil
	}

	linkArgs, err := s.cc.FindFramework(ctx, s.framework)
	if err != nil {
		return StrategyResult{}, err
	}
	if linkArgs == nil {
		log.Debugf("framework %s not found", s.framework)
		return StrategyResult{}, nil
	}
	hasHeader, err := s.cc.HasHeader(ctx, s.header, nil)
	if err != nil {
		return StrategyResult{}, err
	}
	if !hasHeader {
		log.Debugf("umbrella header %s not found", s.header)
		return StrategyResult{}, nil
	}

	compileArgs := []string{accelerateNewLAPACKDefine}
	if mods.Variant == ILP64 {
		compileArgs = append(compileArgs, accelerateILP64Define)
	}
	return StrategyResult{
		Found:       true,
		CompileArgs: compileArgs,
		LinkArgs:    linkArgs,
		Version:     UnknownVersion,
	}, nil
}

// hostEligible reports whether the host OS version meets the minimum.
// An undetectable host version is a non-finding, not a fault.
func (s *frameworkStrategy) hostEligible(ctx context.Context) (bool, error) {
	ver, err := s.osVersion()
	if err != nil {
		clog.FromContext(ctx).Debugf("cannot detect host os version: %v", err)
		return false, nil
	}
	v, err := semver.NewVersion(ver)
	if err != nil {
		clog.FromContext(ctx).Debugf("cannot parse host os version %q: %v", ver, err)
		return false, nil
	}
	min, err := semver.NewVersion(s.minOS)
	if err != nil {
		return false, err
	}
	return !v.LessThan(min), nil
}
