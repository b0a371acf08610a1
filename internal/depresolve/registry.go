package depresolve

import (
	"sort"

	"github.com/nativedep/nativedep/x/cc"
	"github.com/nativedep/nativedep/x/cmakedep"
	"github.com/nativedep/nativedep/x/pkgconfig"
)

// Family is one known library family: its fixed strategy ordering and,
// when the family has a conventional on-disk shape, the SystemSpec used by
// machine-file overrides.
type Family struct {
	Name       string
	Strategies []Strategy
	System     *SystemSpec // nil when machine-file overrides don't apply
}

// Registry maps family names to their resolution recipe. It is constructed
// once at startup and passed to the Resolver; there is no process-global
// registry.
type Registry struct {
	families map[string]*Family
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{families: make(map[string]*Family)}
}

// Register adds or replaces a family.
func (r *Registry) Register(f *Family) {
	r.families[f.Name] = f
}

// Family looks up a family by name.
func (r *Registry) Family(name string) (*Family, bool) {
	f, ok := r.families[name]
	return f, ok
}

// Names returns the registered family names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures DefaultRegistry. Zero-value fields fall back to the
// real external collaborators.
type Options struct {
	Toolchain   Toolchain
	Metadata    MetadataSource
	BuildConfig BuildConfigSource
	// Policy overrides the system-probe policy; nil keeps the upstream
	// default of allowing the unsuffixed name as an ILP64 fallback.
	Policy *SystemPolicy
}

// DefaultRegistry builds the registry of known families with their fixed
// per-family strategy orderings.
func DefaultRegistry(opts Options) *Registry {
	tc := opts.Toolchain
	if tc == nil {
		tc = cc.New()
	}
	metadata := opts.Metadata
	if metadata == nil {
		metadata = pkgconfig.New()
	}
	buildConfig := opts.BuildConfig
	if buildConfig == nil {
		buildConfig = cmakedep.New()
	}
	policy := SystemPolicy{AllowPlainNameForILP64: true}
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	verifier := NewSymbolVerifier(tc)
	r := NewRegistry()

	openblas := OpenBLASSpec()
	r.Register(&Family{
		Name:   "openblas",
		System: &openblas,
		Strategies: []Strategy{
			NewSystemStrategy("openblas", openblas, policy, tc, verifier),
			NewMetadataStrategy("openblas", OpenBLASMetadataNames, metadata, verifier),
			NewBuildConfigStrategy("openblas", "OpenBLAS", buildConfig, verifier),
		},
	})

	netlib := NetlibSpec()
	r.Register(&Family{
		Name:   "netlib",
		System: &netlib,
		Strategies: []Strategy{
			NewMetadataStrategy("netlib", NetlibMetadataNames, metadata, verifier),
			NewSystemStrategy("netlib", netlib, policy, tc, verifier),
		},
	})

	r.Register(&Family{
		Name:       "accelerate",
		Strategies: []Strategy{NewFrameworkStrategy("accelerate", tc)},
	})

	r.Register(&Family{
		Name:       "numpy",
		Strategies: []Strategy{NewNumPyStrategy()},
	})

	return r
}
