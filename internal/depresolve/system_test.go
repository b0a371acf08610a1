package depresolve

import (
	"context"
	"slices"
	"testing"
)

func openblasSystem(tc *fakeToolchain) Strategy {
	return NewSystemStrategy("openblas", OpenBLASSpec(),
		SystemPolicy{AllowPlainNameForILP64: true}, tc, NewSymbolVerifier(tc))
}

func TestSystemProbeLP64(t *testing.T) {
	tc := &fakeToolchain{
		libs:    map[string][]string{"openblas": {"-lopenblas"}},
		headers: map[string]bool{"openblas_config.h": true},
		defines: map[string]string{"OPENBLAS_VERSION": `"OpenBLAS 0.3.21"`},
	}
	res, err := openblasSystem(tc).Probe(context.Background(), Request{Name: "openblas"}, ModuleSet{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !res.Found {
		t.Fatal("Probe not found")
	}
	if !slices.Equal(res.LinkArgs, []string{"-lopenblas"}) {
		t.Errorf("LinkArgs = %v", res.LinkArgs)
	}
	if res.Version != "0.3.21" {
		t.Errorf("Version = %q, want 0.3.21", res.Version)
	}
}

func TestSystemProbeMissingHeaderFailsAllCandidates(t *testing.T) {
	tc := &fakeToolchain{
		libs: map[string][]string{"openblas": {"-lopenblas"}},
	}
	res, err := openblasSystem(tc).Probe(context.Background(), Request{Name: "openblas"}, ModuleSet{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Found {
		t.Error("Probe found without the marker header")
	}
}

// The first ILP64 candidate name that fails symbol verification must not end
// the probe; the next candidate's flags win.
func TestSystemProbeAdvancesPastFailedVerification(t *testing.T) {
	tc := &fakeToolchain{
		libs: map[string][]string{
			"openblas64_":    {"-lopenblas64_"},
			"openblas_ilp64": {"-lopenblas_ilp64"},
		},
		headers: map[string]bool{"openblas_config.h": true},
		defines: map[string]string{"OPENBLAS_VERSION": `"OpenBLAS 0.3.24"`},
		linkOK: func(source string, extraArgs []string) bool {
			return !slices.Contains(extraArgs, "-lopenblas64_")
		},
	}
	mods := ModuleSet{Variant: ILP64}
	res, err := openblasSystem(tc).Probe(context.Background(), Request{Name: "openblas"}, mods)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !res.Found {
		t.Fatal("Probe not found, want second candidate to win")
	}
	if !slices.Equal(res.LinkArgs, []string{"-lopenblas_ilp64"}) {
		t.Errorf("LinkArgs = %v, want the second candidate's flags", res.LinkArgs)
	}
}

func TestSystemProbeILP64CandidateOrder(t *testing.T) {
	spec := OpenBLASSpec()
	mods := ModuleSet{Variant: ILP64}

	lenient := spec.Candidates(mods, SystemPolicy{AllowPlainNameForILP64: true})
	var names []string
	for _, c := range lenient {
		names = append(names, c.Libs...)
	}
	want := []string{"openblas64_", "openblas_ilp64", "openblas"}
	if !slices.Equal(names, want) {
		t.Errorf("candidates = %v, want %v", names, want)
	}

	strict := spec.Candidates(mods, SystemPolicy{})
	names = names[:0]
	for _, c := range strict {
		names = append(names, c.Libs...)
	}
	if slices.Contains(names, "openblas") {
		t.Errorf("strict policy still offers the unsuffixed name: %v", names)
	}
}

func TestSystemProbeExplicitDirsEmitPairForm(t *testing.T) {
	tc := &fakeToolchain{
		libs:    map[string][]string{"openblas": {"-lopenblas"}},
		headers: map[string]bool{"openblas_config.h": true},
	}
	s := NewSystemStrategyDirs("openblas", OpenBLASSpec(), SystemPolicy{}, tc,
		NewSymbolVerifier(tc), []string{"/opt/openblas/include"}, []string{"/opt/openblas/lib"})
	res, err := s.Probe(context.Background(), Request{Name: "openblas"}, ModuleSet{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !res.Found {
		t.Fatal("Probe not found")
	}
	if !slices.Equal(res.CompileArgs, []string{"-I/opt/openblas/include"}) {
		t.Errorf("CompileArgs = %v", res.CompileArgs)
	}
	if !slices.Equal(res.LinkArgs, []string{"-L/opt/openblas/lib", "-lopenblas"}) {
		t.Errorf("LinkArgs = %v", res.LinkArgs)
	}
}

func TestNetlibCandidates(t *testing.T) {
	spec := NetlibSpec()
	mods := ModuleSet{Variant: LP64, CBLAS: true, LAPACK: true, LAPACKE: true}
	cands := spec.Candidates(mods, SystemPolicy{})
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	want := []string{"blas", "cblas", "lapack", "lapacke"}
	if !slices.Equal(cands[0].Libs, want) {
		t.Errorf("libs = %v, want %v", cands[0].Libs, want)
	}

	if got := spec.MarkerHeader(mods); got != "cblas.h" {
		t.Errorf("MarkerHeader = %q, want cblas.h", got)
	}
	if got := spec.MarkerHeader(ModuleSet{LAPACKE: true}); got != "lapacke.h" {
		t.Errorf("MarkerHeader = %q, want lapacke.h", got)
	}
	if got := spec.MarkerHeader(ModuleSet{}); got != "" {
		t.Errorf("MarkerHeader = %q, want none for plain blas", got)
	}
}

// Netlib exposes no version macro: version degrades to the sentinel and the
// result is still found.
func TestNetlibUnknownVersionIsStillFound(t *testing.T) {
	tc := &fakeToolchain{
		libs: map[string][]string{"blas": {"-lblas"}, "lapack": {"-llapack"}},
	}
	s := NewSystemStrategy("netlib", NetlibSpec(), SystemPolicy{}, tc, NewSymbolVerifier(tc))
	res, err := s.Probe(context.Background(), Request{Name: "netlib"}, ModuleSet{LAPACK: true})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !res.Found {
		t.Fatal("Probe not found")
	}
	if res.Version != UnknownVersion {
		t.Errorf("Version = %q, want the unknown sentinel", res.Version)
	}
	if !slices.Equal(res.LinkArgs, []string{"-lblas", "-llapack"}) {
		t.Errorf("LinkArgs = %v", res.LinkArgs)
	}
}
