package depresolve

// SystemPolicy tunes the System Probe's candidate selection.
type SystemPolicy struct {
	// AllowPlainNameForILP64 keeps the unsuffixed library name as a
	// last-resort candidate under an ILP64 request. Such a candidate still
	// has to pass symbol verification, so an LP64-only build can never be
	// reported as ILP64. Matches upstream leniency when true.
	AllowPlainNameForILP64 bool
}

// Candidate is one on-disk naming scheme to try: every listed library must
// be locatable for the candidate to apply.
type Candidate struct {
	Libs []string
}

// SystemSpec describes how one library family appears on disk: candidate
// library names per variant, the vendor marker header, and where the version
// lives.
type SystemSpec struct {
	// MarkerHeader returns the header that must be present, or "" when the
	// family has none for the given module set.
	MarkerHeader func(mods ModuleSet) string
	// Candidates returns the ordered naming schemes to try.
	Candidates func(mods ModuleSet, policy SystemPolicy) []Candidate
	// VersionHeader/VersionMacro locate the vendor version define; an empty
	// macro means the family exposes no version this way.
	VersionHeader string
	VersionMacro  string
}

// OpenBLASSpec is the on-disk shape of OpenBLAS. ILP64 builds ship under a
// 64_-suffixed or an _ilp64-suffixed name depending on the distribution.
func OpenBLASSpec() SystemSpec {
	return SystemSpec{
		MarkerHeader: func(ModuleSet) string { return "openblas_config.h" },
		Candidates: func(mods ModuleSet, policy SystemPolicy) []Candidate {
			if mods.Variant == LP64 {
				return []Candidate{{Libs: []string{"openblas"}}}
			}
			cands := []Candidate{
				{Libs: []string{"openblas64_"}},
				{Libs: []string{"openblas_ilp64"}},
			}
			if policy.AllowPlainNameForILP64 {
				cands = append(cands, Candidate{Libs: []string{"openblas"}})
			}
			return cands
		},
		VersionHeader: "openblas_config.h",
		VersionMacro:  "OPENBLAS_VERSION",
	}
}

// NetlibSpec is the on-disk shape of the reference Netlib libraries, which
// split BLAS, LAPACK, CBLAS and LAPACKE into separate archives. Netlib
// exposes no version macro; version reporting degrades to the unknown
// sentinel.
func NetlibSpec() SystemSpec {
	return SystemSpec{
		MarkerHeader: func(mods ModuleSet) string {
			switch {
			case mods.CBLAS:
				return "cblas.h"
			case mods.LAPACKE:
				return "lapacke.h"
			}
			return ""
		},
		Candidates: func(mods ModuleSet, policy SystemPolicy) []Candidate {
			base := netlibLibs(mods, "")
			if mods.Variant == LP64 {
				return []Candidate{{Libs: base}}
			}
			cands := []Candidate{{Libs: netlibLibs(mods, "64")}}
			if policy.AllowPlainNameForILP64 {
				cands = append(cands, Candidate{Libs: base})
			}
			return cands
		},
	}
}

func netlibLibs(mods ModuleSet, suffix string) []string {
	libs := []string{"blas" + suffix}
	if mods.CBLAS {
		libs = append(libs, "cblas"+suffix)
	}
	if mods.LAPACK {
		libs = append(libs, "lapack"+suffix)
	}
	if mods.LAPACKE {
		libs = append(libs, "lapacke"+suffix)
	}
	return libs
}
