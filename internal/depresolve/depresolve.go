// Package depresolve resolves abstract requests for native numerical
// libraries (the BLAS/LAPACK family) into verified build configurations:
// compiler flags, linker flags, a detected version and a confirmed ABI
// variant.
//
// A request names a library family ("openblas", "netlib", "accelerate",
// "numpy") and the modules it needs. Discovery runs an ordered chain of
// strategies; the first strategy whose result also passes symbol-level
// verification wins. "Not installed" is a normal outcome, reported as a
// Resolved with Found=false, never as an error.
package depresolve

import (
	"context"
	"fmt"
)

// Variant selects the BLAS/LAPACK integer-width ABI.
type Variant int

const (
	// LP64 is the 32-bit index interface (the default).
	LP64 Variant = iota
	// ILP64 is the 64-bit index interface.
	ILP64
)

func (v Variant) String() string {
	if v == ILP64 {
		return "ilp64"
	}
	return "lp64"
}

// Suffix returns the symbol mangling suffix for the variant.
func (v Variant) Suffix() string {
	if v == ILP64 {
		return "64_"
	}
	return ""
}

// Machine selects whether the request targets the build or the host machine.
type Machine int

const (
	MachineBuild Machine = iota
	MachineHost
)

// Request describes one library to resolve. It is immutable; resolving the
// same Request twice performs two independent discoveries.
type Request struct {
	Name              string   // library family, e.g. "openblas"
	Modules           []string // raw module tokens, see ParseModules
	VersionConstraint string   // optional, e.g. ">=0.3.20"
	ForMachine        Machine
}

// ModuleSet is the validated, normalized form of a Request's module tokens.
type ModuleSet struct {
	Variant Variant
	CBLAS   bool
	LAPACK  bool
	LAPACKE bool
}

// StrategyResult is what a single discovery strategy reports. When Found is
// false all other fields are empty. Flag order is significant and preserved
// exactly as discovered.
type StrategyResult struct {
	Found       bool
	CompileArgs []string
	LinkArgs    []string
	Version     string
}

// Resolved is the terminal value of one resolution. Constructed once,
// immutable thereafter.
type Resolved struct {
	Found        bool
	CompileArgs  []string
	LinkArgs     []string
	Version      string
	Variant      Variant
	Capabilities ModuleSet // which of cblas/lapack/lapacke were confirmed
}

// Strategy is one self-contained discovery mechanism for a library family.
// A strategy returning Found=false is a non-finding, not an error; errors are
// reserved for toolchain faults and abort the whole resolution.
type Strategy interface {
	Name() string
	Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error)
}

// Toolchain is the narrow compiler capability the engine consumes. It is
// implemented by x/cc and faked in tests.
type Toolchain interface {
	// FindLibrary reports the link args for -l<name>, or nil if not found.
	FindLibrary(ctx context.Context, name string, extraDirs []string) ([]string, error)
	// HasHeader reports whether #include <header> resolves.
	HasHeader(ctx context.Context, header string, extraArgs []string) (bool, error)
	// GetDefine returns the preprocessor expansion of macro, "" if undefined.
	GetDefine(ctx context.Context, macro, prelude string, extraArgs []string) (string, error)
	// Links reports whether source compiles and links with extraArgs.
	Links(ctx context.Context, source string, extraArgs []string) (bool, error)
	// FindFramework reports the link args for -framework <name>, or nil.
	FindFramework(ctx context.Context, name string) ([]string, error)
}

// ConfigError reports a caller or machine-file mistake. It is fatal and is
// never downgraded to a "not found" outcome.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
