// Package cc wraps a C compiler driver for small compile/link probes.
//
// Every probe builds a throwaway translation unit in a temp directory and
// invokes the compiler on it. A probe that the compiler rejects is a normal
// negative answer; a compiler that cannot be run at all is a ToolchainError.
package cc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToolchainError reports that the compiler driver itself failed to run,
// as opposed to a probe compiling or linking unsuccessfully.
type ToolchainError struct {
	Tool string
	Err  error
}

func (e *ToolchainError) Error() string {
	return fmt.Sprintf("toolchain %s: %v", e.Tool, e.Err)
}

func (e *ToolchainError) Unwrap() error { return e.Err }

// Toolchain drives compile/link probes through a C compiler binary.
type Toolchain struct {
	compiler string
}

// New returns a Toolchain using $CC, falling back to "cc".
func New() *Toolchain {
	compiler := os.Getenv("CC")
	if compiler == "" {
		compiler = "cc"
	}
	return &Toolchain{compiler: compiler}
}

// NewWith returns a Toolchain using the given compiler binary.
func NewWith(compiler string) *Toolchain {
	return &Toolchain{compiler: compiler}
}

// Compiler returns the compiler binary in use.
func (t *Toolchain) Compiler() string { return t.compiler }

const trialMain = "int main(void) { return 0; }\n"

// FindLibrary checks that -l<name> resolves at link time. When extraDirs is
// non-empty each directory is passed as -L and included in the returned args.
// A nil, nil return means the library was not found.
func (t *Toolchain) FindLibrary(ctx context.Context, name string, extraDirs []string) ([]string, error) {
	args := make([]string, 0, len(extraDirs)+1)
	for _, dir := range extraDirs {
		args = append(args, "-L"+dir)
	}
	args = append(args, "-l"+name)

	ok, err := t.Links(ctx, trialMain, args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return args, nil
}

// HasHeader checks that #include <header> preprocesses cleanly with the
// given extra compile args applied.
func (t *Toolchain) HasHeader(ctx context.Context, header string, extraArgs []string) (bool, error) {
	source := fmt.Sprintf("#include <%s>\n", header) + trialMain
	dir, err := os.MkdirTemp("", "nativedep-probe-*")
	if err != nil {
		return false, err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "probe.c")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return false, err
	}
	args := append([]string{"-E", "-o", os.DevNull, src}, extraArgs...)
	return t.run(ctx, args)
}

// GetDefine preprocesses prelude followed by a marker line expanding the
// macro, and returns the expanded text. The empty string means the macro is
// not defined (or expands to nothing).
func (t *Toolchain) GetDefine(ctx context.Context, macro, prelude string, extraArgs []string) (string, error) {
	const begin = "nativedep_probe_begin"
	const end = "nativedep_probe_end"
	source := prelude + "\n" + begin + " " + macro + " " + end + "\n"

	dir, err := os.MkdirTemp("", "nativedep-probe-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "probe.c")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return "", err
	}

	args := append([]string{"-E", "-P", src}, extraArgs...)
	out, ok, err := t.runOutput(ctx, args)
	if err != nil || !ok {
		return "", err
	}

	i := strings.Index(out, begin)
	j := strings.LastIndex(out, end)
	if i < 0 || j < 0 || j <= i {
		return "", nil
	}
	value := strings.TrimSpace(out[i+len(begin) : j])
	if value == macro {
		// Not defined: the preprocessor left the name as-is.
		return "", nil
	}
	return value, nil
}

// Links compiles and links source with extraArgs appended and reports
// whether the whole job succeeded.
func (t *Toolchain) Links(ctx context.Context, source string, extraArgs []string) (bool, error) {
	dir, err := os.MkdirTemp("", "nativedep-probe-*")
	if err != nil {
		return false, err
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "probe.c")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		return false, err
	}
	out := filepath.Join(dir, "probe.out")
	args := append([]string{src, "-o", out}, extraArgs...)
	return t.run(ctx, args)
}

// FindFramework checks that -framework <name> resolves at link time and
// returns the link args on success. Only meaningful on darwin hosts; a
// nil, nil return means the framework was not found.
func (t *Toolchain) FindFramework(ctx context.Context, name string) ([]string, error) {
	args := []string{"-framework", name}
	ok, err := t.Links(ctx, trialMain, args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return args, nil
}

func (t *Toolchain) run(ctx context.Context, args []string) (bool, error) {
	_, ok, err := t.runOutput(ctx, args)
	return ok, err
}

func (t *Toolchain) runOutput(ctx context.Context, args []string) (string, bool, error) {
	cmd := exec.CommandContext(ctx, t.compiler, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The compiler ran and rejected the probe.
			return "", false, nil
		}
		return "", false, &ToolchainError{Tool: t.compiler, Err: err}
	}
	return string(out), true, nil
}
