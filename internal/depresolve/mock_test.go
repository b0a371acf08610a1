package depresolve

import (
	"context"
	"errors"
	"strings"

	"github.com/nativedep/nativedep/x/cmakedep"
	"github.com/nativedep/nativedep/x/pkgconfig"
)

var errTest = errors.New("test failure")

// fakeToolchain implements Toolchain against an in-memory "system". Every
// probe bumps calls so tests can assert that automatic discovery was (or was
// not) attempted.
type fakeToolchain struct {
	libs       map[string][]string // library name -> locator link args
	headers    map[string]bool
	defines    map[string]string // macro -> raw expansion
	frameworks map[string][]string

	// linkOK decides whether a synthesized probe links. nil means all
	// symbol-verification links succeed.
	linkOK func(source string, extraArgs []string) bool

	calls      int
	linksCalls int
}

var _ Toolchain = (*fakeToolchain)(nil)

func (f *fakeToolchain) FindLibrary(ctx context.Context, name string, extraDirs []string) ([]string, error) {
	f.calls++
	args, ok := f.libs[name]
	if !ok {
		return nil, nil
	}
	if len(extraDirs) > 0 {
		var out []string
		for _, dir := range extraDirs {
			out = append(out, "-L"+dir)
		}
		return append(out, "-l"+name), nil
	}
	return args, nil
}

func (f *fakeToolchain) HasHeader(ctx context.Context, header string, extraArgs []string) (bool, error) {
	f.calls++
	return f.headers[header], nil
}

func (f *fakeToolchain) GetDefine(ctx context.Context, macro, prelude string, extraArgs []string) (string, error) {
	f.calls++
	return f.defines[macro], nil
}

func (f *fakeToolchain) Links(ctx context.Context, source string, extraArgs []string) (bool, error) {
	f.calls++
	f.linksCalls++
	if f.linkOK == nil {
		return true, nil
	}
	return f.linkOK(source, extraArgs), nil
}

func (f *fakeToolchain) FindFramework(ctx context.Context, name string) ([]string, error) {
	f.calls++
	args, ok := f.frameworks[name]
	if !ok {
		return nil, nil
	}
	return args, nil
}

// rejectSymbols returns a linkOK that fails whenever the probe source
// declares any of the given symbols.
func rejectSymbols(symbols ...string) func(string, []string) bool {
	return func(source string, extraArgs []string) bool {
		for _, sym := range symbols {
			if strings.Contains(source, "void "+sym+"(void);") {
				return false
			}
		}
		return true
	}
}

// fakeMetadata implements MetadataSource from a fixed map.
type fakeMetadata struct {
	pkgs  map[string]*pkgconfig.Info
	calls int
}

var _ MetadataSource = (*fakeMetadata)(nil)

func (f *fakeMetadata) Query(ctx context.Context, name string) (*pkgconfig.Info, error) {
	f.calls++
	return f.pkgs[name], nil
}

// fakeBuildConfig implements BuildConfigSource from a fixed map.
type fakeBuildConfig struct {
	pkgs  map[string]*cmakedep.Package
	calls int
}

var _ BuildConfigSource = (*fakeBuildConfig)(nil)

func (f *fakeBuildConfig) Find(ctx context.Context, name string) (*cmakedep.Package, error) {
	f.calls++
	return f.pkgs[name], nil
}
