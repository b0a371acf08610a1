// Package pkgconfig queries pkg-config metadata for installed libraries.
package pkgconfig

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Info holds the build flags pkg-config reported for one package.
// Flag order is preserved exactly as printed.
type Info struct {
	Name    string
	Version string
	Cflags  []string
	Libs    []string
}

// PkgConfig wraps the pkg-config executable.
type PkgConfig struct {
	tool string
}

// New returns a PkgConfig using $PKG_CONFIG, falling back to "pkg-config".
func New() *PkgConfig {
	tool := os.Getenv("PKG_CONFIG")
	if tool == "" {
		tool = "pkg-config"
	}
	return &PkgConfig{tool: tool}
}

// NewWith returns a PkgConfig using the given executable.
func NewWith(tool string) *PkgConfig {
	return &PkgConfig{tool: tool}
}

// Query looks up a package. A nil, nil return means pkg-config does not know
// the package; an error means pkg-config itself could not be run.
func (p *PkgConfig) Query(ctx context.Context, name string) (*Info, error) {
	if ok, err := p.exists(ctx, name); err != nil || !ok {
		return nil, err
	}

	version, err := p.output(ctx, "--modversion", name)
	if err != nil {
		return nil, err
	}
	cflags, err := p.output(ctx, "--cflags", name)
	if err != nil {
		return nil, err
	}
	libs, err := p.output(ctx, "--libs", name)
	if err != nil {
		return nil, err
	}

	return &Info{
		Name:    name,
		Version: strings.TrimSpace(version),
		Cflags:  SplitFlags(cflags),
		Libs:    SplitFlags(libs),
	}, nil
}

func (p *PkgConfig) exists(ctx context.Context, name string) (bool, error) {
	err := exec.CommandContext(ctx, p.tool, "--exists", name).Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

func (p *PkgConfig) output(ctx context.Context, query, name string) (string, error) {
	out, err := exec.CommandContext(ctx, p.tool, query, name).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// SplitFlags splits a pkg-config flag line on whitespace, preserving order.
func SplitFlags(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
