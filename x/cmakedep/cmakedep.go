// Package cmakedep locates installed libraries through CMake's find_package.
//
// It generates a throwaway CMake project that runs find_package and dumps the
// package's variables as status messages, then parses them back out of the
// configure output.
package cmakedep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Package holds what find_package reported for one package.
type Package struct {
	Name        string
	Version     string
	IncludeDirs []string
	Libraries   []string
}

// Finder wraps the cmake executable.
type Finder struct {
	tool string
}

// New returns a Finder using $CMAKE, falling back to "cmake".
func New() *Finder {
	tool := os.Getenv("CMAKE")
	if tool == "" {
		tool = "cmake"
	}
	return &Finder{tool: tool}
}

// NewWith returns a Finder using the given executable.
func NewWith(tool string) *Finder {
	return &Finder{tool: tool}
}

const (
	markFound    = "nativedep-found:"
	markVersion  = "nativedep-version:"
	markIncludes = "nativedep-include-dirs:"
	markLibs     = "nativedep-libraries:"
)

// TrialProject returns the CMakeLists.txt text used to probe name.
func TrialProject(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "cmake_minimum_required(VERSION 3.10)\n")
	fmt.Fprintf(&b, "project(nativedep_probe C)\n")
	fmt.Fprintf(&b, "find_package(%s)\n", name)
	fmt.Fprintf(&b, "if(%s_FOUND)\n", name)
	fmt.Fprintf(&b, "  message(STATUS \"%s 1\")\n", markFound)
	fmt.Fprintf(&b, "  message(STATUS \"%s ${%s_VERSION}\")\n", markVersion, name)
	fmt.Fprintf(&b, "  message(STATUS \"%s ${%s_INCLUDE_DIRS}\")\n", markIncludes, name)
	fmt.Fprintf(&b, "  message(STATUS \"%s ${%s_LIBRARIES}\")\n", markLibs, name)
	fmt.Fprintf(&b, "endif()\n")
	return b.String()
}

// Find runs the trial project for name. A nil, nil return means find_package
// did not locate the package; an error means cmake itself could not be run.
func (f *Finder) Find(ctx context.Context, name string) (*Package, error) {
	dir, err := os.MkdirTemp("", "nativedep-cmake-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	lists := filepath.Join(dir, "CMakeLists.txt")
	if err := os.WriteFile(lists, []byte(TrialProject(name)), 0o644); err != nil {
		return nil, err
	}

	buildDir := filepath.Join(dir, "build")
	cmd := exec.CommandContext(ctx, f.tool, "-S", dir, "-B", buildDir)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Configure failed; treat as not found.
			return nil, nil
		}
		return nil, err
	}
	return ParseOutput(name, string(out)), nil
}

// ParseOutput extracts the probe markers from cmake configure output.
// It returns nil when the found marker is absent.
func ParseOutput(name, out string) *Package {
	pkg := &Package{Name: name}
	found := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "--"))
		switch {
		case strings.HasPrefix(line, markFound):
			found = true
		case strings.HasPrefix(line, markVersion):
			pkg.Version = strings.TrimSpace(strings.TrimPrefix(line, markVersion))
		case strings.HasPrefix(line, markIncludes):
			pkg.IncludeDirs = splitList(strings.TrimPrefix(line, markIncludes))
		case strings.HasPrefix(line, markLibs):
			pkg.Libraries = splitList(strings.TrimPrefix(line, markLibs))
		}
	}
	if !found {
		return nil
	}
	return pkg
}

// splitList splits a semicolon-separated CMake list.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
