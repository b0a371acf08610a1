package depresolve

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
)

// numpyStrategy locates NumPy headers by asking the interpreter itself.
// Header-only, so no symbol verification applies. Cross requests are a
// non-finding: the target machine's interpreter cannot be run.
type numpyStrategy struct {
	runPython func(ctx context.Context, code string) (string, bool, error)
}

// NewNumPyStrategy returns the interpreter-driven NumPy discovery strategy.
func NewNumPyStrategy() Strategy {
	return &numpyStrategy{runPython: runPython}
}

func (s *numpyStrategy) Name() string { return "python" }

func (s *numpyStrategy) Probe(ctx context.Context, req Request, mods ModuleSet) (StrategyResult, error) {
	log := clog.FromContext(ctx).With("family", "numpy", "strategy", s.Name())

	if req.ForMachine == MachineHost {
		log.Debugf("cannot probe numpy for a cross target")
		return StrategyResult{}, nil
	}

	includeDir, ok, err := s.runPython(ctx, "import numpy; print(numpy.get_include())")
	if err != nil {
		return StrategyResult{}, err
	}
	if !ok || includeDir == "" {
		return StrategyResult{}, nil
	}
	if !strings.HasSuffix(includeDir, filepath.Join("numpy", "core", "include")) &&
		!strings.HasSuffix(includeDir, filepath.Join("numpy", "_core", "include")) {
		log.Debugf("unexpected numpy include dir %q", includeDir)
		return StrategyResult{}, nil
	}

	version := UnknownVersion
	if v, ok, err := s.runPython(ctx, "import numpy; print(numpy.__version__)"); err != nil {
		return StrategyResult{}, err
	} else if ok {
		version = ExtractVersion(v)
	}

	return StrategyResult{
		Found:       true,
		CompileArgs: []string{"-I" + includeDir},
		Version:     version,
	}, nil
}

// runPython executes a one-liner under the build machine's python. A python
// that is missing or exits non-zero (no numpy installed) is a probe
// negative, not a fault.
func runPython(ctx context.Context, code string) (string, bool, error) {
	python := os.Getenv("PYTHON")
	if python == "" {
		python = "python3"
	}
	out, err := exec.CommandContext(ctx, python, "-c", code).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || errors.Is(err, exec.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(out)), true, nil
}
