package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/nativedep/nativedep/internal/depresolve"
	"github.com/nativedep/nativedep/internal/machine"
	"github.com/nativedep/nativedep/x/cc"
)

var (
	resolveModules     []string
	resolveMachineFile string
	resolveForMachine  string
	resolveRequire     string
	resolveCflags      bool
	resolveLibs        bool
	resolveVerbose     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [family]",
	Short: "Resolve a library family into verified build flags",
	Long: `Resolve runs the discovery strategy chain for a library family (openblas,
netlib, accelerate, numpy) and prints the verified build configuration.
A library that is not installed is reported as not found.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringSliceVarP(&resolveModules, "modules", "m", nil,
		"modules to request (interface:lp64, interface:ilp64, cblas, lapack, lapacke)")
	resolveCmd.Flags().StringVar(&resolveMachineFile, "machine-file", "",
		"machine file with pinned configuration properties")
	resolveCmd.Flags().StringVar(&resolveForMachine, "for-machine", "build",
		"target machine (build or host)")
	resolveCmd.Flags().StringVar(&resolveRequire, "require", "",
		"version constraint, e.g. '>=0.3.20'")
	resolveCmd.Flags().BoolVar(&resolveCflags, "cflags", false, "print only compile flags")
	resolveCmd.Flags().BoolVar(&resolveLibs, "libs", false, "print only link flags")
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "log every probe attempt")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := newLogContext(resolveVerbose)

	forMachine, err := parseForMachine(resolveForMachine)
	if err != nil {
		return err
	}

	props := map[depresolve.Machine]machine.Properties{}
	if resolveMachineFile != "" {
		f, err := machine.LoadFile(resolveMachineFile)
		if err != nil {
			return err
		}
		props[forMachine] = f.Properties
	}

	toolchain := cc.New()
	registry := depresolve.DefaultRegistry(depresolve.Options{Toolchain: toolchain})
	resolver := depresolve.NewResolver(registry, toolchain, props)

	res, err := resolver.Resolve(ctx, depresolve.Request{
		Name:              args[0],
		Modules:           resolveModules,
		VersionConstraint: resolveRequire,
		ForMachine:        forMachine,
	})
	if err != nil {
		return err
	}
	if !res.Found {
		return fmt.Errorf("%s: not found", args[0])
	}

	switch {
	case resolveCflags:
		fmt.Println(strings.Join(res.CompileArgs, " "))
	case resolveLibs:
		fmt.Println(strings.Join(res.LinkArgs, " "))
	default:
		fmt.Printf("version:   %s\n", res.Version)
		fmt.Printf("interface: %s\n", res.Variant)
		fmt.Printf("cflags:    %s\n", strings.Join(res.CompileArgs, " "))
		fmt.Printf("libs:      %s\n", strings.Join(res.LinkArgs, " "))
	}
	return nil
}

func parseForMachine(s string) (depresolve.Machine, error) {
	switch s {
	case "build":
		return depresolve.MachineBuild, nil
	case "host":
		return depresolve.MachineHost, nil
	}
	return 0, fmt.Errorf("invalid --for-machine %q (expected build or host)", s)
}

// newLogContext installs a stderr logger on the context; probe attempts are
// logged at debug level and only shown with --verbose.
func newLogContext(verbose bool) context.Context {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(context.Background(), logger)
}
