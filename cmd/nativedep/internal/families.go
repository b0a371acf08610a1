package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nativedep/nativedep/internal/depresolve"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the known library families",
	Args:  cobra.NoArgs,
	RunE:  runFamilies,
}

func init() {
	rootCmd.AddCommand(familiesCmd)
}

func runFamilies(cmd *cobra.Command, args []string) error {
	registry := depresolve.DefaultRegistry(depresolve.Options{})
	for _, name := range registry.Names() {
		fam, _ := registry.Family(name)
		var strategies []string
		for _, s := range fam.Strategies {
			strategies = append(strategies, s.Name())
		}
		fmt.Printf("%-12s %v\n", name, strategies)
	}
	return nil
}
