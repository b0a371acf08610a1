package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nativedep",
	Short: "nativedep resolves native numerical libraries into build flags",
	Long: `nativedep locates vendor implementations of BLAS/LAPACK (OpenBLAS, Netlib,
Apple Accelerate) and related libraries, verifies the requested ABI variant at
the symbol level, and prints the compiler and linker flags to use.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
