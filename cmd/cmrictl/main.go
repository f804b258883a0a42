package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cmrictl",
		Short: "CMRInet protocol diagnostics",
		Long: `cmrictl is a command-line tool for working with CMRInet node rosters
and wire traffic: validating a roster configuration, decoding a raw
frame given as hex, and running a minimal node simulator to answer
polls on a bus.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newValidateConfigCmd())
	rootCmd.AddCommand(newDecodeFrameCmd())
	rootCmd.AddCommand(newServeNodeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
