package main

import (
	"fmt"
	"os"

	"github.com/martinemde/dmi/dmi"
	"github.com/martinemde/dmi/dmiparser"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file.dmi>",
	Short: "Check a DMI file's metadata for suspicious values",
	Long:  "Parse a DMI file and run the validation rules the parser itself does not enforce (delay/frame mismatches, zero dimensions, out-of-range flags).",
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	meta, err := dmi.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	diagnostics, err := dmiparser.ValidateOrError(meta)
	for _, d := range diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Fprintf(os.Stderr, "%s: %d state(s), %d finding(s)\n", args[0], len(meta.States), len(diagnostics))
	return nil
}
