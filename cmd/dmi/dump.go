package main

import (
	"fmt"
	"os"

	"github.com/martinemde/dmi/dmi"
	"github.com/martinemde/dmi/dmiparser"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.dmi>",
	Short: "Print the raw metadata text of a DMI file",
	Long:  "Extract the embedded metadata block and print it verbatim, or re-encoded in canonical form with --canonical.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("canonical", false, "Re-encode the parsed metadata instead of printing it verbatim")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	canonical, _ := cmd.Flags().GetBool("canonical")

	if canonical {
		meta, err := dmi.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		os.Stdout.Write(dmiparser.Encode(meta))
		return nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	text, err := dmi.ExtractText(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	fmt.Print(text)
	return nil
}
