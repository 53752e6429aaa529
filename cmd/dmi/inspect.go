package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/martinemde/dmi/dmi"
	"github.com/martinemde/dmi/dmiparser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.dmi>",
	Short: "Print the parsed metadata of a DMI file",
	Long:  "Extract and parse the metadata block of a DMI file, then print a per-state summary.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "Emit the metadata as JSON")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	meta, err := dmi.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		out, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(meta)
	return nil
}

// printSummary prints a human-readable breakdown of the metadata.
func printSummary(meta *dmiparser.Metadata) {
	fmt.Printf("version %.1f, %dx%d canvas, %d state(s)\n",
		meta.Header.Version, meta.Header.Width, meta.Header.Height, len(meta.States))

	verbose := viper.GetBool("verbose")

	for _, s := range meta.States {
		fmt.Printf("  %q: %d dirs, %d frame(s)", s.Name, s.Dirs, s.Frames)
		if s.Delays != nil {
			fmt.Printf(", delays %v", s.Delays)
		}
		if s.Movement != nil && *s.Movement != 0 {
			fmt.Print(", movement")
		}
		if s.Rewind != nil && *s.Rewind != 0 {
			fmt.Print(", rewind")
		}
		if s.Loop != nil {
			fmt.Printf(", loop=%d", *s.Loop)
		}
		if s.Hotspot != nil {
			fmt.Printf(", hotspot (%g, %g)", s.Hotspot[0], s.Hotspot[1])
		}
		fmt.Println()

		if verbose && len(s.Unknown) > 0 {
			for name, value := range s.Unknown {
				fmt.Fprintf(os.Stderr, "    unrecognized key %s = %s\n", name, value)
			}
		}
	}
}
