package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Neumenon/toon/toon"
)

var validateFlags struct {
	indent int
	quiet  bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a TOON document against the strict rules",
	Long: `Validate a TOON document: declared array counts, row widths, and
indentation discipline. All recoverable violations are reported in one
pass; the exit status is nonzero when any violation is found.

Examples:
  toonify validate data.toon
  cat data.toon | toonify validate --quiet && echo ok`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVar(&validateFlags.indent, "indent", 2, "expected spaces per nesting level")
	validateCmd.Flags().BoolVar(&validateFlags.quiet, "quiet", false, "suppress violation listing, set exit status only")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, path, err := readInput(args)
	if err != nil {
		return err
	}

	opts := toon.DefaultDecodeOptions()
	opts.Indent = validateFlags.indent

	result := toon.ValidateWithOptions(string(data), opts)
	if result.Valid {
		if !validateFlags.quiet {
			fmt.Println("valid")
		}
		return nil
	}

	if !validateFlags.quiet {
		name := path
		if name == "" {
			name = "stdin"
		}
		for _, v := range result.Violations {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", name, v.Code, v)
		}
	}
	return fmt.Errorf("%d violation(s)", len(result.Violations))
}
