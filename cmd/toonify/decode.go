package main

import (
	"github.com/spf13/cobra"

	"github.com/Neumenon/toon/toon"
)

var decodeFlags struct {
	loose  bool
	expand bool
	indent int
	pretty bool
	out    string
}

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Convert a TOON document to JSON",
	Long: `Read a TOON document and print it as JSON, preserving key order.

Strict mode is the default: declared array counts and indentation are
enforced. Use --loose to accept documents with drifted counts or uneven
indentation.

Examples:
  # Convert to compact JSON
  toonify decode data.toon

  # Pretty-print and expand dotted keys into nested objects
  toonify decode data.toon --pretty --expand`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&decodeFlags.loose, "loose", false, "tolerate count and indentation drift")
	decodeCmd.Flags().BoolVar(&decodeFlags.expand, "expand", false, "expand dotted keys into nested objects")
	decodeCmd.Flags().IntVar(&decodeFlags.indent, "indent", 2, "expected spaces per nesting level")
	decodeCmd.Flags().BoolVar(&decodeFlags.pretty, "pretty", false, "indent the JSON output")
	decodeCmd.Flags().StringVar(&decodeFlags.out, "out", "", "write output to a file instead of stdout")
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, _, err := readInput(args)
	if err != nil {
		return err
	}

	opts := toon.DefaultDecodeOptions()
	opts.Indent = decodeFlags.indent
	opts.Strict = !decodeFlags.loose
	if decodeFlags.expand {
		opts.ExpandPaths = toon.ExpandSafe
	}

	v, err := toon.DecodeWithOptions(string(data), opts)
	if err != nil {
		return err
	}

	out := toon.ToJSON(v)
	if decodeFlags.pretty {
		out = toon.ToJSONIndent(v, "  ")
	}
	return writeOutput(decodeFlags.out, out)
}
