package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Neumenon/toon/input"
	"github.com/Neumenon/toon/tokens"
	"github.com/Neumenon/toon/toon"
)

var encodeFlags struct {
	format       string
	delimiter    string
	indent       int
	fold         bool
	flattenDepth int
	out          string
	watch        bool
	stats        bool
	encoding     string
}

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Convert a JSON, YAML, XML, or CSV document to TOON",
	Long: `Read a structured document and print its TOON rendering.

The source format is taken from --format, the file extension, or the
document content, in that order.

Examples:
  # Convert a JSON file
  toonify encode data.json

  # Pipe YAML through with tab cells and folded keys
  cat config.yaml | toonify encode --format yaml --delimiter tab --fold

  # Keep an output file in sync with its source
  toonify encode data.json --out data.toon --watch

  # Show token savings against the source document
  toonify encode data.json --stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVar(&encodeFlags.format, "format", "auto", "source format: json, yaml, xml, csv, auto")
	encodeCmd.Flags().StringVar(&encodeFlags.delimiter, "delimiter", "comma", "cell delimiter: comma, tab, pipe")
	encodeCmd.Flags().IntVar(&encodeFlags.indent, "indent", 2, "spaces per nesting level")
	encodeCmd.Flags().BoolVar(&encodeFlags.fold, "fold", false, "fold single-key object chains into dotted keys")
	encodeCmd.Flags().IntVar(&encodeFlags.flattenDepth, "flatten-depth", 0, "maximum folded key segments (0 = unbounded)")
	encodeCmd.Flags().StringVar(&encodeFlags.out, "out", "", "write output to a file instead of stdout")
	encodeCmd.Flags().BoolVar(&encodeFlags.watch, "watch", false, "re-encode whenever the source file changes")
	encodeCmd.Flags().BoolVar(&encodeFlags.stats, "stats", false, "report token counts for source and output")
	encodeCmd.Flags().StringVar(&encodeFlags.encoding, "encoding", tokens.DefaultEncoding, "tokenizer encoding for --stats")
}

func runEncode(cmd *cobra.Command, args []string) error {
	opts, err := encodeOptions()
	if err != nil {
		return err
	}
	format, err := input.ParseFormat(encodeFlags.format)
	if err != nil {
		return err
	}

	if encodeFlags.watch {
		if len(args) == 0 || args[0] == "-" {
			return fmt.Errorf("--watch requires a source file")
		}
		return watchEncode(cmd.Context(), args[0], format, opts)
	}

	data, path, err := readInput(args)
	if err != nil {
		return err
	}
	return encodeOnce(data, path, format, opts)
}

func encodeOnce(data []byte, path string, format input.Format, opts toon.EncodeOptions) error {
	if format == input.FormatAuto && path != "" {
		if byExt := input.DetectPath(path); byExt != input.FormatAuto {
			format = byExt
		}
	}
	v, err := input.Load(data, format)
	if err != nil {
		return err
	}
	out := toon.EncodeWithOptions(v, opts)

	if err := writeOutput(encodeFlags.out, out); err != nil {
		return err
	}
	if encodeFlags.stats {
		return printStats(string(data), out)
	}
	return nil
}

func printStats(source, output string) error {
	counter, err := tokens.NewCounter(encodeFlags.encoding)
	if err != nil {
		return err
	}
	cmp, err := counter.Compare(source, output)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, cmp)
	return nil
}

func encodeOptions() (toon.EncodeOptions, error) {
	opts := toon.DefaultEncodeOptions()
	opts.Indent = encodeFlags.indent
	opts.FlattenDepth = encodeFlags.flattenDepth
	if encodeFlags.fold {
		opts.KeyFolding = toon.FoldSafe
	}

	switch encodeFlags.delimiter {
	case "comma", ",":
		opts.Delimiter = toon.Comma
	case "tab", "\t":
		opts.Delimiter = toon.Tab
	case "pipe", "|":
		opts.Delimiter = toon.Pipe
	default:
		return opts, fmt.Errorf("unknown delimiter %q", encodeFlags.delimiter)
	}
	return opts, nil
}
