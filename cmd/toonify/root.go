package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "toonify",
	Short: "Convert structured data to and from TOON",
	Long: `Toonify converts JSON, YAML, XML, and CSV documents into TOON, a
compact indentation-based notation that spends fewer tokens than JSON on
the same data, and converts TOON back to JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits nonzero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "toonify: %v\n", err)
		os.Exit(1)
	}
}

// readInput returns the document bytes and the source path ("" for stdin).
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return data, args[0], nil
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(path, []byte(content+"\n"), 0o644)
}
