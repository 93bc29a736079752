// Package input loads structured documents from common interchange
// formats into the toon value model. JSON and YAML keep their object key
// order; XML elements and CSV rows map onto objects and arrays.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Neumenon/toon/toon"
)

// Format identifies a source document format.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
	FormatXML
	FormatCSV
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatXML:
		return "xml"
	case FormatCSV:
		return "csv"
	default:
		return "auto"
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xml":
		return FormatXML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatAuto, fmt.Errorf("input: unknown format %q", name)
	}
}

// DetectPath guesses the format from a file extension. FormatAuto means
// the extension was not conclusive.
func DetectPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".xml":
		return FormatXML
	case ".csv":
		return FormatCSV
	default:
		return FormatAuto
	}
}

// DetectContent guesses the format from the document's leading bytes.
func DetectContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatJSON
	}
	switch trimmed[0] {
	case '{', '[', '"':
		return FormatJSON
	case '<':
		return FormatXML
	}
	// A comma before the first newline with no colon reads like a CSV
	// header row.
	head := trimmed
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		head = head[:idx]
	}
	if bytes.IndexByte(head, ',') >= 0 && bytes.IndexByte(head, ':') < 0 {
		return FormatCSV
	}
	return FormatYAML
}

// Load parses data in the given format. FormatAuto detects from content.
func Load(data []byte, format Format) (*toon.Value, error) {
	if format == FormatAuto {
		format = DetectContent(data)
	}
	switch format {
	case FormatJSON:
		return toon.FromJSON(data)
	case FormatYAML:
		return fromYAML(data)
	case FormatXML:
		return fromXML(data)
	case FormatCSV:
		return fromCSV(data)
	default:
		return nil, fmt.Errorf("input: unsupported format %s", format)
	}
}

// LoadReader reads a document from r and parses it.
func LoadReader(r io.Reader, format Format) (*toon.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("input: read: %w", err)
	}
	return Load(data, format)
}

// LoadFile reads and parses a file, using the extension when the format
// is FormatAuto.
func LoadFile(path string, format Format) (*toon.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if format == FormatAuto {
		if byExt := DetectPath(path); byExt != FormatAuto {
			format = byExt
		}
	}
	return Load(data, format)
}
