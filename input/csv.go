package input

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/Neumenon/toon/toon"
)

// fromCSV parses a CSV document into an array of objects. The first
// record supplies the field names; cell values are type-inferred.
func fromCSV(data []byte) (*toon.Value, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 0 // every record must match the header width

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("input: csv: %w", err)
	}
	if len(records) == 0 {
		return toon.Array(), nil
	}

	header := records[0]
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("input: csv: empty column name at position %d", i+1)
		}
	}

	rows := toon.Array()
	for _, record := range records[1:] {
		row := toon.Object()
		for i, cell := range record {
			row.Set(header[i], inferScalar(cell))
		}
		rows.Append(row)
	}
	return rows, nil
}

// inferScalar maps raw interchange text to the narrowest scalar kind.
// Shared by the CSV and XML loaders, which carry no type information of
// their own.
func inferScalar(cell string) *toon.Value {
	switch cell {
	case "":
		return toon.Null()
	case "null":
		return toon.Null()
	case "true":
		return toon.Bool(true)
	case "false":
		return toon.Bool(false)
	}
	if looksLikeNumber(cell) {
		if !strings.ContainsAny(cell, ".eE") {
			if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
				return toon.Int(n)
			}
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return toon.Float(f)
		}
	}
	return toon.Str(cell)
}

// looksLikeNumber applies the JSON number grammar, so "007" and "1."
// stay strings.
func looksLikeNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	return i == len(s)
}
