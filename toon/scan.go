package toon

import (
	"strconv"
	"strings"
)

// ============================================================
// Lexical Scanner
// ============================================================
//
// Splits TOON text into indentation-tagged lines and classifies each
// line's structural role without interpreting scalar values. Lines are
// produced once per decode and consumed in one forward pass.

type lineKind uint8

const (
	lineScalar lineKind = iota
	linePair
	lineArrayHeader
	lineTabularHeader
	lineListItem
)

func (k lineKind) String() string {
	switch k {
	case linePair:
		return "pair"
	case lineArrayHeader:
		return "array header"
	case lineTabularHeader:
		return "tabular header"
	case lineListItem:
		return "list item"
	default:
		return "scalar"
	}
}

// line is one scanned source line. It owns no cross-line state.
type line struct {
	num    int    // 1-based source line number
	depth  int    // leadingSpaceCount / indentWidth
	text   string // content after indentation, right-trimmed
	kind   lineKind
	header *arrayHeader // parsed header for header kinds
}

// arrayHeader is the parsed form of `key[N<mark>]{fields}: inline`.
type arrayHeader struct {
	key       string
	hasKey    bool
	count     int
	delim     Delimiter
	fields    []string
	hasFields bool
	inline    string // trailing inline values, "" if none
	line      int
}

// violationSink routes decode errors: Decode stops at the first one,
// Validate aggregates the non-fatal kinds and keeps going.
type violationSink struct {
	collect bool
	list    []*DecodeError
}

func (s *violationSink) report(err *DecodeError) error {
	if s.collect && !err.Fatal() {
		s.list = append(s.list, err)
		return nil
	}
	return err
}

// scanLines splits input into classified lines, enforcing indentation
// discipline in strict mode. Blank lines are skipped; lines are never
// merged or reordered.
func scanLines(input string, opts DecodeOptions, sink *violationSink) ([]line, error) {
	var lines []line

	for num, raw := 1, input; raw != ""; num++ {
		var text string
		if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
			text, raw = raw[:idx], raw[idx+1:]
		} else {
			text, raw = raw, ""
		}
		text = strings.TrimRight(text, " \t\r")
		if text == "" {
			continue
		}

		spaces := 0
		for spaces < len(text) && text[spaces] == ' ' {
			spaces++
		}
		if spaces < len(text) && text[spaces] == '\t' {
			if opts.Strict {
				if err := sink.report(decodeErrf(ErrIndentation, num,
					"tabs are not allowed for indentation")); err != nil {
					return nil, err
				}
			}
			for spaces < len(text) && (text[spaces] == ' ' || text[spaces] == '\t') {
				spaces++
			}
		}

		if opts.Strict && spaces%opts.Indent != 0 {
			if err := sink.report(decodeErrf(ErrIndentation, num,
				"indentation of %d spaces is not a multiple of %d", spaces, opts.Indent)); err != nil {
				return nil, err
			}
		}
		depth := spaces / opts.Indent

		// Level jumps are checked by the parser, which knows each line's
		// structural parent; the scanner only sees raw columns.
		if len(lines) == 0 && depth > 0 && opts.Strict {
			if err := sink.report(decodeErrf(ErrIndentation, num,
				"first line must not be indented")); err != nil {
				return nil, err
			}
		}

		ln := line{num: num, depth: depth, text: text[spaces:]}
		if err := classifyLine(&ln); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}

	return lines, nil
}

// classifyLine tags the line's structural role and attaches the parsed
// header for header kinds.
func classifyLine(ln *line) error {
	text := ln.text

	if text == "-" || strings.HasPrefix(text, "- ") {
		ln.kind = lineListItem
		return nil
	}

	before, _, hasColon := splitUnquotedColon(text)
	if !hasColon {
		ln.kind = lineScalar
		return nil
	}

	// Only a bracket outside quotes opens a count: `"a[0]": 1` is a pair,
	// `"odd key"[1]: x` is a header.
	if hasUnquotedBracket(before) {
		header, err := parseHeader(text, ln.num)
		if err != nil {
			return err
		}
		ln.header = header
		if header.hasFields {
			ln.kind = lineTabularHeader
		} else {
			ln.kind = lineArrayHeader
		}
		return nil
	}

	ln.kind = linePair
	return nil
}

func hasUnquotedBracket(s string) bool {
	return indexUnquoted(s, '[') >= 0
}

// indexUnquoted returns the position of the first target byte outside a
// quoted string, or -1.
func indexUnquoted(s string, target byte) int {
	inQuotes := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuotes = false
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case target:
			return i
		}
	}
	return -1
}

// splitUnquotedColon splits text at the first colon outside a quoted
// string. The key side is right-trimmed, the value side left-trimmed.
func splitUnquotedColon(text string) (before, after string, ok bool) {
	inQuotes := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuotes = false
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ':':
			return strings.TrimRight(text[:i], " "), strings.TrimLeft(text[i+1:], " "), true
		}
	}
	return "", "", false
}

// parseHeader parses `key[N<mark>]{fields}: inline`. The caller has
// already established that the pre-colon segment contains a bracket.
func parseHeader(text string, num int) (*arrayHeader, error) {
	before, after, _ := splitUnquotedColon(text)

	bracket := indexUnquoted(before, '[')
	if bracket < 0 {
		return nil, decodeErrf(ErrStructuralParse, num, "malformed array header")
	}

	h := &arrayHeader{line: num, inline: after}
	if bracket > 0 {
		key, err := parseKey(strings.TrimRight(before[:bracket], " "))
		if err != nil {
			return nil, withLine(err, num)
		}
		h.key = key
		h.hasKey = true
	}

	rest := before[bracket:]
	closing := strings.IndexByte(rest, ']')
	if closing < 0 {
		return nil, decodeErrf(ErrStructuralParse, num, "missing closing ']' in array header")
	}

	inner := rest[1:closing]
	switch {
	case strings.HasSuffix(inner, "|"):
		h.delim = Pipe
		inner = inner[:len(inner)-1]
	case strings.HasSuffix(inner, "\t"):
		h.delim = Tab
		inner = inner[:len(inner)-1]
	default:
		h.delim = Comma
	}

	count, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil || count < 0 {
		return nil, decodeErrf(ErrStructuralParse, num, "invalid array count %q", inner)
	}
	h.count = count

	rest = strings.TrimLeft(rest[closing+1:], " ")
	if strings.HasPrefix(rest, "{") {
		brace := strings.IndexByte(rest, '}')
		if brace < 0 {
			return nil, decodeErrf(ErrStructuralParse, num, "missing '}' in field list")
		}
		fields, err := parseFieldList(rest[1:brace], h.delim, num)
		if err != nil {
			return nil, err
		}
		h.fields = fields
		h.hasFields = true
		rest = strings.TrimLeft(rest[brace+1:], " ")
	}

	if rest != "" {
		return nil, decodeErrf(ErrStructuralParse, num, "unexpected content after array header")
	}
	return h, nil
}

func parseFieldList(segment string, delim Delimiter, num int) ([]string, error) {
	cells := splitCells(segment, delim)
	fields := make([]string, 0, len(cells))
	for _, raw := range cells {
		key, err := parseKey(strings.TrimSpace(raw))
		if err != nil {
			return nil, withLine(err, num)
		}
		fields = append(fields, key)
	}
	return fields, nil
}

// splitCells splits on the delimiter outside quoted strings. Cells are
// trimmed; quote state carries escape handling.
func splitCells(input string, delim Delimiter) []string {
	sep := delim.rune()
	var cells []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range input {
		if inQuotes {
			cur.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inQuotes = false
			}
			continue
		}
		switch {
		case r == '"':
			inQuotes = true
			cur.WriteRune(r)
		case r == sep:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// withLine stamps a line number onto a DecodeError that lacks one.
func withLine(err error, num int) error {
	if de, ok := err.(*DecodeError); ok && de.Line == 0 {
		de.Line = num
	}
	return err
}
