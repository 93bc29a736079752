package toon

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Scalar Codec
// ============================================================
//
// Maps between a scalar Value and its literal textual form. Shared by the
// encoder (quoting/escaping) and the decoder (type inference/unquoting).
//
// Literal grammar, tried in order on decode:
//   quoted string -> string (the only failing branch: malformed quoting)
//   null | true | false
//   number (JSON grammar, no leading zeros)
//   anything else -> bare string

// encodeScalar renders a scalar value as its literal form. The delimiter
// participates in quoting decisions. Calling it with a container is a
// defect in the encoder, not a user-facing error.
func encodeScalar(v *Value, delim Delimiter) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.boolVal)
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return formatFloat(v.floatVal)
	case KindString:
		return encodeString(v.strVal, delim)
	default:
		panic("toon: encodeScalar called with " + v.Kind().String())
	}
}

// formatFloat emits the shortest exact decimal form that round-trips,
// always keeping a decimal point (or exponent) so the integer/fractional
// distinction survives. Negative zero normalizes to 0.0.
func formatFloat(f float64) string {
	if f == 0 {
		return "0.0"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// The bridges reject these before they can reach the encoder.
		panic("toon: non-finite float in value tree")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// encodeString returns the bare text when unambiguous, otherwise the
// quoted and escaped form.
func encodeString(s string, delim Delimiter) string {
	if needsQuoting(s, delim) {
		return quoteString(s)
	}
	return s
}

// needsQuoting reports whether a bare rendering of s could be misread as
// another type, as structure, or as a cell boundary.
func needsQuoting(s string, delim Delimiter) bool {
	if s == "" {
		return true
	}
	switch s {
	case "null", "true", "false":
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' || strings.TrimSpace(s) != s {
		return true
	}
	if s[0] == '-' {
		return true
	}
	sep := delim.rune()
	for _, r := range s {
		switch r {
		case ':', '"', '\\', '[', ']', '{', '}', '\n', '\r', '\t':
			return true
		}
		if r == sep {
			return true
		}
	}
	return looksNumeric(s)
}

// looksNumeric covers both valid number literals and the leading-zero
// digit runs that lenient decoders might coerce.
func looksNumeric(s string) bool {
	if isNumberLiteral(s) {
		return true
	}
	if len(s) > 1 && s[0] == '0' {
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	}
	return false
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// encodeKey renders an object key: bare for identifier-shaped keys,
// quoted otherwise.
func encodeKey(key string) string {
	if isIdentifierKey(key) {
		return key
	}
	return quoteString(key)
}

// isIdentifierKey matches [A-Za-z_][A-Za-z0-9_.]*; dots are allowed so
// folded keys stay bare.
func isIdentifierKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9', c == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// isIdentifierSegment matches a single dotless path segment.
func isIdentifierSegment(seg string) bool {
	return isIdentifierKey(seg) && !strings.Contains(seg, ".")
}

// ============================================================
// Decode side
// ============================================================

// parseScalar maps a trimmed literal to a Value. The only error paths are
// malformed quoting; a literal that is not a number is simply a string.
func parseScalar(token string) (*Value, error) {
	if strings.HasPrefix(token, "\"") {
		s, err := unquoteString(token)
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	}

	switch token {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if isNumberLiteral(token) {
		if !strings.ContainsAny(token, ".eE") {
			if n, err := strconv.ParseInt(token, 10, 64); err == nil {
				return Int(n), nil
			}
			// Out of int64 range; keep it as the closest float.
		}
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return Float(f), nil
		}
	}

	return Str(token), nil
}

// parseKey maps a raw key token to its decoded form.
func parseKey(raw string) (string, error) {
	if strings.HasPrefix(raw, "\"") {
		return unquoteString(raw)
	}
	if raw == "" {
		return "", &DecodeError{Code: ErrStructuralParse, Message: "empty key"}
	}
	return raw, nil
}

// unquoteString undoes quoteString. Errors carry ErrScalarParse.
func unquoteString(raw string) (string, error) {
	if len(raw) < 2 || !strings.HasSuffix(raw, "\"") {
		return "", &DecodeError{Code: ErrScalarParse, Message: "unterminated string literal"}
	}
	inner := raw[1 : len(raw)-1]
	var sb strings.Builder
	sb.Grow(len(inner))
	for i := 0; i < len(inner); {
		c := inner[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(inner) {
			return "", &DecodeError{Code: ErrScalarParse, Message: "unterminated escape sequence"}
		}
		switch inner[i+1] {
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		default:
			return "", &DecodeError{
				Code:    ErrScalarParse,
				Message: "unsupported escape sequence \\" + string(inner[i+1]),
			}
		}
		i += 2
	}
	return sb.String(), nil
}

// isNumberLiteral checks the JSON number grammar:
// -?(0|[1-9][0-9]*)(.[0-9]+)?([eE][+-]?[0-9]+)?
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	// Integer part: no leading zeros.
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
	// Fraction.
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || s[i] < '0' || s[i] > '9' {
			return false
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	// Exponent.
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
