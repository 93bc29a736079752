package toon

import "fmt"

// ErrorCode identifies a decode/validate failure kind.
type ErrorCode string

const (
	// ErrIndentation: indentation is not a multiple of the configured
	// width, or a line skips a nesting level. Strict mode only.
	ErrIndentation ErrorCode = "indentation"

	// ErrArrayCountMismatch: a header's declared count disagrees with the
	// rows or items actually present. Strict mode only.
	ErrArrayCountMismatch ErrorCode = "array_count_mismatch"

	// ErrRowArity: a tabular row has the wrong number of cells. Fatal in
	// both strict and loose mode.
	ErrRowArity ErrorCode = "row_arity"

	// ErrPathExpansionConflict: dotted-key expansion collides with an
	// existing key or non-object intermediate value.
	ErrPathExpansionConflict ErrorCode = "path_expansion_conflict"

	// ErrScalarParse: malformed quoting or escaping in a scalar literal.
	ErrScalarParse ErrorCode = "scalar_parse"

	// ErrStructuralParse: a line's shape is unrecognized or a header is
	// malformed.
	ErrStructuralParse ErrorCode = "structural_parse"

	// ErrUnexpectedEndOfInput: the document ends with open containers.
	ErrUnexpectedEndOfInput ErrorCode = "unexpected_end_of_input"
)

// DecodeError is a structural or lexical failure tied to a source line.
type DecodeError struct {
	Code    ErrorCode
	Line    int    // 1-based source line, 0 if not line-specific
	Path    string // conflicting key path, when applicable
	Message string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Line > 0 && e.Path != "":
		return fmt.Sprintf("line %d: %s (at %s)", e.Line, e.Message, e.Path)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s (at %s)", e.Message, e.Path)
	default:
		return e.Message
	}
}

// Fatal reports whether the error kind stops a validation pass. Non-fatal
// kinds (count mismatches, indentation issues) are aggregated by Validate;
// fatal kinds leave no reliable tree to keep parsing.
func (e *DecodeError) Fatal() bool {
	switch e.Code {
	case ErrArrayCountMismatch, ErrIndentation:
		return false
	default:
		return true
	}
}

func decodeErrf(code ErrorCode, line int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Code:    code,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}
