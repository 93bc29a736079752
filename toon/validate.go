package toon

// ============================================================
// Validator
// ============================================================

// ValidationResult reports the outcome of a validation pass.
type ValidationResult struct {
	Valid      bool
	Violations []*DecodeError
}

// Validate checks a document against strict decoding rules without
// returning a tree. Recoverable violations (count mismatches, indentation
// issues) are aggregated so one pass reports them all; a fatal violation
// ends the pass, since nothing after it parses reliably.
func Validate(input string) ValidationResult {
	return ValidateWithOptions(input, DefaultDecodeOptions())
}

// ValidateWithOptions validates with explicit options. Strict mode is
// forced on: a validation pass that skips the strict checks has nothing
// to report.
func ValidateWithOptions(input string, opts DecodeOptions) ValidationResult {
	opts = opts.normalized()
	opts.Strict = true

	sink := &violationSink{collect: true}
	_, err := decode(input, opts, sink)

	violations := sink.list
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			violations = append(violations, de)
		} else {
			violations = append(violations, &DecodeError{
				Code:    ErrStructuralParse,
				Message: err.Error(),
			})
		}
	}
	return ValidationResult{Valid: len(violations) == 0, Violations: violations}
}
