package toon

// Delimiter selects the cell separator for tabular rows and inline arrays.
// It also drives string quoting: a bare string may not contain the active
// delimiter.
type Delimiter uint8

const (
	Comma Delimiter = iota
	Tab
	Pipe
)

// String returns the delimiter name.
func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	case Pipe:
		return "pipe"
	default:
		return "unknown"
	}
}

func (d Delimiter) rune() rune {
	switch d {
	case Tab:
		return '\t'
	case Pipe:
		return '|'
	default:
		return ','
	}
}

// bracketMark returns the delimiter marker emitted inside array count
// brackets. Comma is the default and stays unmarked.
func (d Delimiter) bracketMark() string {
	switch d {
	case Tab:
		return "\t"
	case Pipe:
		return "|"
	default:
		return ""
	}
}

// KeyFoldingMode controls dotted-path folding of single-key object chains.
type KeyFoldingMode uint8

const (
	FoldOff KeyFoldingMode = iota
	FoldSafe
)

// PathExpansionMode controls the decode-side inverse of key folding.
type PathExpansionMode uint8

const (
	ExpandOff PathExpansionMode = iota
	ExpandSafe
)

// EncodeOptions configures the encoder.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level (default 2).
	Indent int

	// Delimiter separates cells in tabular rows and inline arrays.
	Delimiter Delimiter

	// KeyFolding enables dotted-path folding of single-key object chains.
	KeyFolding KeyFoldingMode

	// FlattenDepth caps how many segments a folded key may accumulate.
	// Zero means unbounded. Only meaningful with FoldSafe.
	FlattenDepth int
}

// DefaultEncodeOptions returns two-space indentation with comma cells and
// no key folding.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Indent:    2,
		Delimiter: Comma,
	}
}

func (o EncodeOptions) normalized() EncodeOptions {
	if o.Indent <= 0 {
		o.Indent = 2
	}
	return o
}

// DecodeOptions configures the decoder and validator.
type DecodeOptions struct {
	// Indent is the expected number of spaces per nesting level (default 2).
	// A width mismatch is an IndentationError in strict mode.
	Indent int

	// ExpandPaths enables dotted-key to nested-object expansion.
	ExpandPaths PathExpansionMode

	// Strict enables array-count and indentation enforcement (default true
	// via DefaultDecodeOptions).
	Strict bool

	// MaxDepth bounds structural nesting to guard against adversarial
	// input. Zero means the package default of 256.
	MaxDepth int
}

// DefaultDecodeOptions returns strict decoding with two-space indentation
// and no path expansion.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Indent: 2,
		Strict: true,
	}
}

const defaultMaxDepth = 256

func (o DecodeOptions) normalized() DecodeOptions {
	if o.Indent <= 0 {
		o.Indent = 2
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	return o
}
