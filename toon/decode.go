package toon

import (
	"strconv"
	"strings"
)

// ============================================================
// Decoder
// ============================================================
//
// Consumes scanned lines in one forward pass, rebuilding the Value tree
// by indentation nesting, then applies path expansion. Strict mode
// enforces declared array counts and indentation discipline; loose mode
// re-derives counts from the rows present.

// Decode parses TOON text with default options (strict, no expansion).
func Decode(input string) (*Value, error) {
	return DecodeWithOptions(input, DefaultDecodeOptions())
}

// DecodeWithOptions parses TOON text into a Value tree.
func DecodeWithOptions(input string, opts DecodeOptions) (*Value, error) {
	return decode(input, opts.normalized(), &violationSink{})
}

func decode(input string, opts DecodeOptions, sink *violationSink) (*Value, error) {
	lines, err := scanLines(input, opts, sink)
	if err != nil {
		return nil, err
	}

	d := &decoder{lines: lines, opts: opts, sink: sink}
	root, err := d.parseRoot()
	if err != nil {
		return nil, err
	}

	if d.index < len(d.lines) {
		ln := d.lines[d.index]
		return nil, decodeErrf(ErrStructuralParse, ln.num,
			"unexpected %s at indentation level %d", ln.kind, ln.depth)
	}

	if opts.ExpandPaths == ExpandSafe {
		root, err = expandPaths(root)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

type decoder struct {
	lines []line
	index int
	opts  DecodeOptions
	sink  *violationSink
	depth int // structural nesting, bounded by opts.MaxDepth
}

func (d *decoder) peek() *line {
	if d.index >= len(d.lines) {
		return nil
	}
	return &d.lines[d.index]
}

func (d *decoder) advance() {
	d.index++
}

func (d *decoder) enter(num int) error {
	d.depth++
	if d.depth > d.opts.MaxDepth {
		return decodeErrf(ErrStructuralParse, num,
			"nesting exceeds maximum depth %d", d.opts.MaxDepth)
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) parseRoot() (*Value, error) {
	if len(d.lines) == 0 {
		return Object(), nil
	}

	first := d.lines[0]
	switch first.kind {
	case lineArrayHeader, lineTabularHeader:
		if !first.header.hasKey {
			d.advance()
			return d.consumeArray(first.header, 0)
		}
		return d.parseObject(first.depth)
	case linePair:
		return d.parseObject(first.depth)
	case lineScalar:
		d.advance()
		v, err := parseScalar(first.text)
		if err != nil {
			return nil, withLine(err, first.num)
		}
		return v, nil
	default:
		return nil, decodeErrf(ErrStructuralParse, first.num,
			"document must start with a field, header, or scalar, not a %s", first.kind)
	}
}

// parseObject consumes consecutive fields at the given level.
func (d *decoder) parseObject(depth int) (*Value, error) {
	obj := Object()
	for {
		ln := d.peek()
		if ln == nil || ln.depth != depth {
			break
		}
		if err := d.consumeField(obj, depth); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// consumeField parses one `key: ...` or `key[N]...:` field into obj.
func (d *decoder) consumeField(obj *Value, depth int) error {
	ln := d.peek()
	if ln == nil {
		return decodeErrf(ErrUnexpectedEndOfInput, 0, "unexpected end of document")
	}

	switch ln.kind {
	case lineArrayHeader, lineTabularHeader:
		if !ln.header.hasKey {
			return decodeErrf(ErrStructuralParse, ln.num, "array header requires a key")
		}
		d.advance()
		value, err := d.consumeArray(ln.header, depth)
		if err != nil {
			return err
		}
		return d.setField(obj, ln.header.key, value, ln.num)

	case linePair:
		rawKey, rest, _ := splitUnquotedColon(ln.text)
		key, err := parseKey(rawKey)
		if err != nil {
			return withLine(err, ln.num)
		}
		d.advance()

		var value *Value
		if rest == "" {
			next := d.peek()
			if next == nil || next.depth <= depth {
				value = Object()
			} else {
				value, err = d.parseValueBlock(depth + 1)
				if err != nil {
					return err
				}
			}
		} else {
			value, err = parseScalar(rest)
			if err != nil {
				return withLine(err, ln.num)
			}
		}
		return d.setField(obj, key, value, ln.num)

	case lineListItem:
		return decodeErrf(ErrStructuralParse, ln.num, "list item outside an array")
	default:
		return decodeErrf(ErrStructuralParse, ln.num, "expected `key: value`")
	}
}

func (d *decoder) setField(obj *Value, key string, value *Value, num int) error {
	if obj.Has(key) {
		return &DecodeError{
			Code:    ErrStructuralParse,
			Line:    num,
			Path:    key,
			Message: "duplicate key " + strconv.Quote(key),
		}
	}
	obj.Set(key, value)
	return nil
}

// parseValueBlock parses whatever is nested under a bare `key:` line.
// A child deeper than its expected level skips levels: an indentation
// violation in strict mode, tolerated via the effective depth in loose.
func (d *decoder) parseValueBlock(depth int) (*Value, error) {
	ln := d.peek()
	if ln == nil || ln.depth < depth {
		return Object(), nil
	}
	eff := depth
	if ln.depth > depth {
		if d.opts.Strict {
			err := decodeErrf(ErrIndentation, ln.num,
				"indentation skips from level %d to %d", depth-1, ln.depth)
			if rerr := d.sink.report(err); rerr != nil {
				return nil, rerr
			}
		}
		eff = ln.depth
	}

	if err := d.enter(ln.num); err != nil {
		return nil, err
	}
	defer d.leave()

	switch ln.kind {
	case lineArrayHeader, lineTabularHeader:
		if !ln.header.hasKey {
			d.advance()
			return d.consumeArray(ln.header, eff)
		}
		return d.parseObject(eff)
	case linePair:
		return d.parseObject(eff)
	case lineScalar:
		d.advance()
		v, err := parseScalar(ln.text)
		if err != nil {
			return nil, withLine(err, ln.num)
		}
		return v, nil
	default:
		return nil, decodeErrf(ErrStructuralParse, ln.num,
			"list item without a preceding array header")
	}
}

// consumeArray materializes an array from its parsed header. The header
// line has already been consumed.
func (d *decoder) consumeArray(h *arrayHeader, containerDepth int) (*Value, error) {
	if err := d.enter(h.line); err != nil {
		return nil, err
	}
	defer d.leave()

	if h.inline != "" {
		return d.parseInlineArray(h)
	}
	if h.hasFields {
		return d.parseTabularArray(h, containerDepth)
	}
	return d.parseListArray(h, containerDepth)
}

func (d *decoder) parseInlineArray(h *arrayHeader) (*Value, error) {
	cells := splitCells(h.inline, h.delim)
	if d.opts.Strict && len(cells) != h.count {
		err := decodeErrf(ErrArrayCountMismatch, h.line,
			"declared %d values but found %d", h.count, len(cells))
		if rerr := d.sink.report(err); rerr != nil {
			return nil, rerr
		}
	}

	arr := Array()
	for _, cell := range cells {
		v, err := parseScalar(cell)
		if err != nil {
			return nil, withLine(err, h.line)
		}
		arr.Append(v)
	}
	return arr, nil
}

func (d *decoder) parseTabularArray(h *arrayHeader, containerDepth int) (*Value, error) {
	rowDepth := containerDepth + 1
	if ln := d.peek(); ln != nil && ln.depth > rowDepth &&
		ln.kind != lineListItem && ln.header == nil && isTabularRow(ln.text, h.delim) {
		if d.opts.Strict {
			err := decodeErrf(ErrIndentation, ln.num,
				"indentation skips from level %d to %d", containerDepth, ln.depth)
			if rerr := d.sink.report(err); rerr != nil {
				return nil, rerr
			}
		}
		rowDepth = ln.depth
	}
	arr := Array()

	for {
		ln := d.peek()
		if ln == nil || ln.depth != rowDepth {
			break
		}
		if ln.kind == lineListItem || ln.header != nil || !isTabularRow(ln.text, h.delim) {
			break
		}

		cells := splitCells(ln.text, h.delim)
		if len(cells) != len(h.fields) {
			return nil, decodeErrf(ErrRowArity, ln.num,
				"row has %d cells, header declares %d fields", len(cells), len(h.fields))
		}

		row := Object()
		for i, field := range h.fields {
			v, err := parseScalar(cells[i])
			if err != nil {
				return nil, withLine(err, ln.num)
			}
			if err := d.setField(row, field, v, ln.num); err != nil {
				return nil, err
			}
		}
		arr.Append(row)
		d.advance()
	}

	if d.opts.Strict && arr.Len() != h.count {
		err := decodeErrf(ErrArrayCountMismatch, h.line,
			"declared %d rows but found %d", h.count, arr.Len())
		if rerr := d.sink.report(err); rerr != nil {
			return nil, rerr
		}
	}
	return arr, nil
}

func (d *decoder) parseListArray(h *arrayHeader, containerDepth int) (*Value, error) {
	rowDepth := containerDepth + 1
	if ln := d.peek(); ln != nil && ln.depth > rowDepth && ln.kind == lineListItem {
		if d.opts.Strict {
			err := decodeErrf(ErrIndentation, ln.num,
				"indentation skips from level %d to %d", containerDepth, ln.depth)
			if rerr := d.sink.report(err); rerr != nil {
				return nil, rerr
			}
		}
		rowDepth = ln.depth
	}
	arr := Array()

	for {
		ln := d.peek()
		if ln == nil || ln.depth != rowDepth {
			break
		}
		if ln.kind != lineListItem {
			// A non-marker line at this level belongs to the enclosing
			// object (a list item's trailing fields, or a malformed doc
			// that the count check below will flag).
			break
		}
		item, err := d.parseListItem(ln, rowDepth)
		if err != nil {
			return nil, err
		}
		arr.Append(item)
	}

	if d.opts.Strict && arr.Len() != h.count {
		err := decodeErrf(ErrArrayCountMismatch, h.line,
			"declared %d list items but found %d", h.count, arr.Len())
		if rerr := d.sink.report(err); rerr != nil {
			return nil, rerr
		}
	}
	return arr, nil
}

// parseListItem decodes one "- ..." entry. An object item's first field
// rides the marker line; its remaining fields continue one level deeper.
func (d *decoder) parseListItem(ln *line, rowDepth int) (*Value, error) {
	remainder := strings.TrimSpace(strings.TrimPrefix(ln.text, "-"))
	d.advance()

	if err := d.enter(ln.num); err != nil {
		return nil, err
	}
	defer d.leave()

	if remainder == "" {
		return d.parseObject(rowDepth + 1)
	}

	inner := line{num: ln.num, depth: rowDepth, text: remainder}
	if err := classifyLine(&inner); err != nil {
		return nil, err
	}

	switch inner.kind {
	case lineArrayHeader, lineTabularHeader:
		value, err := d.consumeArray(inner.header, rowDepth)
		if err != nil {
			return nil, err
		}
		if !inner.header.hasKey {
			return value, nil
		}
		obj := Object()
		if err := d.setField(obj, inner.header.key, value, ln.num); err != nil {
			return nil, err
		}
		return obj, d.resumeItemFields(obj, rowDepth+1)

	case linePair:
		rawKey, rest, _ := splitUnquotedColon(remainder)
		key, err := parseKey(rawKey)
		if err != nil {
			return nil, withLine(err, ln.num)
		}
		var value *Value
		if rest == "" {
			value, err = d.parseValueBlock(rowDepth + 2)
		} else {
			value, err = parseScalar(rest)
			err = withLine(err, ln.num)
		}
		if err != nil {
			return nil, err
		}
		obj := Object()
		if err := d.setField(obj, key, value, ln.num); err != nil {
			return nil, err
		}
		return obj, d.resumeItemFields(obj, rowDepth+1)

	case lineScalar:
		v, err := parseScalar(remainder)
		if err != nil {
			return nil, withLine(err, ln.num)
		}
		return v, nil

	default:
		return nil, decodeErrf(ErrStructuralParse, ln.num, "nested list marker")
	}
}

// resumeItemFields consumes the remaining fields of an object list item.
func (d *decoder) resumeItemFields(obj *Value, depth int) error {
	for {
		ln := d.peek()
		if ln == nil || ln.depth != depth {
			return nil
		}
		if err := d.consumeField(obj, depth); err != nil {
			return err
		}
	}
}

// isTabularRow distinguishes a data row from a trailing field at the
// same level: a row's first unquoted delimiter comes before its first
// unquoted colon.
func isTabularRow(text string, delim Delimiter) bool {
	sep := delim.rune()
	firstDelim, firstColon := -1, -1
	inQuotes := false
	escaped := false

	for i, r := range text {
		if inQuotes {
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
		case r == ':':
			if firstColon < 0 {
				firstColon = i
			}
		case r == sep:
			if firstDelim < 0 {
				firstDelim = i
			}
		}
		if firstDelim >= 0 && firstColon >= 0 {
			break
		}
	}

	switch {
	case firstColon < 0:
		return true
	case firstDelim < 0:
		return false
	default:
		return firstDelim < firstColon
	}
}

// ============================================================
// Path Expansion
// ============================================================

// expandPaths rewrites dotted keys into nested objects, depth-first, and
// reports conflicts: an intermediate segment holding a non-object, or two
// assignments of different values to the same final path.
func expandPaths(v *Value) (*Value, error) {
	switch v.Kind() {
	case KindObject:
		out := Object()
		for _, f := range v.objVal {
			child, err := expandPaths(f.Value)
			if err != nil {
				return nil, err
			}
			if err := insertExpanded(out, f.Key, child); err != nil {
				return nil, err
			}
		}
		return out, nil
	case KindArray:
		out := Array()
		for _, item := range v.arrVal {
			child, err := expandPaths(item)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil
	default:
		return v, nil
	}
}

func insertExpanded(target *Value, key string, value *Value) error {
	segments := []string{key}
	if strings.Contains(key, ".") && allIdentifierSegments(key) {
		segments = strings.Split(key, ".")
	}

	current := target
	for _, seg := range segments[:len(segments)-1] {
		next := current.Get(seg)
		if next == nil {
			next = Object()
			current.Set(seg, next)
		} else if next.Kind() != KindObject {
			return &DecodeError{
				Code:    ErrPathExpansionConflict,
				Path:    key,
				Message: "path segment " + strconv.Quote(seg) + " already holds a " + next.Kind().String(),
			}
		}
		current = next
	}

	last := segments[len(segments)-1]
	if existing := current.Get(last); existing != nil {
		if existing.Equal(value) {
			return nil
		}
		return &DecodeError{
			Code:    ErrPathExpansionConflict,
			Path:    key,
			Message: "conflicting values for expanded path",
		}
	}
	current.Set(last, value)
	return nil
}

func allIdentifierSegments(key string) bool {
	for _, seg := range strings.Split(key, ".") {
		if !isIdentifierSegment(seg) {
			return false
		}
	}
	return true
}
