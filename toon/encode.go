package toon

import (
	"strconv"
	"strings"
)

// ============================================================
// Encoder
// ============================================================
//
// Walks a Value tree and emits TOON text: key folding, tabular-array
// detection, delimiter selection, quoting, and indentation. Encoding is
// total over well-formed Value trees and has no user-facing error path.

// Encode converts a Value to TOON text with default options.
func Encode(v *Value) string {
	return EncodeWithOptions(v, DefaultEncodeOptions())
}

// EncodeWithOptions converts a Value to TOON text.
func EncodeWithOptions(v *Value, opts EncodeOptions) string {
	e := &encoder{opts: opts.normalized()}
	e.encodeRoot(v)
	return strings.Join(e.lines, "\n")
}

type encoder struct {
	opts        EncodeOptions
	lines       []string
	indentCache []string
}

// arrayContext tracks whether an array header opens a plain field or
// rides the "- " marker of a list item (the first field of an object
// item shares the marker line).
type arrayContext struct {
	depth     int
	listFirst bool
}

func (c arrayContext) headerDepth() int {
	if c.listFirst {
		return c.depth + 1
	}
	return c.depth
}

func (c arrayContext) rowDepth() int {
	return c.headerDepth() + 1
}

func (c arrayContext) prefix() string {
	if c.listFirst {
		return "- "
	}
	return ""
}

func (e *encoder) encodeRoot(v *Value) {
	switch v.Kind() {
	case KindObject:
		if v.Len() > 0 {
			e.encodeObjectFields(v, 0)
		}
	case KindArray:
		e.encodeArray("", false, v.arrVal, arrayContext{depth: 0})
	default:
		e.writeLine(0, encodeScalar(v, e.opts.Delimiter))
	}
}

func (e *encoder) encodeObjectFields(obj *Value, depth int) {
	for _, f := range obj.objVal {
		key, value := e.foldKey(f.Key, f.Value, obj)
		e.encodeNamedValue(key, value, depth)
	}
}

func (e *encoder) encodeNamedValue(key string, v *Value, depth int) {
	switch v.Kind() {
	case KindObject:
		e.writeLine(depth, encodeKey(key)+":")
		if v.Len() > 0 {
			e.encodeObjectFields(v, depth+1)
		}
	case KindArray:
		e.encodeArray(key, true, v.arrVal, arrayContext{depth: depth})
	default:
		e.writeLine(depth, encodeKey(key)+": "+encodeScalar(v, e.opts.Delimiter))
	}
}

func (e *encoder) encodeArray(key string, hasKey bool, items []*Value, ctx arrayContext) {
	if allScalars(items) {
		e.emitInlineArray(key, hasKey, items, ctx)
		return
	}
	if fields := detectTabular(items); fields != nil {
		e.emitTabularArray(key, hasKey, items, fields, ctx)
		return
	}
	if allScalarArrays(items) {
		e.emitArrayOfArrays(key, hasKey, items, ctx)
		return
	}
	e.emitGeneralList(key, hasKey, items, ctx)
}

// emitInlineArray renders an all-scalar array on the header line:
// key[N]: v1,v2 (or key[0]: when empty).
func (e *encoder) emitInlineArray(key string, hasKey bool, items []*Value, ctx arrayContext) {
	header := e.formatHeader(key, hasKey, len(items), nil)
	if len(items) == 0 {
		e.writeLine(ctx.headerDepth(), ctx.prefix()+header)
		return
	}
	cells := make([]string, len(items))
	for i, item := range items {
		cells[i] = encodeScalar(item, e.opts.Delimiter)
	}
	sep := string(e.opts.Delimiter.rune())
	e.writeLine(ctx.headerDepth(), ctx.prefix()+header+" "+strings.Join(cells, sep))
}

func (e *encoder) emitTabularArray(key string, hasKey bool, items []*Value, fields []string, ctx arrayContext) {
	header := e.formatHeader(key, hasKey, len(items), fields)
	e.writeLine(ctx.headerDepth(), ctx.prefix()+header)

	sep := string(e.opts.Delimiter.rune())
	cells := make([]string, len(fields))
	for _, item := range items {
		for i := range fields {
			cells[i] = encodeScalar(item.objVal[i].Value, e.opts.Delimiter)
		}
		e.writeLine(ctx.rowDepth(), strings.Join(cells, sep))
	}
}

// emitArrayOfArrays renders an array whose elements are all-scalar
// arrays, one "- [N]: ..." row per inner array.
func (e *encoder) emitArrayOfArrays(key string, hasKey bool, items []*Value, ctx arrayContext) {
	header := e.formatHeader(key, hasKey, len(items), nil)
	e.writeLine(ctx.headerDepth(), ctx.prefix()+header)

	sep := string(e.opts.Delimiter.rune())
	for _, inner := range items {
		innerHeader := e.formatHeader("", false, len(inner.arrVal), nil)
		if len(inner.arrVal) == 0 {
			e.writeLine(ctx.rowDepth(), "- "+innerHeader)
			continue
		}
		cells := make([]string, len(inner.arrVal))
		for i, item := range inner.arrVal {
			cells[i] = encodeScalar(item, e.opts.Delimiter)
		}
		e.writeLine(ctx.rowDepth(), "- "+innerHeader+" "+strings.Join(cells, sep))
	}
}

func (e *encoder) emitGeneralList(key string, hasKey bool, items []*Value, ctx arrayContext) {
	header := e.formatHeader(key, hasKey, len(items), nil)
	e.writeLine(ctx.headerDepth(), ctx.prefix()+header)
	rowDepth := ctx.rowDepth()

	for _, item := range items {
		switch item.Kind() {
		case KindObject:
			e.encodeObjectListItem(item, rowDepth)
		case KindArray:
			e.encodeArray("", false, item.arrVal, arrayContext{depth: rowDepth - 1, listFirst: true})
		default:
			e.writeLine(rowDepth, "- "+encodeScalar(item, e.opts.Delimiter))
		}
	}
}

// encodeObjectListItem renders an object list item: the first field rides
// the "- " marker line, remaining fields continue one level deeper.
func (e *encoder) encodeObjectListItem(obj *Value, depth int) {
	if obj.Len() == 0 {
		e.writeLine(depth, "-")
		return
	}

	first := obj.objVal[0]
	key, value := e.foldKey(first.Key, first.Value, obj)
	switch value.Kind() {
	case KindObject:
		e.writeLine(depth, "- "+encodeKey(key)+":")
		if value.Len() > 0 {
			e.encodeObjectFields(value, depth+2)
		}
	case KindArray:
		e.encodeArray(key, true, value.arrVal, arrayContext{depth: depth - 1, listFirst: true})
	default:
		e.writeLine(depth, "- "+encodeKey(key)+": "+encodeScalar(value, e.opts.Delimiter))
	}

	for _, f := range obj.objVal[1:] {
		key, value := e.foldKey(f.Key, f.Value, obj)
		e.encodeNamedValue(key, value, depth+1)
	}
}

// formatHeader renders `key[N<mark>]{fields}:`. The delimiter marker
// inside the bracket lets the decoder recover pipe/tab delimiters.
func (e *encoder) formatHeader(key string, hasKey bool, count int, fields []string) string {
	var sb strings.Builder
	if hasKey {
		sb.WriteString(encodeKey(key))
	}
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(count))
	sb.WriteString(e.opts.Delimiter.bracketMark())
	sb.WriteByte(']')
	if fields != nil {
		sb.WriteByte('{')
		sep := string(e.opts.Delimiter.rune())
		for i, field := range fields {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(encodeKey(field))
		}
		sb.WriteByte('}')
	}
	sb.WriteByte(':')
	return sb.String()
}

// foldKey collapses a chain of single-key objects into one dotted key
// when safe folding is on. Folding stops at non-identifier segments, at
// the flatten-depth cap, and backs off entirely if the dotted key would
// collide with an existing sibling.
func (e *encoder) foldKey(key string, value *Value, parent *Value) (string, *Value) {
	if e.opts.KeyFolding != FoldSafe || !isIdentifierSegment(key) {
		return key, value
	}

	maxSegments := e.opts.FlattenDepth
	if maxSegments <= 0 {
		maxSegments = int(^uint(0) >> 1)
	}
	if maxSegments < 1 {
		maxSegments = 1
	}

	segments := []string{key}
	current := value
	for len(segments) < maxSegments {
		if current.Kind() != KindObject || current.Len() != 1 {
			break
		}
		next := current.objVal[0]
		if !isIdentifierSegment(next.Key) {
			break
		}
		segments = append(segments, next.Key)
		current = next.Value
	}

	if len(segments) == 1 {
		return key, value
	}

	candidate := strings.Join(segments, ".")
	if candidate != key && parent.Has(candidate) {
		return key, value
	}
	return candidate, current
}

func (e *encoder) writeLine(depth int, content string) {
	e.lines = append(e.lines, e.indent(depth)+content)
}

func (e *encoder) indent(depth int) string {
	for len(e.indentCache) <= depth {
		level := len(e.indentCache)
		e.indentCache = append(e.indentCache, strings.Repeat(" ", level*e.opts.Indent))
	}
	return e.indentCache[depth]
}

// ============================================================
// Shape predicates
// ============================================================

func allScalars(items []*Value) bool {
	for _, item := range items {
		if !isScalar(item) {
			return false
		}
	}
	return true
}

func allScalarArrays(items []*Value) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if item.Kind() != KindArray || !allScalars(item.arrVal) {
			return false
		}
	}
	return true
}

// detectTabular returns the shared field list when every element is an
// object with the same keys in the same order and only scalar values.
// Key order matters: reordering one element's keys disables tabular form.
func detectTabular(items []*Value) []string {
	if len(items) == 0 {
		return nil
	}
	first := items[0]
	if first.Kind() != KindObject || first.Len() == 0 {
		return nil
	}

	fields := make([]string, len(first.objVal))
	for i, f := range first.objVal {
		if !isScalar(f.Value) {
			return nil
		}
		fields[i] = f.Key
	}

	for _, item := range items[1:] {
		if item.Kind() != KindObject || len(item.objVal) != len(fields) {
			return nil
		}
		for i, f := range item.objVal {
			if f.Key != fields[i] || !isScalar(f.Value) {
				return nil
			}
		}
	}
	return fields
}
