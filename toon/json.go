package toon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON documents and Value trees. The reader walks the
// token stream directly instead of unmarshalling into map[string]any, so
// object key order survives; numbers without a fraction or exponent become
// integers, everything else a float.

// FromJSON parses a JSON document into a Value, preserving object key
// order and the integer/float distinction.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing content after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonToken(dec, tok)
}

func jsonToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		return jsonNumber(t)
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func readJSONObject(dec *json.Decoder) (*Value, error) {
	obj := Object()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return obj, nil
}

func readJSONArray(dec *json.Decoder) (*Value, error) {
	arr := Array()
	for dec.More() {
		v, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}
	return arr, nil
}

func jsonNumber(n json.Number) (*Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("unrepresentable JSON number %q", s)
	}
	return Float(f), nil
}

// ToJSON renders a Value as compact JSON, honoring insertion order.
func ToJSON(v *Value) string {
	var sb strings.Builder
	writeJSON(&sb, v, "", "")
	return sb.String()
}

// ToJSONIndent renders a Value as indented JSON.
func ToJSONIndent(v *Value, indent string) string {
	var sb strings.Builder
	writeJSON(&sb, v, "", indent)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v *Value, prefix, indent string) {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		fmt.Fprintf(sb, "%d", v.intVal)
	case KindFloat:
		sb.WriteString(formatFloat(v.floatVal))
	case KindString:
		data, _ := json.Marshal(v.strVal)
		sb.Write(data)
	case KindArray:
		writeJSONArray(sb, v, prefix, indent)
	case KindObject:
		writeJSONObject(sb, v, prefix, indent)
	}
}

func writeJSONArray(sb *strings.Builder, v *Value, prefix, indent string) {
	if len(v.arrVal) == 0 {
		sb.WriteString("[]")
		return
	}
	inner := prefix + indent
	sb.WriteByte('[')
	for i, item := range v.arrVal {
		if i > 0 {
			sb.WriteByte(',')
		}
		if indent != "" {
			sb.WriteByte('\n')
			sb.WriteString(inner)
		}
		writeJSON(sb, item, inner, indent)
	}
	if indent != "" {
		sb.WriteByte('\n')
		sb.WriteString(prefix)
	}
	sb.WriteByte(']')
}

func writeJSONObject(sb *strings.Builder, v *Value, prefix, indent string) {
	if len(v.objVal) == 0 {
		sb.WriteString("{}")
		return
	}
	inner := prefix + indent
	sb.WriteByte('{')
	for i, f := range v.objVal {
		if i > 0 {
			sb.WriteByte(',')
		}
		if indent != "" {
			sb.WriteByte('\n')
			sb.WriteString(inner)
		}
		key, _ := json.Marshal(f.Key)
		sb.Write(key)
		sb.WriteByte(':')
		if indent != "" {
			sb.WriteByte(' ')
		}
		writeJSON(sb, f.Value, inner, indent)
	}
	if indent != "" {
		sb.WriteByte('\n')
		sb.WriteString(prefix)
	}
	sb.WriteByte('}')
}
