package input

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Neumenon/toon/toon"
)

// Attribute fields and mixed text content need names that cannot collide
// with element names.
const (
	attrPrefix = "@"
	textKey    = "#text"
)

// fromXML parses an XML document into an object keyed by the root element
// name. Attributes become "@name" fields, repeated child elements become
// arrays, and leaf text is type-inferred like a CSV cell.
func fromXML(data []byte) (*toon.Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("input: xml: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("input: xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		body, err := xmlElement(dec, start)
		if err != nil {
			return nil, err
		}
		return toon.Object(toon.F(start.Name.Local, body)), nil
	}
}

// xmlElement consumes an element body up to its end tag.
func xmlElement(dec *xml.Decoder, start xml.StartElement) (*toon.Value, error) {
	obj := toon.Object()
	for _, attr := range start.Attr {
		obj.Set(attrPrefix+attr.Name.Local, inferScalar(attr.Value))
	}

	var text strings.Builder
	hasChildren := obj.Len() > 0

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("input: xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := xmlElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendXMLChild(obj, t.Name.Local, child)
			hasChildren = true
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if !hasChildren {
				if content == "" {
					return toon.Null(), nil
				}
				return inferScalar(content), nil
			}
			if content != "" {
				obj.Set(textKey, toon.Str(content))
			}
			return obj, nil
		}
	}
}

// appendXMLChild adds a child element, promoting repeated names to arrays.
func appendXMLChild(obj *toon.Value, name string, child *toon.Value) {
	existing := obj.Get(name)
	if existing == nil {
		obj.Set(name, child)
		return
	}
	if existing.Kind() == toon.KindArray {
		existing.Append(child)
		return
	}
	obj.Set(name, toon.Array(existing, child))
}
