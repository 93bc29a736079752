package input

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/Neumenon/toon/toon"
)

const maxAliasDepth = 64

// fromYAML parses a YAML document through the node API, which is the only
// decoding path that preserves mapping key order.
func fromYAML(data []byte) (*toon.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("input: yaml: %w", err)
	}
	if root.Kind == 0 {
		return toon.Null(), nil
	}
	return yamlNode(&root, 0)
}

func yamlNode(n *yaml.Node, aliasDepth int) (*toon.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return toon.Null(), nil
		}
		return yamlNode(n.Content[0], aliasDepth)

	case yaml.MappingNode:
		obj := toon.Object()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			val, err := yamlNode(valNode, aliasDepth)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, val)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := toon.Array()
		for _, item := range n.Content {
			val, err := yamlNode(item, aliasDepth)
			if err != nil {
				return nil, err
			}
			arr.Append(val)
		}
		return arr, nil

	case yaml.ScalarNode:
		return yamlScalar(n)

	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth {
			return nil, fmt.Errorf("input: yaml: alias nesting exceeds %d on line %d", maxAliasDepth, n.Line)
		}
		if n.Alias == nil {
			return nil, fmt.Errorf("input: yaml: unresolved alias on line %d", n.Line)
		}
		return yamlNode(n.Alias, aliasDepth+1)

	default:
		return nil, fmt.Errorf("input: yaml: unsupported node kind %d on line %d", n.Kind, n.Line)
	}
}

func yamlScalar(n *yaml.Node) (*toon.Value, error) {
	switch n.Tag {
	case "!!null":
		return toon.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("input: yaml: %w", err)
		}
		return toon.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// Larger than int64; keep the closest float.
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, fmt.Errorf("input: yaml: %w", err)
			}
			return toon.Float(f), nil
		}
		return toon.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("input: yaml: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("input: yaml: non-finite float %q on line %d", n.Value, n.Line)
		}
		return toon.Float(f), nil
	default:
		// Strings, timestamps, and unrecognized tags stay textual.
		return toon.Str(n.Value), nil
	}
}
