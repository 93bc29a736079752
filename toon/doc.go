// Package toon implements TOON, a compact indentation-based text notation
// for structured data.
//
// TOON is designed to be:
//   - Token-cheap (minimal quoting, no braces, tabular arrays)
//   - Losslessly reversible to a generic value tree
//   - Line-oriented and easy for LLMs to emit and repair
//   - Strictly validatable (declared array counts, indentation discipline)
//
// # Data Model
//
// Scalars: null, bool, int, float, string
// Containers: array, object (insertion-ordered, unique keys)
//
// # Syntax
//
// Object field:    key: value
// Nested object:   key:
//                    child: value
// Inline array:    tags[3]: red,green,blue
// Tabular array:   users[2]{id,name}:
//                    1,Ada
//                    2,Bob
// General array:   items[2]:
//                    - first
//                    - second
// Folded path:     server.http.port: 8080   (key folding / path expansion)
//
// Array headers carry the element count and, for pipe or tab delimiters, a
// delimiter marker inside the bracket ([3|], [3\t]). Strings are bare unless
// they would be ambiguous (reserved words, numbers, delimiters, colons),
// in which case they are double-quoted with backslash escapes.
//
// # Strict and Loose Decoding
//
// Strict mode (the default) enforces declared array counts and indentation
// that is an exact multiple of the configured width with no skipped levels.
// Loose mode tolerates both and re-derives counts from the rows present.
// Tabular row arity is checked in both modes.
package toon
