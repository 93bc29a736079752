package toon

import (
	"strings"
	"testing"
)

// ============================================================
// Decoder Tests
// ============================================================

func mustDecode(t *testing.T, input string) *Value {
	t.Helper()
	v, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode failed: %v\ninput:\n%s", err, input)
	}
	return v
}

func decodeErrCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	return de.Code
}

func TestDecode_ScalarFields(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"name: Ada",
		"age: 36",
		"score: 9.5",
		"active: true",
		"note: null",
	}, "\n"))

	want := Object(
		F("name", Str("Ada")),
		F("age", Int(36)),
		F("score", Float(9.5)),
		F("active", Bool(true)),
		F("note", Null()),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch, got keys %v", v.Keys())
	}
}

func TestDecode_NestedObjects(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"server:",
		"  host: localhost",
		"  port: 8080",
		"debug: false",
	}, "\n"))

	want := Object(
		F("server", Object(
			F("host", Str("localhost")),
			F("port", Int(8080)),
		)),
		F("debug", Bool(false)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_EmptyNestedObject(t *testing.T) {
	v := mustDecode(t, "empty:\nafter: 1")
	want := Object(F("empty", Object()), F("after", Int(1)))
	if !v.Equal(want) {
		t.Errorf("bare key should decode to empty object")
	}
}

func TestDecode_TabularArray(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"users[2]{id,name}:",
		"  1,Ada",
		"  2,Bob",
	}, "\n"))

	want := Object(
		F("users", Array(
			Object(F("id", Int(1)), F("name", Str("Ada"))),
			Object(F("id", Int(2)), F("name", Str("Bob"))),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_TabularFollowedBySibling(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"outer:",
		"  rows[1]{id}:",
		"    7",
		"  next: done",
	}, "\n"))

	rows := v.Get("outer").Get("rows")
	if rows.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", rows.Len())
	}
	if next := v.Get("outer").Get("next"); next == nil || !next.Equal(Str("done")) {
		t.Errorf("sibling field after tabular rows was consumed as a row")
	}
}

func TestDecode_InlineArrays(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{
			"strings",
			"tags[3]: a,b,c",
			Object(F("tags", Array(Str("a"), Str("b"), Str("c")))),
		},
		{
			"empty",
			"tags[0]:",
			Object(F("tags", Array())),
		},
		{
			"quoted cell with delimiter",
			`vals[2]: "a,b",c`,
			Object(F("vals", Array(Str("a,b"), Str("c")))),
		},
		{
			"pipe delimiter",
			"tags[2|]: a|b",
			Object(F("tags", Array(Str("a"), Str("b")))),
		},
		{
			"tab delimiter",
			"nums[3\t]: 1\t2\t3",
			Object(F("nums", Array(Int(1), Int(2), Int(3)))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustDecode(t, tt.input)
			if !v.Equal(tt.want) {
				t.Errorf("decoded tree mismatch for %q", tt.input)
			}
		})
	}
}

func TestDecode_GeneralList(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"items[3]:",
		"  - id: 1",
		"    tags[2]: x,y",
		"  - solo",
		"  -",
	}, "\n"))

	want := Object(
		F("items", Array(
			Object(
				F("id", Int(1)),
				F("tags", Array(Str("x"), Str("y"))),
			),
			Str("solo"),
			Object(),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_ListItemNestedObject(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"items[2]:",
		"  - a:",
		"      b: 1",
		"    c: 2",
		"  - 5",
	}, "\n"))

	want := Object(
		F("items", Array(
			Object(
				F("a", Object(F("b", Int(1)))),
				F("c", Int(2)),
			),
			Int(5),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_ListItemFirstFieldArray(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"list[1]:",
		"  - nums[2]: 1,2",
		"    ok: true",
	}, "\n"))

	want := Object(
		F("list", Array(
			Object(
				F("nums", Array(Int(1), Int(2))),
				F("ok", Bool(true)),
			),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_ListItemFirstFieldGeneralList(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"wrap[1]:",
		"  - subs[2]:",
		"    - x: 1",
		"    - s",
		"    done: true",
	}, "\n"))

	want := Object(
		F("wrap", Array(
			Object(
				F("subs", Array(
					Object(F("x", Int(1))),
					Str("s"),
				)),
				F("done", Bool(true)),
			),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_ArrayOfScalarArrays(t *testing.T) {
	v := mustDecode(t, strings.Join([]string{
		"pairs[2]:",
		"  - [2]: 1,2",
		"  - [1]: 3",
	}, "\n"))

	want := Object(
		F("pairs", Array(
			Array(Int(1), Int(2)),
			Array(Int(3)),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("decoded tree mismatch")
	}
}

func TestDecode_RootForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{"empty input", "", Object()},
		{"blank lines only", "\n\n", Object()},
		{"root scalar", "hi", Str("hi")},
		{"root number", "5", Int(5)},
		{"root quoted with colon", `"a:b"`, Str("a:b")},
		{"root array", "[2]: 1,2", Array(Int(1), Int(2))},
		{"root list", "[1]:\n  - id: 1", Array(Object(F("id", Int(1))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustDecode(t, tt.input)
			if !v.Equal(tt.want) {
				t.Errorf("decoded tree mismatch for %q", tt.input)
			}
		})
	}
}

func TestDecode_BlankLinesSkipped(t *testing.T) {
	v := mustDecode(t, "a: 1\n\n\nb: 2\n")
	want := Object(F("a", Int(1)), F("b", Int(2)))
	if !v.Equal(want) {
		t.Errorf("blank lines should not affect structure")
	}
}

// ------------------------------------------------------------
// Strict mode enforcement
// ------------------------------------------------------------

func TestDecode_StrictCountMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"inline too many", "nums[2]: 1,2,3"},
		{"inline too few", "nums[4]: 1,2,3"},
		{"tabular", "users[3]{id}:\n  1\n  2"},
		{"list", "items[2]:\n  - a: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if code := decodeErrCode(t, err); code != ErrArrayCountMismatch {
				t.Errorf("expected %s, got %s", ErrArrayCountMismatch, code)
			}
		})
	}
}

func TestDecode_LooseRederivesCounts(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.Strict = false

	v, err := DecodeWithOptions("nums[2]: 1,2,3", opts)
	if err != nil {
		t.Fatalf("loose decode failed: %v", err)
	}
	if v.Get("nums").Len() != 3 {
		t.Errorf("loose mode should keep the 3 values present, got %d", v.Get("nums").Len())
	}
}

func TestDecode_RowArityFatalInBothModes(t *testing.T) {
	input := "users[1]{id,name}:\n  1"

	_, err := Decode(input)
	if code := decodeErrCode(t, err); code != ErrRowArity {
		t.Errorf("strict: expected %s, got %s", ErrRowArity, code)
	}

	opts := DefaultDecodeOptions()
	opts.Strict = false
	_, err = DecodeWithOptions(input, opts)
	if code := decodeErrCode(t, err); code != ErrRowArity {
		t.Errorf("loose: expected %s, got %s", ErrRowArity, code)
	}
}

func TestDecode_StrictIndentation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a multiple", "a:\n   b: 1"},
		{"level jump", "a:\n    b: 1"},
		{"tab indent", "a:\n\tb: 1"},
		{"indented first line", "  a: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if code := decodeErrCode(t, err); code != ErrIndentation {
				t.Errorf("expected %s, got %s", ErrIndentation, code)
			}
		})
	}
}

func TestDecode_LooseToleratesIndentation(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.Strict = false

	tests := []struct {
		name  string
		input string
		want  *Value
	}{
		{"floored odd width", "a:\n   b: 1", Object(F("a", Object(F("b", Int(1)))))},
		{"skipped level", "a:\n    b: 1", Object(F("a", Object(F("b", Int(1)))))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeWithOptions(tt.input, opts)
			if err != nil {
				t.Fatalf("loose decode failed: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("decoded tree mismatch")
			}
		})
	}
}

func TestDecode_ArrayRowsSkipLevel(t *testing.T) {
	listDoc := "items[1]:\n    - a: 1"
	tabularDoc := "users[1]{id,name}:\n      1,Ada"

	t.Run("strict list", func(t *testing.T) {
		_, err := Decode(listDoc)
		if code := decodeErrCode(t, err); code != ErrIndentation {
			t.Errorf("expected %s, got %s", ErrIndentation, code)
		}
	})
	t.Run("strict tabular", func(t *testing.T) {
		_, err := Decode(tabularDoc)
		if code := decodeErrCode(t, err); code != ErrIndentation {
			t.Errorf("expected %s, got %s", ErrIndentation, code)
		}
	})

	opts := DefaultDecodeOptions()
	opts.Strict = false

	t.Run("loose list", func(t *testing.T) {
		v, err := DecodeWithOptions(listDoc, opts)
		if err != nil {
			t.Fatalf("loose decode failed: %v", err)
		}
		want := Object(F("items", Array(Object(F("a", Int(1))))))
		if !v.Equal(want) {
			t.Errorf("decoded tree mismatch")
		}
	})
	t.Run("loose tabular", func(t *testing.T) {
		v, err := DecodeWithOptions(tabularDoc, opts)
		if err != nil {
			t.Fatalf("loose decode failed: %v", err)
		}
		want := Object(F("users", Array(Object(F("id", Int(1)), F("name", Str("Ada"))))))
		if !v.Equal(want) {
			t.Errorf("decoded tree mismatch")
		}
	})
}

// ------------------------------------------------------------
// Structural errors
// ------------------------------------------------------------

func TestDecode_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate key", "a: 1\na: 2"},
		{"duplicate tabular field", "rows[1]{id,id}:\n  1,2"},
		{"bare scalar in object", "a: 1\nstray"},
		{"list item outside array", "a: 1\n- oops"},
		{"invalid count", "a[x]: 1"},
		{"negative count", "a[-1]: 1"},
		{"missing bracket close", "a[2: 1"},
		{"junk after header", "a[1]junk: 1"},
		{"unclosed field list", "a[1]{id: 1"},
		{"content after root scalar", "hello\nworld"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if code := decodeErrCode(t, err); code != ErrStructuralParse {
				t.Errorf("expected %s, got %s", ErrStructuralParse, code)
			}
		})
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.MaxDepth = 2

	input := strings.Join([]string{
		"a:",
		"  b:",
		"    c:",
		"      d: 1",
	}, "\n")
	_, err := DecodeWithOptions(input, opts)
	if code := decodeErrCode(t, err); code != ErrStructuralParse {
		t.Errorf("expected %s, got %s", ErrStructuralParse, code)
	}

	opts.MaxDepth = 16
	if _, err := DecodeWithOptions(input, opts); err != nil {
		t.Errorf("depth 3 should fit in 16, got %v", err)
	}
}

func TestDecode_ScalarParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated value", `a: "oops`},
		{"bad escape", `a: "bad \q"`},
		{"unterminated cell", `tags[1]: "oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if code := decodeErrCode(t, err); code != ErrScalarParse {
				t.Errorf("expected %s, got %s", ErrScalarParse, code)
			}
		})
	}
}

func TestDecode_ErrorsCarryLineNumbers(t *testing.T) {
	_, err := Decode("a: 1\nb: 2\nb: 3")
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Line != 3 {
		t.Errorf("expected line 3, got %d", de.Line)
	}
}

// ------------------------------------------------------------
// Path expansion
// ------------------------------------------------------------

func TestDecode_PathExpansion(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.ExpandPaths = ExpandSafe

	v, err := DecodeWithOptions("a.b.c: 1\na.b.d: 2", opts)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := Object(
		F("a", Object(
			F("b", Object(
				F("c", Int(1)),
				F("d", Int(2)),
			)),
		)),
	)
	if !v.Equal(want) {
		t.Errorf("expanded tree mismatch")
	}
}

func TestDecode_PathExpansionOff(t *testing.T) {
	v := mustDecode(t, "a.b: 1")
	want := Object(F("a.b", Int(1)))
	if !v.Equal(want) {
		t.Errorf("dotted keys must stay literal without expansion")
	}
}

func TestDecode_PathExpansionQuotedKeyStaysLiteral(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.ExpandPaths = ExpandSafe

	v, err := DecodeWithOptions(`"a.b": 1`, opts)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	// The decoded key is "a.b" either way; expansion applies to any dotted
	// identifier key, so this expands too. Non-identifier dotted keys do not.
	v2, err := DecodeWithOptions(`"a.b c": 1`, opts)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !v2.Equal(Object(F("a.b c", Int(1)))) {
		t.Errorf("non-identifier dotted key must not expand")
	}
	if !v.Equal(Object(F("a", Object(F("b", Int(1)))))) {
		t.Errorf("identifier dotted key should expand")
	}
}

func TestDecode_PathExpansionConflicts(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.ExpandPaths = ExpandSafe

	tests := []struct {
		name  string
		input string
	}{
		{"scalar intermediate", "a: 1\na.b: 2"},
		{"conflicting values", "a.b: 1\na:\n  b: 2"},
		{"scalar reassigns expanded path", "a.b: 1\na: 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWithOptions(tt.input, opts)
			if code := decodeErrCode(t, err); code != ErrPathExpansionConflict {
				t.Errorf("expected %s, got %s", ErrPathExpansionConflict, code)
			}
		})
	}
}

func TestDecode_PathExpansionEqualReassignment(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.ExpandPaths = ExpandSafe

	v, err := DecodeWithOptions("a.b: 1\na:\n  b: 1", opts)
	if err != nil {
		t.Fatalf("equal reassignment should be tolerated, got %v", err)
	}
	if !v.Equal(Object(F("a", Object(F("b", Int(1)))))) {
		t.Errorf("expanded tree mismatch")
	}
}
