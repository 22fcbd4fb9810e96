package penman

import "testing"

func TestEncode_RoundTrip(t *testing.T) {
	input := `(b / buy-01 :ARG0 (p / person) :ARG1 (c / car))`
	g, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	canonical := Encode(g)

	g2, err := Decode(canonical)
	if err != nil {
		t.Fatalf("Decode(canonical) error = %v", err)
	}
	if !graphsEqual(g, g2) {
		t.Errorf("decode(encode(g)) != g: got %+v, want %+v", g2.Triples, g.Triples)
	}
}

func TestEncode_Idempotent(t *testing.T) {
	input := `(b / buy-01 :ARG0 (p / person))`
	g, _ := Decode(input)
	first := Encode(g)

	g2, err := Decode(first)
	if err != nil {
		t.Fatalf("Decode(first) error = %v", err)
	}
	second := Encode(g2)

	if first != second {
		t.Errorf("Encode is not idempotent: %q != %q", first, second)
	}
}

func TestEncode_SingleLineNoIndentation(t *testing.T) {
	input := "(b / buy-01\n  :ARG0 (p / person))"
	g, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	canonical := Encode(g)
	for _, r := range canonical {
		if r == '\n' || r == '\t' {
			t.Errorf("Encode() should produce a single line with no indentation, got %q", canonical)
		}
	}
}

func TestEncode_QuotedConstantPreserved(t *testing.T) {
	input := `(c / city :name (n / name :op1 "New York"))`
	g, _ := Decode(input)
	canonical := Encode(g)
	if canonical != `(c / city :name (n / name :op1 "New York"))` {
		t.Errorf("Encode() = %q", canonical)
	}
}

func graphsEqual(a, b *Graph) bool {
	if a.Top != b.Top || len(a.Triples) != len(b.Triples) {
		return false
	}
	for i := range a.Triples {
		if a.Triples[i] != b.Triples[i] {
			return false
		}
	}
	return true
}
