package station

import "testing"

func TestParseRoundTrip(t *testing.T) {
	valid := []string{"PAD", "RDG", "BRI", "AAA", "ZZZ"}
	for _, s := range valid {
		c, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", s, err)
		}
		if c.String() != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, c.String(), s)
		}
	}
}

func TestParseRejectsNonGrammar(t *testing.T) {
	invalid := []string{"", "PA", "PADD", "pad", "P1D", "P D", "123"}
	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) = nil error, want failure", s)
		}
	}
}

func TestOperatorParseRoundTrip(t *testing.T) {
	valid := []string{"GW", "XC", "SW"}
	for _, s := range valid {
		o, err := ParseOperator(s)
		if err != nil {
			t.Fatalf("ParseOperator(%q) returned error: %v", s, err)
		}
		if o.String() != s {
			t.Errorf("ParseOperator(%q).String() = %q, want %q", s, o.String(), s)
		}
	}
}

func TestOperatorParseRejectsNonGrammar(t *testing.T) {
	invalid := []string{"", "G", "GWR", "gw", "G1"}
	for _, s := range invalid {
		if _, err := ParseOperator(s); err == nil {
			t.Errorf("ParseOperator(%q) = nil error, want failure", s)
		}
	}
}

func TestHeadcodeParseRoundTrip(t *testing.T) {
	valid := []string{"1A23", "9Z00", "0A00"}
	for _, s := range valid {
		h, ok := ParseHeadcode(s)
		if !ok {
			t.Fatalf("ParseHeadcode(%q) = false, want true", s)
		}
		if h.String() != s {
			t.Errorf("ParseHeadcode(%q).String() = %q, want %q", s, h.String(), s)
		}
	}
}

func TestHeadcodeParseAbsentNotError(t *testing.T) {
	// Non-matching headcodes are absence, not a parse failure: the caller
	// only gets a bool, never an error.
	invalid := []string{"", "123", "ABCD", "1234", "1a23", "1A2"}
	for _, s := range invalid {
		if _, ok := ParseHeadcode(s); ok {
			t.Errorf("ParseHeadcode(%q) = true, want false", s)
		}
	}
}
