// Package station holds the validated primitive identifiers used throughout
// the journey planning core: station codes, operator codes, and headcodes.
package station

import "github.com/onwardrail/core/railerr"

// Code is a three-letter uppercase ASCII station code (CRS/NLC style).
// Constructed only by Parse; equality and hashing are byte-equality via
// the underlying comparable string type.
type Code struct {
	value string
}

// Parse validates s as a three-uppercase-letter station code.
func Parse(s string) (Code, error) {
	if !isThreeUpperLetters(s) {
		return Code{}, railerr.NewValidation("station-code", "must be exactly three uppercase ASCII letters: "+s)
	}
	return Code{value: s}, nil
}

// MustParse is Parse but panics on failure; intended for tests and
// compile-time-known literals.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the three-letter code.
func (c Code) String() string { return c.value }

// IsZero reports whether c is the zero value (never produced by Parse).
func (c Code) IsZero() bool { return c.value == "" }

func isThreeUpperLetters(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// OperatorCode is a two-letter uppercase ASCII train operating company
// code (ATOC style).
type OperatorCode struct {
	value string
}

// ParseOperator validates s as a two-uppercase-letter operator code.
func ParseOperator(s string) (OperatorCode, error) {
	if len(s) != 2 || s[0] < 'A' || s[0] > 'Z' || s[1] < 'A' || s[1] > 'Z' {
		return OperatorCode{}, railerr.NewValidation("operator-code", "must be exactly two uppercase ASCII letters: "+s)
	}
	return OperatorCode{value: s}, nil
}

// String returns the two-letter code.
func (o OperatorCode) String() string { return o.value }

// IsZero reports whether o is the zero value.
func (o OperatorCode) IsZero() bool { return o.value == "" }

// Headcode is a four-character train describer in the pattern
// digit-uppercase_letter-digit-digit (e.g. "1A23"). Non-matching inputs are
// not an error: non-standard headcodes are common enough upstream that
// "absent" is the right signal, not "malformed".
type Headcode struct {
	value string
}

// ParseHeadcode returns the parsed headcode, or false if s does not match
// the digit-letter-digit-digit grammar.
func ParseHeadcode(s string) (Headcode, bool) {
	if len(s) != 4 {
		return Headcode{}, false
	}
	if s[0] < '0' || s[0] > '9' {
		return Headcode{}, false
	}
	if s[1] < 'A' || s[1] > 'Z' {
		return Headcode{}, false
	}
	if s[2] < '0' || s[2] > '9' {
		return Headcode{}, false
	}
	if s[3] < '0' || s[3] > '9' {
		return Headcode{}, false
	}
	return Headcode{value: s}, true
}

// String returns the four-character headcode.
func (h Headcode) String() string { return h.value }

// IsZero reports whether h is the zero value.
func (h Headcode) IsZero() bool { return h.value == "" }
