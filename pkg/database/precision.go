package database

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Precision is the numeric type a kernel is specialized for.
type Precision string

const (
	PrecisionHalf          Precision = "half"
	PrecisionSingle        Precision = "single"
	PrecisionDouble        Precision = "double"
	PrecisionComplexSingle Precision = "complex-single"
	PrecisionComplexDouble Precision = "complex-double"

	// PrecisionAny matches every concrete precision. It is only meaningful
	// on table entries, never on a request.
	PrecisionAny Precision = "any"
)

// precisionAliases maps accepted spellings to the canonical precision.
// The numeric codes are the bit-width codes used by the upstream tables.
var precisionAliases = map[string]Precision{
	"half":           PrecisionHalf,
	"h":              PrecisionHalf,
	"16":             PrecisionHalf,
	"fp16":           PrecisionHalf,
	"single":         PrecisionSingle,
	"s":              PrecisionSingle,
	"32":             PrecisionSingle,
	"fp32":           PrecisionSingle,
	"double":         PrecisionDouble,
	"d":              PrecisionDouble,
	"64":             PrecisionDouble,
	"fp64":           PrecisionDouble,
	"complex-single": PrecisionComplexSingle,
	"complexsingle":  PrecisionComplexSingle,
	"c":              PrecisionComplexSingle,
	"3232":           PrecisionComplexSingle,
	"complex-double": PrecisionComplexDouble,
	"complexdouble":  PrecisionComplexDouble,
	"z":              PrecisionComplexDouble,
	"6464":           PrecisionComplexDouble,
	"any":            PrecisionAny,
	"-1":             PrecisionAny,
}

// SupportedPrecisions returns the canonical precisions in table order.
func SupportedPrecisions() []Precision {
	return []Precision{
		PrecisionHalf,
		PrecisionSingle,
		PrecisionDouble,
		PrecisionComplexSingle,
		PrecisionComplexDouble,
		PrecisionAny,
	}
}

// ConcretePrecisions returns the precisions a request may ask for.
func ConcretePrecisions() []Precision {
	return SupportedPrecisions()[:5]
}

// ParsePrecision converts a precision name, BLAS prefix or bit-width code to a Precision.
func ParsePrecision(s string) (Precision, error) {
	p, ok := precisionAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown precision %q, supported values: %v", s, SupportedPrecisions())
	}
	return p, nil
}

// IsValid reports whether p is one of the canonical precisions.
func (p Precision) IsValid() bool {
	switch p {
	case PrecisionHalf, PrecisionSingle, PrecisionDouble,
		PrecisionComplexSingle, PrecisionComplexDouble, PrecisionAny:
		return true
	}
	return false
}

// IsConcrete reports whether p is a valid precision other than PrecisionAny.
func (p Precision) IsConcrete() bool {
	return p.IsValid() && p != PrecisionAny
}

// Matches reports whether an entry tagged with p applies to the requested precision.
func (p Precision) Matches(requested Precision) bool {
	return p == requested || p == PrecisionAny
}

// String returns the canonical name.
func (p Precision) String() string {
	return string(p)
}

// UnmarshalYAML accepts any spelling ParsePrecision understands, including bare integers.
func (p *Precision) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: precision must be a scalar", value.Line)
	}
	parsed, err := ParsePrecision(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = parsed
	return nil
}

// UnmarshalJSON accepts a string or a numeric bit-width code.
func (p *Precision) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("precision code must be a whole number, got %s", string(data))
		}
		s = fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Errorf("precision must be a string or number, got %s", string(data))
	}
	parsed, err := ParsePrecision(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
