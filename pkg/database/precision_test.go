package database

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		in      string
		want    Precision
		wantErr bool
	}{
		{in: "single", want: PrecisionSingle},
		{in: "S", want: PrecisionSingle},
		{in: "32", want: PrecisionSingle},
		{in: "fp16", want: PrecisionHalf},
		{in: " double ", want: PrecisionDouble},
		{in: "3232", want: PrecisionComplexSingle},
		{in: "z", want: PrecisionComplexDouble},
		{in: "-1", want: PrecisionAny},
		{in: "any", want: PrecisionAny},
		{in: "quad", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrecision(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrecision_Matches(t *testing.T) {
	for _, p := range ConcretePrecisions() {
		assert.True(t, p.Matches(p), p)
		assert.True(t, PrecisionAny.Matches(p), p)
	}
	assert.False(t, PrecisionSingle.Matches(PrecisionDouble))
	assert.False(t, PrecisionSingle.Matches(PrecisionAny))
}

func TestPrecision_Concrete(t *testing.T) {
	assert.Len(t, ConcretePrecisions(), 5)
	assert.NotContains(t, ConcretePrecisions(), PrecisionAny)
	assert.True(t, PrecisionAny.IsValid())
	assert.False(t, PrecisionAny.IsConcrete())
	assert.False(t, Precision("quad").IsValid())
}

func TestPrecision_Decode(t *testing.T) {
	var entry struct {
		Precision Precision `yaml:"precision" json:"precision"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("precision: 64\n"), &entry))
	assert.Equal(t, PrecisionDouble, entry.Precision)

	require.NoError(t, json.Unmarshal([]byte(`{"precision":16}`), &entry))
	assert.Equal(t, PrecisionHalf, entry.Precision)

	require.NoError(t, json.Unmarshal([]byte(`{"precision":"complex-single"}`), &entry))
	assert.Equal(t, PrecisionComplexSingle, entry.Precision)

	assert.Error(t, json.Unmarshal([]byte(`{"precision":true}`), &entry))
	assert.Error(t, yaml.Unmarshal([]byte("precision: [1]\n"), &entry))
}

func TestPrecision_DecodeJSONNumbers(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Precision
		wantErr bool
	}{
		{"whole code", `32`, PrecisionSingle, false},
		{"whole code with exponent", `6.4e1`, PrecisionDouble, false},
		{"negative wildcard code", `-1`, PrecisionAny, false},
		{"fractional code", `32.9`, "", true},
		{"fractional wildcard", `-1.5`, "", true},
		{"unknown whole code", `8`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Precision
			err := json.Unmarshal([]byte(tt.in), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPrecision_DecodeYAMLFraction(t *testing.T) {
	var p Precision
	assert.Error(t, yaml.Unmarshal([]byte("32.9\n"), &p))
}
