package jsonstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		valid    bool
		keyCount int
		depth    int
	}{
		{"scalar", `42`, true, 0, 0},
		{"empty object", `{}`, true, 0, 1},
		{"flat object", `{"a":1,"b":"x"}`, true, 2, 1},
		{"nested object", `{"a":{"b":{"c":true}}}`, true, 3, 3},
		{"array of objects", `[{"a":1},{"b":2,"c":[1,2]}]`, true, 3, 3},
		{"empty input", ``, false, 0, 0},
		{"trailing comma", `{"a":1,}`, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(tt.content)
			assert.Equal(t, tt.valid, stats.Valid)
			assert.Equal(t, tt.keyCount, stats.KeyCount)
			assert.Equal(t, tt.depth, stats.Depth)
			assert.Equal(t, len(tt.content), stats.ByteSize)
			if tt.valid {
				assert.Nil(t, stats.ErrorInfo)
			} else {
				require.NotNil(t, stats.ErrorInfo)
				assert.False(t, stats.ErrorInfo.Valid)
				assert.NotEmpty(t, stats.ErrorInfo.ErrorMessage)
			}
		})
	}
}

func TestValidateErrorLocation(t *testing.T) {
	result := Validate("{\n  x")
	assert.False(t, result.Valid)
	assert.Equal(t, 2, result.ErrorLine)
	assert.Equal(t, 3, result.ErrorColumn)
	assert.Contains(t, FormatError(result), "Line 2, Column 3")

	result = Validate("{x")
	assert.Equal(t, 1, result.ErrorLine)
	assert.Equal(t, 2, result.ErrorColumn)
}

func TestValidateEOF(t *testing.T) {
	result := Validate(`{"a":`)
	assert.False(t, result.Valid)
	assert.Equal(t, "EOF while parsing a value", result.ErrorMessage)
	assert.Equal(t, 1, result.ErrorLine)
}

func TestStatsClone(t *testing.T) {
	var nilStats *Stats
	assert.Nil(t, nilStats.Clone())

	stats := ComputeStats(`{`)
	clone := stats.Clone()
	require.NotNil(t, clone.ErrorInfo)
	clone.ErrorInfo.ErrorLine = 99
	assert.NotEqual(t, 99, stats.ErrorInfo.ErrorLine)
}
