package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "CG001", FormatCode("CG", 1))
	assert.Equal(t, "ALRT042", FormatCode("ALRT", 42))
	assert.Equal(t, "T1234", FormatCode("T", 1234))
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		code   string
		want   int64
		ok     bool
	}{
		{"plain", "CG", "CG007", 7, true},
		{"wide", "T", "T1000", 1000, true},
		{"wrong prefix", "RF", "CG001", 0, false},
		{"prefix overlap", "ALRT", "UALRT003", 0, false},
		{"not numeric", "FP", "FPabc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCode(tt.prefix, tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("FP001")
	assert.NoError(t, err)
	assert.True(t, CheckPasswordHash("FP001", hash))
	assert.False(t, CheckPasswordHash("FP002", hash))
}
