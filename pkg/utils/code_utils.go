package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCode renders a sequential identifier such as "CG001". Numbers wider than
// three digits are printed in full.
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseCode extracts the numeric suffix of an identifier produced by FormatCode.
// It reports false when the prefix does not match or the suffix is not numeric.
func ParseCode(prefix, code string) (int64, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
