package errors

import (
	"strings"
	"testing"
)

func TestValidateTreeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "opener-study", false},
		{"with spaces", "TKI variants 2026", false},
		{"with dots", "v1.2", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"max length ok", strings.Repeat("a", 128), false},
		{"parent traversal", "../secrets", true},
		{"double slash", "a//b", true},
		{"null byte", "a\x00b", true},
		{"control character", "a\nb", true},
		{"leading slash", "/etc/trees", true},
		{"leading backslash", "\\share", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}
