package minio

import (
	"strings"
	"testing"
)

func TestSanitizeFolder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Maria Lopez", "maria-lopez"},
		{"  Pedro  ", "pedro"},
		{"a/b\\c", "a-b-c"},
	}

	for _, tt := range tests {
		if got := sanitizeFolder(tt.in); got != tt.want {
			t.Errorf("sanitizeFolder(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFolderNoSeparators(t *testing.T) {
	got := sanitizeFolder("Ana / Sofia")
	if strings.ContainsAny(got, "/\\ ") {
		t.Fatalf("sanitized name still contains separators: %q", got)
	}
}
