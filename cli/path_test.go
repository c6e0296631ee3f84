package cli

import (
	"testing"

	"github.com/ardnew/defconf/pkg"
)

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/defconf", "defconf"},
		{"defconf.exe", "defconf"},
		{"/tmp/__debug_bin", pkg.Name},
		{"/tmp/__debug_bin3217", pkg.Name},
		{"/home/user/.tool.sh", "tool"},
		{"..", pkg.Name},
		{"/opt/tool.v2.bin", "tool.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePrefix(tt.path); got != tt.want {
				t.Errorf("normalizePrefix(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
