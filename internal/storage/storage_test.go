// AngelaMos | 2026
// storage_test.go

package storage

import (
	"testing"
)

func TestPublicIDFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple pdf", "contract.pdf", "contract"},
		{"uppercase collapses", "Partnership Agreement.PDF", "partnership-agreement"},
		{"path is stripped", "/tmp/uploads/deal.pdf", "deal"},
		{"special characters become dashes", "q3 (final)!!.docx", "q3-final"},
		{"consecutive separators collapse", "a__b--c.png", "a-b-c"},
		{"unicode falls back to dashes", "契約書.pdf", "file"},
		{"empty name", "", "file"},
		{"extension only", ".pdf", "file"},
		{"stable across re-upload", "contract.pdf", "contract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicIDFromFilename(tt.filename); got != tt.want {
				t.Errorf("PublicIDFromFilename(%q) = %q, want %q",
					tt.filename, got, tt.want)
			}
		})
	}
}
