// internal/thermal/thermal_test.go
package thermal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestZone_Celsius(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	if err := os.WriteFile(path, []byte("81234\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Zone{Path: path}.Celsius()
	if err != nil {
		t.Fatalf("Celsius: %v", err)
	}
	if c != 81.234 {
		t.Fatalf("Celsius = %v, want 81.234", c)
	}
}

func TestZone_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (Zone{Path: filepath.Join(dir, "missing")}).Celsius(); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "temp")
	if err := os.WriteFile(bad, []byte("hot"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Zone{Path: bad}).Celsius(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestThresholds_Classify(t *testing.T) {
	th := Thresholds{WarnC: 80, BadC: 90}
	tests := []struct {
		c    float64
		want Severity
	}{
		{45, OK},
		{80, OK},
		{80.5, Warn},
		{90, Warn},
		{90.1, Bad},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.c); got != tt.want {
			t.Fatalf("Classify(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
