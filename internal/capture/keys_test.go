package capture

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		isError bool
	}{
		{"LeftCtrl", false},
		{"RightCtrl", false},
		{"A", false},
		{"F12", false},
		{"NotAKey", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKey(tt.name)
			if tt.isError && err == nil {
				t.Fatalf("expected error for key name %q, got none", tt.name)
			}
			if !tt.isError && err != nil {
				t.Fatalf("unexpected error for key name %q: %v", tt.name, err)
			}
		})
	}
}

func TestParseKeyDistinctCodes(t *testing.T) {
	a, err := ParseKey("LeftCtrl")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseKey("RightCtrl")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("expected distinct key codes, got %v == %v", a, b)
	}
}
