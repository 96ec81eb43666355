package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"chat", 10, "chat"},
		{"verificar material", 8, "verific…"},
		{"crear", 0, ""},
		{"añadir", 6, "añadir"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if w := Width(Truncate(tt.in, tt.width)); w > tt.width {
			t.Errorf("Truncate(%q, %d) is %d columns wide", tt.in, tt.width, w)
		}
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("sube un documento y revisa las afirmaciones", 15)
	want := []string{"sube un", "documento y", "revisa las", "afirmaciones"}
	if len(got) != len(want) {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if Wrap("x", 0) != nil {
		t.Error("zero width should produce no lines")
	}
}
