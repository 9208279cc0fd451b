package domain

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"slow-burn", "Slow Burn"},
		{"go", "Go"},
		{"a-b-c", "A B C"},
	}
	for _, tt := range tests {
		tag := Tag{Slug: tt.slug}
		if got := tag.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestVisibilityIsValid(t *testing.T) {
	if !VisibilityDraft.IsValid() || !VisibilityPublished.IsValid() {
		t.Error("known states should be valid")
	}
	if Visibility("secret").IsValid() {
		t.Error("unknown state should be invalid")
	}
	if Visibility("").IsValid() {
		t.Error("empty state should be invalid")
	}
}
