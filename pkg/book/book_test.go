package book

import "testing"

func TestAuthorLine(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    string
	}{
		{"none", nil, "Unknown"},
		{"one", []string{"Frank Herbert"}, "Frank Herbert"},
		{"several", []string{"Ann A", "Bob B"}, "Ann A, Bob B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Book{Authors: tt.authors}
			if got := b.AuthorLine(); got != tt.want {
				t.Errorf("AuthorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLatestPublishYear(t *testing.T) {
	b := Book{FirstPublishYear: 1965, PublishYears: []int{1990, 1965, 2003}}
	if got := b.LatestPublishYear(); got != 2003 {
		t.Errorf("LatestPublishYear() = %d, want 2003", got)
	}

	b = Book{FirstPublishYear: 1965}
	if got := b.LatestPublishYear(); got != 1965 {
		t.Errorf("LatestPublishYear() fallback = %d, want 1965", got)
	}
}

func TestHasCover(t *testing.T) {
	if (Book{}).HasCover() {
		t.Error("zero cover id must report no cover")
	}
	if !(Book{CoverID: 42}).HasCover() {
		t.Error("positive cover id must report a cover")
	}
}
