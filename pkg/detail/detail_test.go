package detail

import (
	"reflect"
	"testing"

	"github.com/openshelf/openshelf/pkg/book"
)

func TestProjectYearsDedupedDescending(t *testing.T) {
	b := book.Book{
		Key:              "/works/OL45883W",
		Title:            "Dune",
		FirstPublishYear: 1965,
		PublishYears:     []int{1990, 1965, 2005, 1990},
	}

	d := Project(b)

	want := []int{2005, 1990, 1965}
	if !reflect.DeepEqual(d.Years, want) {
		t.Errorf("Years = %v, want %v", d.Years, want)
	}
}

func TestProjectSubjectsCapped(t *testing.T) {
	var subjects []string
	for i := 0; i < 30; i++ {
		subjects = append(subjects, "subject")
	}

	d := Project(book.Book{Key: "/works/OL1W", Title: "T", Subjects: subjects})
	if len(d.Subjects) != subjectCap {
		t.Errorf("got %d subjects, want cap of %d", len(d.Subjects), subjectCap)
	}
}

func TestProjectURL(t *testing.T) {
	d := Project(book.Book{Key: "/works/OL45883W", Title: "Dune"})
	if d.URL != "https://openlibrary.org/works/OL45883W" {
		t.Errorf("URL = %q", d.URL)
	}

	d = Project(book.Book{Key: "works/OL1W", Title: "T"})
	if d.URL != "https://openlibrary.org/works/OL1W" {
		t.Errorf("URL without leading slash = %q", d.URL)
	}

	d = Project(book.Book{Title: "no key"})
	if d.URL != "" {
		t.Errorf("URL for keyless record = %q, want empty", d.URL)
	}
}

func TestCitation(t *testing.T) {
	tests := []struct {
		name string
		b    book.Book
		want string
	}{
		{
			name: "full",
			b: book.Book{
				Title:            "Dune",
				Authors:          []string{"Frank Herbert"},
				FirstPublishYear: 1965,
			},
			want: "Frank Herbert (1965). Dune.",
		},
		{
			name: "multiple authors and subtitle",
			b: book.Book{
				Title:            "Good Omens",
				Subtitle:         "The Nice and Accurate Prophecies of Agnes Nutter, Witch",
				Authors:          []string{"Terry Pratchett", "Neil Gaiman"},
				FirstPublishYear: 1990,
			},
			want: "Terry Pratchett, Neil Gaiman (1990). Good Omens: The Nice and Accurate Prophecies of Agnes Nutter, Witch.",
		},
		{
			name: "no author no year",
			b:    book.Book{Title: "Beowulf"},
			want: "Unknown. Beowulf.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Project(tt.b).Citation; got != tt.want {
				t.Errorf("Citation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"eng", "English"},
		{"fre", "French"}, // MARC bibliographic code
		{"ger", "German"},
		{"spa", "Spanish"},
		{"chi", "Chinese"},
		{"", ""},
		{"zzzz-not-a-code", "zzzz-not-a-code"},
	}

	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestProjectDoesNotMutateRecord(t *testing.T) {
	b := book.Book{
		Key:          "/works/OL1W",
		Title:        "T",
		PublishYears: []int{1990, 1965},
		Subjects:     []string{"a", "b"},
	}
	before := reflect.ValueOf(b).Interface()

	_ = Project(b)

	if !reflect.DeepEqual(before, b) {
		t.Error("Project mutated its input record")
	}
}
