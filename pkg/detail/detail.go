// Package detail turns one fetched book record into a display-ready
// structure: deduplicated publish years, resolved language names, a
// reference URL and a plain-text citation. The projection is pure; it
// never mutates the record and performs no I/O.
package detail

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openshelf/openshelf/pkg/book"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// subjectCap bounds the subject list; records can carry hundreds of
// tags and only the leading ones are worth showing.
const subjectCap = 10

const workBaseURL = "https://openlibrary.org"

// Detail is the display-ready projection of one record.
type Detail struct {
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle,omitempty"`
	Authors   []string `json:"authors"`
	Years     []int    `json:"years,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Subjects  []string `json:"subjects,omitempty"`
	Editions  int      `json:"editions,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	URL       string   `json:"url"`
	Citation  string   `json:"citation"`
}

// Project builds the detail view for b.
func Project(b book.Book) Detail {
	return Detail{
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Authors:   b.Authors,
		Years:     publishYears(b),
		Languages: languageNames(b.Languages),
		Subjects:  cappedSubjects(b.Subjects),
		Editions:  b.EditionCount,
		Rating:    b.Rating,
		URL:       workURL(b.Key),
		Citation:  citation(b),
	}
}

// publishYears merges the first publish year into the known year list,
// deduplicates and sorts descending (most recent first).
func publishYears(b book.Book) []int {
	seen := make(map[int]struct{})
	var years []int
	add := func(y int) {
		if y == 0 {
			return
		}
		if _, dup := seen[y]; dup {
			return
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	add(b.FirstPublishYear)
	for _, y := range b.PublishYears {
		add(y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func cappedSubjects(subjects []string) []string {
	if len(subjects) <= subjectCap {
		return subjects
	}
	return subjects[:subjectCap]
}

// workURL builds the external reference URL from the record key. Keys
// arrive as provider paths like "/works/OL45883W".
func workURL(key string) string {
	if key == "" {
		return ""
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return workBaseURL + key
}

// citation builds a plain-text citation: "Authors (Year). Title."
// The year is omitted when unknown; the subtitle is appended after a
// colon when present.
func citation(b book.Book) string {
	var sb strings.Builder
	sb.WriteString(b.AuthorLine())
	if b.FirstPublishYear > 0 {
		fmt.Fprintf(&sb, " (%d)", b.FirstPublishYear)
	}
	sb.WriteString(". ")
	sb.WriteString(b.Title)
	if b.Subtitle != "" {
		sb.WriteString(": ")
		sb.WriteString(b.Subtitle)
	}
	sb.WriteString(".")
	return sb.String()
}

// marcBibliographic maps the MARC bibliographic codes the provider uses
// where they differ from the terminology codes golang.org/x/text can
// parse directly.
var marcBibliographic = map[string]string{
	"alb": "sq",
	"arm": "hy",
	"baq": "eu",
	"bur": "my",
	"chi": "zh",
	"cze": "cs",
	"dut": "nl",
	"fre": "fr",
	"geo": "ka",
	"ger": "de",
	"gre": "el",
	"ice": "is",
	"mac": "mk",
	"mao": "mi",
	"may": "ms",
	"per": "fa",
	"rum": "ro",
	"slo": "sk",
	"tib": "bo",
	"wel": "cy",
}

// languageNames resolves provider language codes to English display
// names. Codes that cannot be resolved are kept verbatim so the record
// never loses information.
func languageNames(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, LanguageName(code))
	}
	return names
}

// LanguageName resolves one MARC language code to its English name,
// falling back to the raw code.
func LanguageName(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return code
	}
	if iso, ok := marcBibliographic[normalized]; ok {
		normalized = iso
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}
