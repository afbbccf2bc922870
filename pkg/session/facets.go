package session

import (
	"sort"
	"strings"

	"github.com/openshelf/openshelf/pkg/book"
)

// Per-record sample caps. Records can carry hundreds of subject tags;
// only the leading few contribute facet values.
const (
	subjectSample   = 5
	publisherSample = 3
)

// Facets are the distinct attribute values seen across the accumulated
// result set. They are recomputed wholesale after every merge, never
// maintained incrementally, so a replaced result set can never leak
// stale values.
type Facets struct {
	Languages  []string `json:"languages"`
	Subjects   []string `json:"subjects"`
	Publishers []string `json:"publishers"`
}

// DeriveFacets scans the full merged result set and returns the
// distinct languages, subjects and publishers, each list sorted
// case-insensitively and truncated to limit values.
func DeriveFacets(books []book.Book, limit int) Facets {
	languages := make(map[string]struct{})
	subjects := make(map[string]struct{})
	publishers := make(map[string]struct{})

	for _, b := range books {
		for _, l := range b.Languages {
			languages[l] = struct{}{}
		}
		for i, s := range b.Subjects {
			if i >= subjectSample {
				break
			}
			subjects[s] = struct{}{}
		}
		for i, p := range b.Publishers {
			if i >= publisherSample {
				break
			}
			publishers[p] = struct{}{}
		}
	}

	return Facets{
		Languages:  sortedCapped(languages, limit),
		Subjects:   sortedCapped(subjects, limit),
		Publishers: sortedCapped(publishers, limit),
	}
}

func sortedCapped(set map[string]struct{}, limit int) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		return strings.ToLower(values[i]) < strings.ToLower(values[j])
	})
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}
