package search

import (
	"slices"
	"strings"
)

// locationWords are removed from a query before it is used as a match term.
var locationWords = []string{"from", "in", "at", "cairo", "giza", "alexandria", "alex"}

// synonym appends extra terms when trigger occurs in the primary term.
type synonym struct {
	trigger string
	terms   []string
}

var synonyms = []synonym{
	{"calculator", []string{"calc", "calculat"}},
	{"computer", []string{"comp", "comput"}},
	{"notebook", []string{"note", "book"}},
	{"pencil", []string{"pen", "cil"}},
}

// prefixLength is the size of the low-confidence prefix term.
const prefixLength = 4

// ExpandTerms turns a query into an ordered, duplicate-free list of substring
// match terms, most specific first.
//
// The first term is the query with location words and the detected region
// removed. It may be empty, in which case it matches every listing.
func ExpandTerms(query, region string) []string {
	primary := StripLocation(query, region)

	terms := []string{primary}
	add := func(t string) {
		if !slices.Contains(terms, t) {
			terms = append(terms, t)
		}
	}

	for _, s := range synonyms {
		if strings.Contains(primary, s.trigger) {
			for _, t := range s.terms {
				add(t)
			}
		}
	}

	if runes := []rune(primary); len(runes) > prefixLength {
		add(string(runes[:prefixLength]))
	}

	return terms
}

// StripLocation lower-cases query and removes location indicator words,
// common region names and the detected region, collapsing whitespace.
func StripLocation(query, region string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	words := locationWords
	if region != "" {
		words = append(slices.Clone(locationWords), strings.ToLower(region))
	}
	for _, w := range words {
		q = removeWord(q, w)
	}
	return strings.Join(strings.Fields(q), " ")
}

func removeWord(s, word string) string {
	for {
		i := indexWord(s, word, 0)
		if i < 0 {
			return s
		}
		s = s[:i] + " " + s[i+len(word):]
	}
}
