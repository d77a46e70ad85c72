package search

import (
	"regexp"
	"strings"
	"unicode"
)

// gazetteerEntry maps a key as it may appear in a query to a canonical region.
type gazetteerEntry struct {
	key    string
	region string
}

// gazetteer lists the known regions in scan order. Direct mentions resolve to
// the first entry found, so longer keys precede their abbreviations.
var gazetteer = []gazetteerEntry{
	{"giza", "giza"},
	{"cairo", "cairo"},
	{"alexandria", "alexandria"},
	{"alex", "alexandria"},
	{"aswan", "aswan"},
	{"asyut", "asyut"},
	{"beheira", "beheira"},
	{"beni suef", "beni suef"},
	{"dakahlia", "dakahlia"},
	{"damietta", "damietta"},
	{"faiyum", "faiyum"},
	{"gharbia", "gharbia"},
	{"ismailia", "ismailia"},
	{"kafr el-sheikh", "kafr el-sheikh"},
	{"luxor", "luxor"},
	{"matruh", "matruh"},
	{"minya", "minya"},
	{"monufia", "monufia"},
	{"new valley", "new valley"},
	{"north sinai", "north sinai"},
	{"port said", "port said"},
	{"qalyubia", "qalyubia"},
	{"qena", "qena"},
	{"red sea", "red sea"},
	{"sharqia", "sharqia"},
	{"sohag", "sohag"},
	{"south sinai", "south sinai"},
	{"suez", "suez"},
}

// locationPatterns are tried in order; the capture is everything after the preposition.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bfrom\s+(\w+(?:\s+\w+)*)`),
	regexp.MustCompile(`\bin\s+(\w+(?:\s+\w+)*)`),
	regexp.MustCompile(`\bat\s+(\w+(?:\s+\w+)*)`),
}

// Regions returns the canonical region names in gazetteer order, without duplicates.
func Regions() []string {
	seen := make(map[string]bool, len(gazetteer))
	regions := make([]string, 0, len(gazetteer))
	for _, e := range gazetteer {
		if !seen[e.region] {
			seen[e.region] = true
			regions = append(regions, e.region)
		}
	}
	return regions
}

// ExtractLocation returns the region named in query, if any.
//
// Prepositional phrases ("from X", "in X", "at X") are checked first: the phrase
// resolves when it contains a gazetteer key or is contained in one. Failing that,
// the whole query is scanned for any key. Matching is by whole words so that
// common words which happen to contain a region's letters do not resolve.
func ExtractLocation(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		for _, e := range gazetteer {
			if containsWord(candidate, e.key) || containsWord(e.key, candidate) {
				return e.region, true
			}
		}
	}

	for _, e := range gazetteer {
		if containsWord(q, e.key) {
			return e.region, true
		}
	}

	return "", false
}

// containsWord reports whether phrase occurs in s delimited by non-word characters.
func containsWord(s, phrase string) bool {
	return indexWord(s, phrase, 0) >= 0
}

// indexWord returns the byte index of the first whole-word occurrence of phrase
// in s at or after from, or -1.
func indexWord(s, phrase string, from int) int {
	if phrase == "" {
		return -1
	}
	for from <= len(s)-len(phrase) {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(phrase)
		if isBoundary(s, start-1) && isBoundary(s, end) {
			return start
		}
		from = start + 1
	}
	return -1
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
