package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/search"
)

// imageContextPattern matches the annotation added by imageContextFormat.
var imageContextPattern = regexp.MustCompile(`\s*\[Attached image, described automatically: ([^\]]*)\]`)

// unwrapImageContext replaces an image annotation with the bare description.
func unwrapImageContext(text string) string {
	return strings.TrimSpace(imageContextPattern.ReplaceAllString(text, " $1"))
}

// fallbackTerm picks a search term from raw user text without the model.
// The first known keyword present as a word (or its plural) wins; otherwise
// the text minus location words is used.
func fallbackTerm(text string) string {
	text = unwrapImageContext(text)
	lowered := strings.ToLower(text)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	joined := " " + strings.Join(words, " ") + " "

	for _, kw := range fallbackKeywords {
		if strings.Contains(joined, " "+kw+" ") || strings.Contains(joined, " "+kw+"s ") {
			return kw
		}
	}

	region, _ := search.ExtractLocation(lowered)
	if stripped := search.StripLocation(lowered, region); stripped != "" {
		return stripped
	}
	return core.Normalize(text)
}

// fallbackReply answers from plain search when model inference failed.
func (o *Orchestrator) fallbackReply(ctx context.Context, req *Request, query string) (*Reply, error) {
	term := fallbackTerm(query)

	// A named region keeps the search regional.
	searchQuery := term
	if region, ok := search.ExtractLocation(unwrapImageContext(query)); ok {
		searchQuery = term + " from " + region
	}
	o.logger.Info("answering with fallback search", "term", term, "query", searchQuery)

	result, err := o.searcher.Search(ctx, searchQuery, req.affiliation())
	if err != nil {
		o.logger.Error("fallback search failed", "query", searchQuery, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	searchResultsCount.Observe(float64(result.Len()))

	reply := &Reply{
		Query:    query,
		Fallback: true,
		Listings: result.Listings,
	}
	reply.Text = fallbackText(term, result.Len())
	return reply, nil
}

func fallbackText(term string, found int) string {
	if found > 0 {
		return fmt.Sprintf(fallbackFoundFormat, found, term)
	}
	return fmt.Sprintf(fallbackNotFoundFormat, term)
}
