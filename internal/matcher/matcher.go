// backend/internal/matcher/matcher.go
package matcher

import (
	"sort"
	"strings"

	"github.com/profinder/backend/internal/models"
)

// Matcher filters and ranks catalog entries against a query. Matching is
// recomputed per call; there is no cursor and no pagination. Callers
// wanting more than the cap refine the query instead.
type Matcher struct {
	limit int
}

func New(limit int) *Matcher {
	if limit <= 0 {
		limit = 3
	}
	return &Matcher{limit: limit}
}

// Match returns at most the configured top-N professionals matching the
// query, ordered by rating desc, review count desc, catalog order. An
// empty result is a valid outcome, not an error.
func (m *Matcher) Match(query models.FindRequest, pros []models.Professional) []models.Professional {
	wantTrade := normalizeToken(query.Service)
	wantLocation := tokenize(query.Location)

	type ranked struct {
		pro   models.Professional
		index int // stable catalog order for the final tie-break
	}

	var matched []ranked
	for i, pro := range pros {
		if wantTrade != "" && normalizeToken(pro.Trade) != wantTrade {
			continue
		}
		if len(wantLocation) > 0 && !tokensOverlap(wantLocation, tokenize(pro.Location)) {
			continue
		}
		if query.MinRating > 0 && pro.Rating < query.MinRating {
			continue
		}
		matched = append(matched, ranked{pro: pro, index: i})
	}

	sort.SliceStable(matched, func(a, b int) bool {
		if matched[a].pro.Rating != matched[b].pro.Rating {
			return matched[a].pro.Rating > matched[b].pro.Rating
		}
		if matched[a].pro.ReviewCount != matched[b].pro.ReviewCount {
			return matched[a].pro.ReviewCount > matched[b].pro.ReviewCount
		}
		return matched[a].index < matched[b].index
	})

	if len(matched) > m.limit {
		matched = matched[:m.limit]
	}

	results := make([]models.Professional, len(matched))
	for i, r := range matched {
		results[i] = r.pro
	}
	return results
}

// Limit returns the configured result cap.
func (m *Matcher) Limit() int {
	return m.limit
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tokenize splits a location into normalized city/state tokens. "Austin,
// TX" becomes {"austin", "tx"}.
func tokenize(location string) []string {
	fields := strings.FieldsFunc(strings.ToLower(location), func(r rune) bool {
		return r == ',' || r == ' ' || r == '.'
	})

	var tokens []string
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokensOverlap(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}
