package domain

// Filter narrows search and list results. All bounds are inclusive and
// compose with AND across filter kinds; zero-value fields impose no
// constraint.
type Filter struct {
	// Tags matches documents carrying at least one of the given tags
	// (OR semantics). Empty means match all.
	Tags []string

	// After is the inclusive lower bound on CreatedAt, Unix seconds.
	After *float64

	// Before is the inclusive upper bound on CreatedAt, Unix seconds.
	Before *float64

	// MinTokens is the inclusive lower bound on TokenCount.
	MinTokens *int

	// MaxTokens is the inclusive upper bound on TokenCount.
	MaxTokens *int
}

// Active reports whether any constraint is set.
func (f Filter) Active() bool {
	return len(f.Tags) > 0 || f.After != nil || f.Before != nil ||
		f.MinTokens != nil || f.MaxTokens != nil
}

// MatchesTags reports whether the document tag set satisfies the tag
// filter: true when the filter is empty or at least one tag overlaps.
func (f Filter) MatchesTags(tags []string) bool {
	if len(f.Tags) == 0 {
		return true
	}
	for _, want := range f.Tags {
		for _, have := range tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Matches evaluates every constraint against the document.
func (f Filter) Matches(doc *Document) bool {
	if !f.MatchesTags(doc.Tags) {
		return false
	}
	if f.After != nil && doc.CreatedAt < *f.After {
		return false
	}
	if f.Before != nil && doc.CreatedAt > *f.Before {
		return false
	}
	if f.MinTokens != nil && doc.TokenCount < *f.MinTokens {
		return false
	}
	if f.MaxTokens != nil && doc.TokenCount > *f.MaxTokens {
		return false
	}
	return true
}
