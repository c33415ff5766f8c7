package render

import (
	"strings"

	"github.com/goliatone/go-addons/pkg/model"
)

// Subset selects resolved groups by source name and group key. Tokens are
// matched case-insensitively; a group passes when it matches every non-empty
// filter.
type Subset struct {
	Sources []string
	Groups  []string
}

// Empty reports whether the subset has no filters.
func (s Subset) Empty() bool {
	return len(normaliseTokens(s.Sources)) == 0 && len(normaliseTokens(s.Groups)) == 0
}

// ApplySubset returns the groups matching subset, preserving order. Field
// indexes are untouched so they still address the entity's addons.
func ApplySubset(groups []model.ResolvedGroup, subset Subset) []model.ResolvedGroup {
	sources := normaliseTokens(subset.Sources)
	keys := normaliseTokens(subset.Groups)
	if len(sources) == 0 && len(keys) == 0 {
		return groups
	}

	filtered := make([]model.ResolvedGroup, 0, len(groups))
	for _, group := range groups {
		if len(sources) > 0 {
			if _, ok := sources[normaliseToken(group.Source)]; !ok {
				continue
			}
		}
		if len(keys) > 0 {
			if _, ok := keys[normaliseToken(group.Key)]; !ok {
				continue
			}
		}
		filtered = append(filtered, group)
	}
	return filtered
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if token := normaliseToken(part); token != "" {
				out[token] = struct{}{}
			}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
